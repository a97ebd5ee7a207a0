package queue

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/HoangSama213/hospital/internal/domain/triage"
)

// FieldDelimiter joins the five fields of a stored line. Fields are not
// escaped: a value containing the delimiter will not survive a reload.
const FieldDelimiter = "-"

const fieldCount = 5

type fileRepo struct {
	fs   afero.Fs
	path string
}

// NewFileRepo returns a repository backed by a line-oriented text file.
func NewFileRepo(fs afero.Fs, path string) PatientRepository {
	return &fileRepo{fs: fs, path: path}
}

// EncodeLine renders a patient as one stored line, without the newline.
func EncodeLine(p triage.Patient) string {
	return strings.Join(p.Fields(), FieldDelimiter)
}

// DecodeLine parses one stored line. Surrounding whitespace of the line and
// of each field is ignored.
func DecodeLine(line string) (triage.Patient, error) {
	parts := strings.Split(strings.TrimSpace(line), FieldDelimiter)
	if len(parts) != fieldCount {
		return triage.Patient{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	age, err := strconv.Atoi(parts[1])
	if err != nil || age < 0 {
		return triage.Patient{}, fmt.Errorf("age %q is not a non-negative integer", parts[1])
	}
	return triage.Patient{
		Name:        parts[0],
		Age:         age,
		Sex:         parts[2],
		Condition:   triage.Tier(parts[3]),
		ArrivalTime: parts[4],
	}, nil
}

func (r *fileRepo) Load(ctx context.Context) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return &LoadResult{}, err
	}
	exists, err := afero.Exists(r.fs, r.path)
	if err != nil {
		return &LoadResult{}, fmt.Errorf("stat patient store %q: %w", r.path, err)
	}
	if !exists {
		if err := afero.WriteFile(r.fs, r.path, nil, 0o644); err != nil {
			return &LoadResult{}, fmt.Errorf("create patient store %q: %w", r.path, err)
		}
		return &LoadResult{Created: true}, nil
	}

	f, err := r.fs.Open(r.path)
	if err != nil {
		return &LoadResult{}, fmt.Errorf("open patient store %q: %w", r.path, err)
	}
	defer f.Close()

	res := &LoadResult{}
	tooLong, err := triage.EachLine(f, func(lineNo int, line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		p, err := DecodeLine(line)
		if err != nil {
			res.Skipped = append(res.Skipped, triage.LineWarning{Line: lineNo, Content: line, Reason: err.Error()})
			return
		}
		res.Patients = append(res.Patients, p)
	})
	if err != nil {
		return &LoadResult{}, fmt.Errorf("read patient store %q: %w", r.path, err)
	}
	res.Skipped = append(res.Skipped, tooLong...)
	sort.SliceStable(res.Skipped, func(i, j int) bool { return res.Skipped[i].Line < res.Skipped[j].Line })
	return res, nil
}

func (r *fileRepo) Save(ctx context.Context, patients []triage.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, p := range patients {
		buf.WriteString(EncodeLine(p))
		buf.WriteByte('\n')
	}
	if err := afero.WriteFile(r.fs, r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write patient store %q: %w", r.path, err)
	}
	return nil
}
