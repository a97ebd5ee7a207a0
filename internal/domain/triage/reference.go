package triage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// LineWarning describes an input line that was skipped while loading a file.
type LineWarning struct {
	Line    int
	Content string
	Reason  string
}

func (w LineWarning) String() string {
	return fmt.Sprintf("line %d: %s: %q", w.Line, w.Reason, w.Content)
}

// MaxLineLength bounds one line of the store or reference file.
const MaxLineLength = 64 * 1024

// EachLine calls fn with the number and text of every line of r. A line of
// MaxLineLength bytes or more is skipped and reported as a warning instead.
func EachLine(r io.Reader, fn func(lineNo int, line string)) ([]LineWarning, error) {
	br := bufio.NewReaderSize(r, MaxLineLength)
	var warnings []LineWarning
	lineNo := 0
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return warnings, nil
		}
		if err != nil {
			return warnings, err
		}
		lineNo++
		if !isPrefix {
			fn(lineNo, string(chunk))
			continue
		}

		head := string(chunk[:min(len(chunk), 40)])
		for isPrefix {
			_, isPrefix, err = br.ReadLine()
			if err == io.EOF {
				break
			}
			if err != nil {
				return warnings, err
			}
		}
		warnings = append(warnings, LineWarning{
			Line:    lineNo,
			Content: head + "...",
			Reason:  fmt.Sprintf("line exceeds %d bytes", MaxLineLength),
		})
	}
}

// ParseUrgencyTable reads a reference dataset: one header line, then
// "disease_name,urgency_code" pairs. Malformed lines are skipped and reported
// as warnings; only a read failure returns an error.
func ParseUrgencyTable(r io.Reader) (UrgencyTable, []LineWarning, error) {
	table := UrgencyTable{}
	var warnings []LineWarning
	skip := func(lineNo int, line, reason string) {
		warnings = append(warnings, LineWarning{Line: lineNo, Content: line, Reason: reason})
	}

	tooLong, err := EachLine(r, func(lineNo int, line string) {
		if lineNo == 1 {
			return // header
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			skip(lineNo, line, "expected 2 fields")
			return
		}
		code, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			skip(lineNo, line, "urgency code is not an integer")
			return
		}
		if code < MinUrgencyCode || code > MaxUrgencyCode {
			skip(lineNo, line, "urgency code out of range")
			return
		}
		name := NormalizeDisease(parts[0])
		if name == "" {
			skip(lineNo, line, "empty disease name")
			return
		}
		table[name] = code
	})
	warnings = append(warnings, tooLong...)
	if err != nil {
		return table, warnings, fmt.Errorf("read reference data: %w", err)
	}
	return table, warnings, nil
}

// LoadUrgencyTable opens path on fs and parses it with ParseUrgencyTable.
func LoadUrgencyTable(fs afero.Fs, path string) (UrgencyTable, []LineWarning, error) {
	f, err := fs.Open(path)
	if err != nil {
		return UrgencyTable{}, nil, fmt.Errorf("open reference data %q: %w", path, err)
	}
	defer f.Close()
	return ParseUrgencyTable(f)
}
