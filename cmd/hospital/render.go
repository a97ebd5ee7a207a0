package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
	"github.com/HoangSama213/hospital/internal/platform/reporting"
	"github.com/HoangSama213/hospital/pkg/pagination"
)

var queueColumns = []string{"#", "Họ và tên", "Tuổi", "Giới tính", "Tình trạng", "Thời gian đến"}

// printQueue prints one page of the queue. Positions are 1-based and count
// from the start of the queue, not the page. "*" marks the selected row and
// "!" the row awaiting delete confirmation.
func printQueue(w io.Writer, page pagination.Page[triage.Patient], st queue.State) {
	if page.Total == 0 {
		fmt.Fprintln(w, "queue is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(queueColumns, "\t"))
	for i, p := range page.Items {
		index := page.Offset + i
		mark := ""
		switch index {
		case st.PendingDeleteIndex:
			mark = "!"
		case st.SelectedIndex:
			mark = "*"
		}
		fmt.Fprintf(tw, "%d%s\t%s\n", index+1, mark, strings.Join(p.Fields(), "\t"))
	}
	tw.Flush()

	if len(page.Items) < page.Total {
		fmt.Fprintf(w, "showing %d-%d of %d\n", page.Offset+1, page.Offset+len(page.Items), page.Total)
	}
}

func printDetail(w io.Writer, p triage.Patient) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := queueColumns[1:]
	for i, v := range p.Fields() {
		fmt.Fprintf(tw, "%s:\t%s\n", labels[i], v)
	}
	tw.Flush()
}

func printReport(w io.Writer, r *reporting.QueueReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Tình trạng\tSố lượng\tSớm nhất")
	for _, t := range r.Tiers {
		earliest := t.EarliestArrival
		if earliest == "" {
			earliest = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", t.Tier, t.Count, earliest)
	}
	if r.Unknown > 0 {
		fmt.Fprintf(tw, "không rõ\t%d\t-\n", r.Unknown)
	}
	fmt.Fprintf(tw, "Tổng\t%d\t\n", r.Total)
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOutcome(w io.Writer, out *outcome.Outcome) {
	if out == nil {
		return
	}
	for _, issue := range out.Issues {
		fmt.Fprintln(w, issue)
	}
}

// confirm asks a yes/no question on in. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "delete? [y/N] ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "có", "c":
		return true
	}
	return false
}
