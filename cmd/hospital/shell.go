package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/pkg/pagination"
)

const shellHelp = `commands:
  list                 print the current page of the queue
  next | prev          move to the next or previous page
  add                  register a patient (asks for each field)
  sort                 order by urgency, then arrival time
  select N             select patient N
  show                 show the selected patient
  close                close the detail view
  delete N             ask to delete patient N
  confirm | cancel     resolve a pending delete
  reload               re-read the store
  help
  quit`

func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session over the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			s := &shell{
				app:  a,
				cmd:  cmd,
				in:   bufio.NewScanner(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
				st:   st,
				page: pagination.New(0, 0, a.cfg.PageSize),
			}
			s.run()
			return nil
		},
	}
}

// shell keeps one queue.State across the lines it reads. Command failures
// are printed and the session goes on.
type shell struct {
	app  *app
	cmd  *cobra.Command
	in   *bufio.Scanner
	out  io.Writer
	st   queue.State
	page pagination.Params
}

func (s *shell) run() {
	s.list()
	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		args := strings.Fields(s.in.Text())
		if len(args) == 0 {
			continue
		}
		if !s.exec(args[0], args[1:]) {
			return
		}
	}
}

// exec runs one line and reports whether the session continues.
func (s *shell) exec(name string, args []string) bool {
	switch name {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "list", "ls":
		s.list()
	case "next", "n":
		if !s.page.HasNext(s.st.Len()) {
			fmt.Fprintln(s.out, "already on the last page")
			break
		}
		s.page.Offset = s.page.NextOffset()
		s.list()
	case "prev", "p":
		if !s.page.HasPrevious() {
			fmt.Fprintln(s.out, "already on the first page")
			break
		}
		s.page.Offset = s.page.PreviousOffset()
		s.list()
	case "add":
		if in, ok := s.readIntake(); ok {
			s.apply(queue.AddPatient{Intake: in})
		}
	case "sort":
		s.apply(queue.SortPatients{})
	case "select":
		if index, ok := s.position(args); ok {
			s.apply(queue.SelectPatient{Index: index})
		}
	case "show":
		s.apply(queue.ShowDetail{})
		if p, ok := s.st.Selected(); ok && s.st.ShowDetail {
			printDetail(s.out, p)
		}
	case "close":
		s.apply(queue.CloseDetail{})
	case "delete", "rm":
		if index, ok := s.position(args); ok {
			s.apply(queue.RequestDelete{Index: index})
		}
	case "confirm":
		s.apply(queue.ConfirmDelete{})
	case "cancel":
		s.apply(queue.CancelDelete{})
	case "reload":
		s.apply(queue.ReloadFromStore{})
	default:
		fmt.Fprintf(s.out, "unknown command %q, type help\n", name)
	}
	return true
}

// list prints the current page. The page moves back when the queue has
// shrunk below its offset.
func (s *shell) list() {
	for s.page.Offset >= s.st.Len() && s.page.HasPrevious() {
		s.page.Offset = s.page.PreviousOffset()
	}
	printQueue(s.out, pagination.Slice(s.st.Patients, s.page), s.st)
}

// apply runs c against the session. A failed reload keeps the current queue.
func (s *shell) apply(c queue.Command) {
	next, err := s.app.dispatch(s.cmd, s.st, c)
	if _, reload := c.(queue.ReloadFromStore); reload && err != nil {
		return
	}
	s.st = next
}

func (s *shell) position(args []string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "expected one position")
		return 0, false
	}
	index, err := position(args[0])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return 0, false
	}
	return index, true
}

// readIntake asks for each field of the new-patient form in turn.
func (s *shell) readIntake() (triage.Intake, bool) {
	prompts := []string{"Họ và tên", "Tuổi", "Giới tính", "Bệnh", "Thời gian đến (HH:MM)"}
	values := make([]string, len(prompts))
	for i, prompt := range prompts {
		fmt.Fprintf(s.out, "%s: ", prompt)
		if !s.in.Scan() {
			return triage.Intake{}, false
		}
		values[i] = s.in.Text()
	}
	return triage.Intake{
		Name:        values[0],
		Age:         values[1],
		Sex:         values[2],
		Disease:     values[3],
		ArrivalTime: values[4],
	}, true
}
