package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/internal/platform/export"
	"github.com/HoangSama213/hospital/internal/platform/reporting"
	"github.com/HoangSama213/hospital/pkg/pagination"
)

// errCommandFailed is returned once the failing outcome has been printed.
var errCommandFailed = errors.New("command failed")

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:           "hospital",
		Short:         "Emergency-room waiting queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.PersistentFlags().String("store", "", "patient store file (STORE_PATH)")
	rootCmd.PersistentFlags().String("diseases", "", "disease reference file (DISEASE_DATA_PATH)")

	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(sortCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(classifyCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(shellCmd(a))
	return rootCmd
}

func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the waiting queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			page := pagination.Slice(st.Patients, pagination.New(limit, offset, a.cfg.PageSize))
			printQueue(cmd.OutOrStdout(), page, st)
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "rows per page (default PAGE_SIZE)")
	cmd.Flags().Int("offset", 0, "rows to skip")
	return cmd
}

func addCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := triage.Intake{}
			in.Name, _ = cmd.Flags().GetString("name")
			in.Age, _ = cmd.Flags().GetString("age")
			in.Sex, _ = cmd.Flags().GetString("sex")
			in.Disease, _ = cmd.Flags().GetString("disease")
			in.ArrivalTime, _ = cmd.Flags().GetString("time")
			if in.ArrivalTime == "" && (cmd.Flags().Changed("hour") || cmd.Flags().Changed("minute")) {
				hour, _ := cmd.Flags().GetInt("hour")
				minute, _ := cmd.Flags().GetInt("minute")
				in.ArrivalTime = fmt.Sprintf("%02d:%02d", hour, minute)
			}

			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			_, err = a.dispatch(cmd, st, queue.AddPatient{Intake: in})
			return err
		},
	}
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("age", "", "age in years")
	cmd.Flags().String("sex", "", "sex")
	cmd.Flags().String("disease", "", "disease name, looked up in the reference data")
	cmd.Flags().String("time", "", "arrival time HH:MM")
	cmd.Flags().Int("hour", 0, "arrival hour, used when --time is empty")
	cmd.Flags().Int("minute", 0, "arrival minute, used when --time is empty")
	return cmd
}

func sortCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Order the queue by urgency, then arrival time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			_, err = a.dispatch(cmd, st, queue.SortPatients{})
			return err
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show N",
		Short: "Show the details of patient N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := position(args[0])
			if err != nil {
				return err
			}
			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			if st, err = a.dispatch(cmd, st, queue.SelectPatient{Index: index}); err != nil {
				return err
			}
			if st, err = a.dispatch(cmd, st, queue.ShowDetail{}); err != nil {
				return err
			}
			if p, ok := st.Selected(); ok && st.ShowDetail {
				printDetail(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete N",
		Short: "Remove patient N from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := position(args[0])
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")

			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			if st, err = a.dispatch(cmd, st, queue.RequestDelete{Index: index}); err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
				_, err = a.dispatch(cmd, st, queue.CancelDelete{})
				return err
			}
			_, err = a.dispatch(cmd, st, queue.ConfirmDelete{})
			return err
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "delete without asking")
	return cmd
}

func classifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify DISEASE",
		Short: "Print the urgency tier of a disease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, out := a.svc.Classify(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), tier)
			if out.HasWarnings() {
				printOutcome(cmd.ErrOrStderr(), out)
			}
			return nil
		},
	}
}

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the queue per urgency tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			r := reporting.Summarize(st.Patients, time.Now())
			if asJSON {
				return printJSON(cmd.OutOrStdout(), r)
			}
			printReport(cmd.OutOrStdout(), r)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the queue to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("out")

			st, err := a.load(cmd)
			if err != nil {
				return err
			}
			f, err := a.fs.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
			if err := export.WriteQueue(f, st.Patients); err != nil {
				return err
			}
			a.logger.Info().Str("path", path).Int("rows", st.Len()).Msg("queue exported")
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d patient(s) to %s\n", st.Len(), path)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "danh_sach_benh_nhan.xlsx", "output file")
	return cmd
}

// position converts a 1-based queue position into an index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: must be a number from 1", arg)
	}
	return n - 1, nil
}
