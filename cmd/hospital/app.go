package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/HoangSama213/hospital/internal/config"
	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/internal/platform/middleware"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	fs         afero.Fs
	cfg        *config.Config
	logger     zerolog.Logger
	svc        *queue.Service
	dispatcher *queue.Dispatcher
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	}
	a.logger = logger.Level(cfg.Level())

	table, warnings, err := triage.LoadUrgencyTable(a.fs, cfg.DiseaseDataPath)
	if err != nil {
		a.logger.Warn().Err(err).Msg("reference data unavailable; every disease classifies as mild")
	}
	for _, w := range warnings {
		a.logger.Warn().Int("line", w.Line).Str("reason", w.Reason).Msg("skipped reference line")
	}
	a.logger.Debug().Int("diseases", len(table)).Str("path", cfg.DiseaseDataPath).Msg("reference data loaded")

	repo := queue.NewFileRepo(a.fs, cfg.StorePath)
	a.svc = queue.NewService(repo, triage.NewClassifier(table), a.logger)
	var recorders []middleware.AuditRecorder
	if cfg.AuditLogPath != "" {
		recorders = append(recorders, middleware.NewFileAuditRecorder(a.fs, cfg.AuditLogPath))
	}
	a.dispatcher = queue.NewDispatcher(a.svc,
		middleware.CommandID(),
		middleware.Recovery(a.logger),
		middleware.Logger(a.logger),
		middleware.Audit(a.logger, recorders...),
		middleware.CommandTimeout(cfg.CommandTimeout),
	)
	return nil
}

// load reads the store into a fresh snapshot. Only problems are printed.
func (a *app) load(cmd *cobra.Command) (queue.State, error) {
	st, out := a.dispatcher.Dispatch(commandContext(cmd), queue.NewState(nil), queue.ReloadFromStore{})
	problems := outcome.New()
	for _, issue := range out.Issues {
		if issue.Severity != outcome.SeverityInformation {
			problems.Issues = append(problems.Issues, issue)
		}
	}
	printOutcome(cmd.ErrOrStderr(), problems)
	if out.HasErrors() {
		return st, errCommandFailed
	}
	return st, nil
}

// dispatch runs one command and prints its outcome.
func (a *app) dispatch(cmd *cobra.Command, st queue.State, c queue.Command) (queue.State, error) {
	next, out := a.dispatcher.Dispatch(commandContext(cmd), st, c)
	printOutcome(cmd.OutOrStdout(), out)
	if out != nil && out.HasErrors() {
		return next, errCommandFailed
	}
	return next, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
