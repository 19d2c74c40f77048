// calldesk is the terminal dashboard for call-center task management. It
// talks to the calldesk API (see calldesk-server) and keeps no local state.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/sandeepkv93/calldesk/internal/api"
	"github.com/sandeepkv93/calldesk/internal/config"
	"github.com/sandeepkv93/calldesk/internal/update"
	"github.com/sandeepkv93/calldesk/internal/workspace"
)

const noticeBuffer = 64

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "calldesk failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("calldesk", pflag.ContinueOnError)
	flags := config.AddClientFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg, err := flags.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := api.New(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger))
	if err != nil {
		return err
	}

	notices := workspace.NewChanNotifier(noticeBuffer, logger)
	calls := workspace.NewCallWorkspace(client, notices, logger)
	if err := calls.UseDays(cfg.Days); err != nil {
		return err
	}
	admin := workspace.NewAdminWorkspace(client, notices, logger)

	logger.Info("starting", "api", client.BaseURL(), "days", cfg.Days)
	model := update.New(update.Options{
		Calls:                calls,
		Admin:                admin,
		Notices:              notices.C(),
		DesktopNotifications: cfg.DesktopNotifications,
		Notifier:             update.ExecDesktopNotifier{},
		Logger:               logger,
		OperationTimeout:     3 * cfg.RequestTimeout,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// openLogger writes JSON records to cfg.LogFile. Without a log file records
// are discarded; the terminal belongs to the UI.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return logger, func() { _ = f.Close() }, nil
}
