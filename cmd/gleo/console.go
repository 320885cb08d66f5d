package main

import (
	"github.com/fbcorp/gleo/internal/tui"
	tuiwizard "github.com/fbcorp/gleo/internal/tui/wizard"
	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/spf13/cobra"
)

var consoleFlags struct {
	limit int
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Browse submitted events and create new ones",
	Long: `Open the event console.

The console lists recorded submissions, newest first. Press n to open the
event wizard as a popup; esc or a click outside the popup closes it. After
an event is created the list reloads and the post_submit hook runs.`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().IntVarP(&consoleFlags.limit, "limit", "l", tui.DefaultHistoryLimit, "Number of history entries to load")
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	toasts := tuiwizard.NewToasts()
	host := tuiwizard.NewProgramHost()
	opts := append(a.controllerOptions(), wizard.WithHost(host))
	ctrl := wizard.New(toasts, a.transport, opts...)

	consoleOpts := []tui.ConsoleOption{
		tui.WithHistoryLimit(consoleFlags.limit),
		tui.WithUIState(cfg.DataDir),
	}
	if hook := a.hooks.PostSubmit(); hook != nil {
		consoleOpts = append(consoleOpts, tui.WithPostSubmitHook(hook, a.workDir))
	}

	var lister tui.Lister
	if a.journal != nil {
		lister = a.journal
	}
	return tui.Run(ctx, tui.NewConsole(ctx, ctrl, toasts, lister, consoleOpts...), host)
}
