package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/fbcorp/gleo/internal/config"
	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/prefill"
	"github.com/fbcorp/gleo/internal/tui"
	"github.com/fbcorp/gleo/internal/tui/theme"
	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/spf13/cobra"
)

var submitFlags struct {
	file   string
	dryRun bool
	export string
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an event from a prefill file without the TUI",
	Long: `Load a prefill file, walk it through every wizard step and submit the event.

Files with more vendors or menu items than an event allows are refused.

Notifications are printed to stderr. With --dry-run nothing is sent; the
event summary and the JSON body are printed instead.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitFlags.file, "file", "f", "", "Prefill file to submit (required)")
	submitCmd.Flags().BoolVar(&submitFlags.dryRun, "dry-run", false, "Check and print the event without sending it")
	submitCmd.Flags().StringVarP(&submitFlags.export, "export", "e", "", "Directory to save the submitted event to")
	_ = submitCmd.MarkFlagRequired("file")
}

// errSubmitFailed makes the command exit non-zero after the reason was
// already printed.
var errSubmitFailed = errors.New("event was not created")

// errPrefillLimits is journaled when a prefill file has more vendors or
// menu items than an event allows. Such files are refused, never trimmed.
var errPrefillLimits = fmt.Errorf("prefill exceeds %d vendors or %d menu items per vendor",
	wizard.MaxVendors, wizard.MaxMenuItems)

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if submitFlags.dryRun {
		overrideFlags.transport = config.TransportDryRun
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := prefill.Load(submitFlags.file)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := wizard.New(stderrNotifier(os.Stderr), a.transport, a.controllerOptions()...)
	ctrl.Open()
	if !ctrl.Load(p) {
		recordInvalid(ctx, a, prefillEntry(p, a.cfg.Transport), errPrefillLimits.Error())
		return errSubmitFailed
	}
	for ctrl.Step() < wizard.StepMenuItems {
		if !ctrl.Next() {
			s, _ := ctrl.Snapshot()
			e := journal.EntryForPayload(ctrl.CollectPayload(), a.cfg.Transport)
			recordInvalid(ctx, a, e, wizard.CheckStep(s.Step, s).Error())
			return errSubmitFailed
		}
	}
	payload := ctrl.CollectPayload()

	res := ctrl.Submit(ctx)
	switch res.Status {
	case wizard.ResultSucceeded:
	case wizard.ResultInvalid:
		recordInvalid(ctx, a, journal.EntryForPayload(payload, a.cfg.Transport), res.Message)
		return errSubmitFailed
	default:
		return errSubmitFailed
	}

	if submitFlags.dryRun {
		report, err := tui.RenderReport(payload, 100)
		if err != nil {
			return err
		}
		fmt.Println(report)
	}
	a.runPostSubmit(ctx, payload)

	if submitFlags.export != "" {
		path, err := prefill.Write(submitFlags.export, payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
	}
	return nil
}

// recordInvalid journals a submission stopped by validation. Such attempts
// never reach the transport, so the recorder does not see them.
func recordInvalid(ctx context.Context, a *app, e journal.Entry, message string) {
	if a.journal == nil {
		return
	}
	e.Outcome = journal.OutcomeInvalid
	e.Message = message
	if _, err := a.journal.Record(ctx, e); err != nil {
		logger.Warn("Recording invalid submission: %v", err)
	}
}

// prefillEntry describes a prefill file as written, before any limits apply.
func prefillEntry(p wizard.EventPrefill, transport string) journal.Entry {
	e := journal.Entry{
		Code:      p.Code,
		Name:      p.Name,
		Vendors:   len(p.Vendors),
		Transport: transport,
	}
	for _, v := range p.Vendors {
		e.Items += len(v.MenuItems)
	}
	return e
}

// stderrNotifier prints notifications as coloured lines.
func stderrNotifier(w io.Writer) wizard.Notifier {
	return wizard.NotifyFunc(func(message string, severity wizard.Severity) {
		th := theme.Current()
		label := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(th.SeverityColor(severity.String()))).
			Render(severity.String())
		_, _ = lipgloss.Fprintln(w, label+" "+message)
	})
}
