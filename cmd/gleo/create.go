package main

import (
	"fmt"

	"github.com/fbcorp/gleo/internal/prefill"
	tuiwizard "github.com/fbcorp/gleo/internal/tui/wizard"
	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/spf13/cobra"
)

var createFlags struct {
	from   string
	export string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event with the full-screen wizard",
	Long: `Open the event wizard full-screen.

The wizard walks through event details, vendors and menu items. Use --from
to start from a prefill file and --export to save the submitted event as a
prefill file for next time.`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createFlags.from, "from", "f", "", "Prefill the wizard from a YAML file")
	createCmd.Flags().StringVarP(&createFlags.export, "export", "e", "", "Directory to save the submitted event to")
}

func runCreate(cmd *cobra.Command, args []string) error {
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
	opts := append(a.controllerOptions(),
		wizard.WithMode(wizard.ModeStandalone),
		wizard.WithHost(host),
	)
	ctrl := wizard.New(toasts, a.transport, opts...)

	if createFlags.from != "" {
		p, err := prefill.Load(createFlags.from)
		if err != nil {
			return err
		}
		ctrl.Load(p)
	}

	last, ok, err := tuiwizard.RunStandalone(ctx, ctrl, toasts, host)
	if err != nil {
		return err
	}
	if !ok || !last.Result.OK() {
		fmt.Println("No event created.")
		return nil
	}

	fmt.Printf("%s: %s (%s)\n", last.Result.Message, last.Payload.Name, last.Payload.Code)
	a.runPostSubmit(ctx, last.Payload)

	if createFlags.export != "" {
		path, err := prefill.Write(createFlags.export, last.Payload)
		if err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", path)
	}
	return nil
}
