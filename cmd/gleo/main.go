package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▀ █   █▀▀ █▀█"
	logoText2 = "█▄█ █▄▄ ██▄ █▄█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "gleo",
	Short:        "Create festival events from the terminal",
	SilenceUsage: true,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

gleo is the admin tool for setting up events: an event code and name, the
vendors selling at it and each vendor's menu. The three-step wizard checks
every step before moving on and sends the finished event to the event
service over HTTP or NATS. Every submission is kept in a local journal.`

	addOverrideFlags(rootCmd)

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(setupCmd)
}
