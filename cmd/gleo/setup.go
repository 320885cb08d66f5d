package main

import (
	"fmt"
	"os"

	"github.com/fbcorp/gleo/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a starter gleo.yml",
	Long: `Write gleo.yml with the default endpoint, transport and wizard seeds.

The file goes to the user config directory unless --project is given. A
project file in the current directory is merged over the user file at
startup. Keep token and jwt_secret in GLEO_* variables or a .env file
rather than in either config file.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Write ./gleo.yml instead of the user config")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Replace an existing file")
}

func runSetup(cmd *cobra.Command, _ []string) error {
	path, write := config.GlobalPath(), config.WriteGlobal
	if setupFlags.project {
		path, write = config.ProjectPath(), config.WriteProject
	}
	if _, err := os.Stat(path); err == nil && !setupFlags.force {
		return fmt.Errorf("%s already exists, use --force to replace it", path)
	}

	cfg := config.Defaults()
	if err := write(cfg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	fmt.Fprintf(out, "  transport: %s\n  endpoint:  %s\n  data dir:  %s\n", cfg.Transport, cfg.Endpoint, cfg.DataDir)
	fmt.Fprintln(out, "Set GLEO_TOKEN or GLEO_JWT_SECRET, then run 'gleo create'.")
	return nil
}
