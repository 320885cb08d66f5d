package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fbcorp/gleo/internal/config"
	"github.com/fbcorp/gleo/internal/hooks"
	"github.com/fbcorp/gleo/internal/journal"
	"github.com/fbcorp/gleo/internal/logger"
	"github.com/fbcorp/gleo/internal/transport"
	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/spf13/cobra"
)

// overrideFlags are accepted by every command and win over config files
// and environment variables.
var overrideFlags struct {
	transport string
	endpoint  string
	dataDir   string
	logLevel  string
	logFile   string
}

func addOverrideFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&overrideFlags.transport, "transport", "", "Transport to use: http, nats or dry-run")
	f.StringVar(&overrideFlags.endpoint, "endpoint", "", "Event service URL for the http transport")
	f.StringVar(&overrideFlags.dataDir, "data-dir", "", "Directory for the submission journal")
	f.StringVar(&overrideFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&overrideFlags.logFile, "log-file", "", "Write logs to this file")
}

// loadConfig applies flag overrides, validates the result and configures
// logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if overrideFlags.transport != "" {
		cfg.Transport = overrideFlags.transport
	}
	if overrideFlags.endpoint != "" {
		cfg.Endpoint = overrideFlags.endpoint
	}
	if overrideFlags.dataDir != "" {
		cfg.DataDir = overrideFlags.dataDir
	}
	if overrideFlags.logLevel != "" {
		cfg.LogLevel = overrideFlags.logLevel
	}
	if overrideFlags.logFile != "" {
		cfg.LogFile = overrideFlags.logFile
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errs)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the collaborators shared by the wizard commands.
type app struct {
	cfg       *config.Config
	journal   *journal.Journal
	transport wizard.Transport
	hooks     *hooks.Config
	workDir   string

	closeTransport transport.Closer
}

// openApp builds the transport, wrapped so outcomes land in the journal.
// A journal that cannot be opened is logged and skipped.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	tr, closeTr, err := transport.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		closeTr()
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	hookCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		logger.Warn("Ignoring hooks config: %v", err)
		hookCfg = nil
	}

	a := &app{
		cfg:            cfg,
		transport:      tr,
		hooks:          hookCfg,
		workDir:        workDir,
		closeTransport: closeTr,
	}

	j, err := journal.Open(ctx, cfg.DataDir)
	if err != nil {
		logger.Warn("Submission journal unavailable: %v", err)
	} else {
		a.journal = j
		a.transport = journal.NewRecorder(tr, j, cfg.Transport)
	}
	return a, nil
}

// controllerOptions are the settings every wizard controller gets from config.
func (a *app) controllerOptions() []wizard.Option {
	return []wizard.Option{
		wizard.WithSeed(a.cfg.SeedVendors, a.cfg.SeedItems),
		wizard.WithRefreshDelay(time.Duration(a.cfg.RefreshDelayMs) * time.Millisecond),
		wizard.WithTimeout(time.Duration(a.cfg.Timeout) * time.Second),
	}
}

// runPostSubmit runs the post_submit hook and prints its output.
func (a *app) runPostSubmit(ctx context.Context, p wizard.Payload) {
	hook := a.hooks.PostSubmit()
	if hook == nil {
		return
	}
	out, err := hooks.Execute(ctx, hook, a.workDir, hooks.Variables{Code: p.Code, Name: p.Name})
	if err != nil {
		logger.Warn("post_submit hook: %v", err)
		return
	}
	if out != "" {
		fmt.Fprint(os.Stderr, out)
	}
}

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger.Warn("Closing journal: %v", err)
		}
	}
	a.closeTransport()
}
