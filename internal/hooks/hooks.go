// Package hooks runs operator-defined shell commands after an event was
// created, e.g. to warm a cache or post to a chat channel.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fbcorp/gleo/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".gleo.hooks.yml"

var log = logger.Default.With("hooks")

// LoadConfig loads the hooks configuration from the working directory.
// A missing file is not an error: hooks are optional and nil is returned.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("no hooks config at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	log.Debug("loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// PostSubmit returns the post_submit hook, or nil.
func (c *Config) PostSubmit() *HookConfig {
	if c == nil {
		return nil
	}
	return c.Hooks.PostSubmit
}

// Variables holds the values expanded in hook commands.
type Variables struct {
	Code string
	Name string
}

// Execute runs a hook command and returns its output. {{code}} and {{name}}
// are expanded and shell-quoted first. Failures and timeouts are reported in
// the output with a nil error; only cancellation of ctx returns an error.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	log.Debug("running: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if execCtx.Err() == context.DeadlineExceeded {
		log.Warn("hook timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\n%s", timeout, stdout.String()), nil
	}
	if err != nil {
		log.Warn("hook failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n[stderr]\n" + stderr.String()
	}
	return output, nil
}

// expandVariables replaces {{variable}} placeholders with quoted values.
// Event names are operator input and may contain shell metacharacters.
func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{code}}", shellQuote(vars.Code),
		"{{name}}", shellQuote(vars.Name),
	).Replace(command)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
