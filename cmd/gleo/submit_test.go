package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbcorp/gleo/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	submitFlags.file, submitFlags.dryRun, submitFlags.export = "", false, ""
	setupFlags.project, setupFlags.force = false, false
	overrideFlags.transport, overrideFlags.endpoint, overrideFlags.dataDir = "", "", ""
	overrideFlags.logLevel, overrideFlags.logFile = "", ""
}

// executeRoot runs the root command with fresh flag state.
func executeRoot(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	t.Cleanup(func() {
		resetFlags()
		rootCmd.SetArgs(nil)
	})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// isolateConfig keeps the user config of the machine out of the test and
// returns the config directory in use.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeEvent(t *testing.T, vendors int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("code: A1234\nname: Spring Fest\nvendors:\n")
	for i := range vendors {
		fmt.Fprintf(&b, "  - name: V%c\n    menu_items:\n      - {name: Burger, price: \"5.00\"}\n", 'A'+i)
	}
	path := filepath.Join(t.TempDir(), "event.yml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func journalEntries(t *testing.T, dataDir string) []journal.Entry {
	t.Helper()
	j, err := journal.Open(context.Background(), dataDir)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.List(context.Background(), 10)
	require.NoError(t, err)
	return entries
}

func TestSubmitDryRun(t *testing.T) {
	isolateConfig(t)
	dataDir := t.TempDir()
	err := executeRoot(t, "submit", "--file", writeEvent(t, 2), "--dry-run", "--data-dir", dataDir)
	require.NoError(t, err)

	entries := journalEntries(t, dataDir)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.OutcomeSucceeded, entries[0].Outcome)
	assert.Equal(t, 2, entries[0].Vendors)
}

func TestSubmitRefusesPrefillOverVendorLimit(t *testing.T) {
	isolateConfig(t)
	dataDir := t.TempDir()
	err := executeRoot(t, "submit", "--file", writeEvent(t, 9), "--dry-run", "--data-dir", dataDir)
	require.ErrorIs(t, err, errSubmitFailed)

	entries := journalEntries(t, dataDir)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.OutcomeInvalid, entries[0].Outcome)
	assert.Equal(t, 9, entries[0].Vendors)
	assert.Equal(t, errPrefillLimits.Error(), entries[0].Message)
}

func TestSubmitRefusesInvalidStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yml")
	doc := "code: a123\nname: Spring Fest\nvendors:\n  - name: BRGR\n    menu_items:\n      - {name: Burger, price: \"5.00\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	isolateConfig(t)
	dataDir := t.TempDir()
	err := executeRoot(t, "submit", "--file", path, "--dry-run", "--data-dir", dataDir)
	require.ErrorIs(t, err, errSubmitFailed)

	entries := journalEntries(t, dataDir)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.OutcomeInvalid, entries[0].Outcome)
	assert.Contains(t, entries[0].Message, "Event code")
}

func TestSetupWritesUserConfig(t *testing.T) {
	dir := isolateConfig(t)
	require.NoError(t, executeRoot(t, "setup"))

	data, err := os.ReadFile(filepath.Join(dir, "gleo", "gleo.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "transport:")

	assert.ErrorContains(t, executeRoot(t, "setup"), "already exists")
	assert.NoError(t, executeRoot(t, "setup", "--force"))
}
