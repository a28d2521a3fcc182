package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uikit/internal/core"
	"github.com/jmylchreest/uikit/internal/model"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uikit", "config.toml")

	out, err := executeCommand(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, err = executeCommand(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
	assert.FileExists(t, path)

	_, err = executeCommand(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = executeCommand(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "max_notifications = 5")
	assert.Contains(t, out, "[modals]")

	_, err = executeCommand(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigShowInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audio]\nvolume = 300\n"), 0644))

	// path still works with a broken file
	_, err := executeCommand(t, "config", "path", "--config", path)
	require.NoError(t, err)

	_, err = executeCommand(t, "config", "show", "--config", path)
	assert.ErrorContains(t, err, "volume")
}

func TestSendRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	_, err := executeCommand(t, "send", "hello", "--type", "party", "--config", path)
	assert.ErrorIs(t, err, model.ErrInvalidType)
}

func TestStatusRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	_, err := executeCommand(t, "status", "--format", "xml", "--config", path)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestStatusRejectsBadFilterAndSort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := executeCommand(t, "status", "--format", "plain", "--filter", "app=firefox", "--config", path)
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	_, err = executeCommand(t, "status", "--format", "plain", "--filter", "", "--sort", "app", "--config", path)
	assert.ErrorContains(t, err, "invalid sort field")

	_, err = executeCommand(t, "status", "--format", "plain", "--sort", "type", "--order", "up", "--config", path)
	assert.ErrorContains(t, err, "invalid sort order")
}

func TestDurationMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int32
	}{
		{-1, -1},
		{-time.Second, -1},
		{0, 0},
		{1500 * time.Millisecond, 1500},
		{time.Hour * 24 * 365, 1<<31 - 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, durationMillis(tt.in), tt.in.String())
	}
}
