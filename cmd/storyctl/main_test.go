package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"cyoa-server/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var screenLine = regexp.MustCompile(`Screen (\S+) \(`)

func setupEnv(t *testing.T, driver string) string {
	t.Helper()
	dir := t.TempDir()

	prev := utils.SecretsDir
	utils.SecretsDir = filepath.Join(dir, "secrets")
	t.Cleanup(func() { utils.SecretsDir = prev })

	t.Setenv("STORAGE_DRIVER", driver)
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "cyoa.db"))
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("IMAGE_BACKEND_URL", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	t.Cleanup(func() {
		startGenre, advanceParent, advanceChoice, advancePick, exportOut = "", "", "", 0, ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStartCommand_Offline(t *testing.T) {
	setupEnv(t, "memory")

	out, err := run(t, "start", "--genre", "military-scifi")
	require.NoError(t, err)

	assert.Contains(t, out, "(military-scifi)")
	assert.Contains(t, out, "The corridor lit by pulsing blue strips sharpens into focus.")
	assert.Contains(t, out, "[1] Route power to scanners")
	assert.Contains(t, out, "https://picsum.photos/seed/1329983133/960/540")
}

func TestStartCommand_MissingGenre(t *testing.T) {
	setupEnv(t, "memory")

	_, err := run(t, "start")
	assert.Error(t, err)
}

func TestMigrateCommands_SQLite(t *testing.T) {
	setupEnv(t, "sqlite")

	_, err := run(t, "migrate", "up")
	require.NoError(t, err)

	out, err := run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dirty: false")
	assert.NotContains(t, out, "version 0 ")
}

func TestMigrateCommands_MemoryHasNoMigrations(t *testing.T) {
	setupEnv(t, "memory")

	_, err := run(t, "migrate", "version")
	assert.ErrorIs(t, err, errNoMigrations)
}

func TestSQLiteSession_PlayAndExport(t *testing.T) {
	dir := setupEnv(t, "sqlite")

	out, err := run(t, "params", "set", "THEME=dark")
	require.NoError(t, err)
	assert.Contains(t, out, "THEME=dark")

	out, err = run(t, "params", "get", "THEME", "UNKNOWN")
	require.NoError(t, err)
	assert.Contains(t, out, "THEME=dark")
	assert.Contains(t, out, "UNKNOWN\t(unset)")

	out, err = run(t, "start", "--genre", "noir")
	require.NoError(t, err)
	m := screenLine.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	rootID := m[1]

	out, err = run(t, "advance", "--parent", rootID, "--pick", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Parent "+rootID)

	pdf := filepath.Join(dir, "story.pdf")
	_, err = run(t, "export", rootID, "--out", pdf)
	require.NoError(t, err)
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"THEME=dark", " TEMPERATURE =0.5", "MOCK_MODE="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"THEME": "dark", "TEMPERATURE": "0.5", "MOCK_MODE": ""}, got)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}
