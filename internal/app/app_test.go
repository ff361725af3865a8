package app

import (
	"bufio"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillcast/internal/command"
	"stillcast/internal/config"
	"stillcast/internal/downloads"
	"stillcast/internal/setup"
)

// fakeRunner records every invocation and always succeeds.
type fakeRunner struct {
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ command.Opts) (command.Outcome, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return command.Outcome{ExitCode: 0}, nil
}

func newTestApp(t *testing.T, runner command.Runner, downloadDir, input string) *App {
	t.Helper()

	dataDir := t.TempDir()
	a := &App{
		store:        config.NewStore(dataDir),
		settings:     config.Settings{DownloadDir: downloadDir},
		runner:       runner,
		tools:        setup.NewToolManager(runner, dataDir),
		dataDir:      dataDir,
		input:        bufio.NewScanner(strings.NewReader(input)),
		ensureFFmpeg: func(context.Context) error { return nil },
		ensureEngine: func(context.Context) error { return nil },
	}
	a.wireComponents()
	return a
}

// TestSetupRewiresDownloadDirectory tests that a download after an in-session
// setup run lands in the newly chosen directory, not the one captured at
// startup.
func TestSetupRewiresDownloadDirectory(t *testing.T) {
	oldDir := t.TempDir()
	newDir := filepath.Join(t.TempDir(), "newdl")

	runner := &fakeRunner{}
	a := newTestApp(t, runner, oldDir, newDir+"\n\n")

	require.NoError(t, a.runSetup(context.Background()))
	assert.Equal(t, newDir, a.settings.DownloadDir)

	// Pin cookie discovery so the download does not consult host browsers.
	a.orch.SetCookieOverride(filepath.Join(oldDir, "cookies.txt"))

	require.NoError(t, a.orch.Download(context.Background(), downloads.ModeVideo, "https://example.com/v", ""))
	require.NotEmpty(t, runner.calls)

	first := runner.calls[0]
	assert.Contains(t, first, newDir, "download should target the directory chosen during setup")
	assert.NotContains(t, first, oldDir)
}

// TestSetupPersistsAndReloads tests the save-then-reread cycle.
func TestSetupPersistsAndReloads(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dl")
	a := newTestApp(t, &fakeRunner{}, t.TempDir(), dir+"\nsc\n")

	require.NoError(t, a.runSetup(context.Background()))
	assert.Equal(t, dir, a.settings.DownloadDir)
	assert.Equal(t, "sc", a.settings.AliasName)

	persisted, err := a.store.Load()
	require.NoError(t, err)
	assert.Equal(t, dir, persisted.DownloadDir)
	assert.Equal(t, "sc", persisted.AliasName)
}

// TestSetupKeepsDefaultsOnBlankInput tests that empty prompts keep the
// current values.
func TestSetupKeepsDefaultsOnBlankInput(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, &fakeRunner{}, dir, "\n\n")

	require.NoError(t, a.runSetup(context.Background()))
	assert.Equal(t, dir, a.settings.DownloadDir)
	assert.Empty(t, a.settings.AliasName)
}
