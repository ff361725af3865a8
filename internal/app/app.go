// Package app ties the stillcast components together and drives them from
// the terminal.
package app

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"stillcast/internal/assembly"
	"stillcast/internal/command"
	"stillcast/internal/config"
	"stillcast/internal/domain/keys"
	"stillcast/internal/downloads"
	"stillcast/internal/metadata"
	"stillcast/internal/setup"
	"stillcast/internal/utils/logging"

	"github.com/spf13/viper"
)

// App holds the wired components for one program run.
type App struct {
	store    *config.Store
	settings config.Settings
	runner   command.Runner
	tools    *setup.ToolManager
	orch     *downloads.Orchestrator
	pipeline *assembly.Pipeline
	dataDir  string
	input    *bufio.Scanner

	// ensureFFmpeg and ensureEngine are swappable in tests.
	ensureFFmpeg func(ctx context.Context) error
	ensureEngine func(ctx context.Context) error
}

// Run dispatches on the parsed command line: setup, update, a one-shot URL,
// or the interactive menu.
func Run(ctx context.Context) error {
	if !viper.GetBool(keys.Execute) {
		return nil
	}
	logging.Level = viper.GetInt(keys.DebugLevel)

	a, err := newApp()
	if err != nil {
		return err
	}

	switch {
	case viper.GetBool(keys.RunSetup):
		return a.runSetup(ctx)
	case viper.GetBool(keys.RunUpdate):
		if err := a.ensureEngine(ctx); err != nil {
			return err
		}
		a.tools.Update(ctx)
		return nil
	case viper.GetString(keys.TargetURL) != "":
		return a.runOneShot(ctx, viper.GetString(keys.TargetURL))
	default:
		return a.runMenu(ctx)
	}
}

// newApp loads settings, applies flag overrides and wires the components.
func newApp() (*App, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	store := config.NewStore(dataDir)
	settings, err := store.Load()
	if err != nil {
		return nil, err
	}

	if dir := viper.GetString(keys.DownloadDir); dir != "" {
		settings.DownloadDir = dir
	}

	runner := command.NewRunner()
	a := &App{
		store:    store,
		settings: settings,
		runner:   runner,
		tools:    setup.NewToolManager(runner, dataDir),
		dataDir:  dataDir,
		input:    bufio.NewScanner(os.Stdin),
	}
	a.ensureFFmpeg = func(ctx context.Context) error {
		return setup.EnsureFFmpeg(ctx, a.runner)
	}
	a.ensureEngine = func(ctx context.Context) error {
		_, err := a.tools.EnsureYTDLP(ctx)
		return err
	}
	a.wireComponents()
	return a, nil
}

// wireComponents (re)builds the orchestrator and pipeline from the current
// settings. Called again after setup so a changed download directory takes
// effect without a restart.
func (a *App) wireComponents() {
	orch := downloads.NewOrchestrator(a.runner, a.dataDir, a.settings.DownloadDir)
	if path := viper.GetString(keys.CookiePath); path != "" {
		orch.SetCookieOverride(path)
	}
	if browser := viper.GetString(keys.CookieSource); browser != "" {
		orch.SetCookieSource(browser)
	}

	a.orch = orch
	a.pipeline = assembly.NewPipeline(a.runner, metadata.NewProber(a.runner), orch, a.settings.DownloadDir)
}

// runOneShot performs a single download chosen by the mode flags.
func (a *App) runOneShot(ctx context.Context, url string) error {
	if err := a.ensureEngine(ctx); err != nil {
		return err
	}

	switch {
	case viper.GetBool(keys.SingleFrame):
		_, err := a.pipeline.Run(ctx, url)
		return err
	case viper.GetBool(keys.AudioOnly):
		return a.orch.Download(ctx, downloads.ModeAudio, url, viper.GetString(keys.OutputTemplate))
	default:
		return a.orch.Download(ctx, downloads.ModeVideo, url, viper.GetString(keys.OutputTemplate))
	}
}
