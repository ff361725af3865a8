package app

import (
	"context"
	"fmt"
	"os"

	"stillcast/internal/utils/logging"
)

// runSetup walks first-time configuration: download directory and alias
// name, external dependencies, the managed download engine, then persists
// and reloads the settings. Components are rewired afterward so the new
// directory applies to subsequent downloads in the same session.
func (a *App) runSetup(ctx context.Context) error {
	fmt.Printf("Download directory [%s]: ", a.settings.DownloadDir)
	if dir, ok := readLine(a.input); ok && dir != "" {
		a.settings.DownloadDir = dir
	}
	if err := os.MkdirAll(a.settings.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory %q: %w", a.settings.DownloadDir, err)
	}

	fmt.Printf("Shell alias name (blank for none) [%s]: ", a.settings.AliasName)
	if alias, ok := readLine(a.input); ok && alias != "" {
		a.settings.AliasName = alias
	}

	if err := a.ensureFFmpeg(ctx); err != nil {
		return err
	}
	if err := a.ensureEngine(ctx); err != nil {
		return err
	}

	if err := a.store.Save(a.settings); err != nil {
		return err
	}

	reloaded, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("settings saved but failed to re-read: %w", err)
	}
	a.settings = reloaded
	a.wireComponents()

	logging.S("Setup complete. Settings written to %s", a.store.Path())
	if a.settings.AliasName != "" {
		logging.I("Add the alias to your shell config: alias %s=%q", a.settings.AliasName, os.Args[0])
	}
	return nil
}
