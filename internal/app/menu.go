package app

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"stillcast/internal/domain/consts"
	"stillcast/internal/domain/keys"
	"stillcast/internal/downloads"
	"stillcast/internal/utils/logging"

	"github.com/spf13/viper"
)

// runMenu drives the interactive loop. A failed operation logs and returns
// to the menu; only quit or EOF ends the loop.
func (a *App) runMenu(ctx context.Context) error {
	if err := a.ensureEngine(ctx); err != nil {
		return err
	}

	for {
		printMenu()

		choice, ok := readLine(a.input)
		if !ok {
			return nil
		}

		switch strings.ToLower(choice) {
		case "1":
			a.menuDownload(ctx, downloads.ModeVideo)
		case "2":
			a.menuDownload(ctx, downloads.ModeAudio)
		case "3":
			a.menuAssemble(ctx)
		case "s":
			if err := a.runSetup(ctx); err != nil {
				logging.E("Setup failed: %v", err)
			}
		case "u":
			a.tools.Update(ctx)
		case "q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Printf("Unknown choice %q\n", choice)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func printMenu() {
	fmt.Printf("\n%s %s\n\n"+
		"  1) Download video\n"+
		"  2) Download audio\n"+
		"  3) Download audio and assemble a still-frame video\n"+
		"  s) Setup\n"+
		"  u) Update %s\n"+
		"  q) Quit\n\n"+
		"Choice: ",
		consts.ProgramName, consts.Version, consts.YTDLP)
}

func (a *App) menuDownload(ctx context.Context, mode downloads.Mode) {
	url, ok := a.promptURL()
	if !ok {
		return
	}
	if err := a.orch.Download(ctx, mode, url, viper.GetString(keys.OutputTemplate)); err != nil {
		logging.E("Download failed: %v", err)
	}
}

func (a *App) menuAssemble(ctx context.Context) {
	url, ok := a.promptURL()
	if !ok {
		return
	}
	if _, err := a.pipeline.Run(ctx, url); err != nil {
		logging.E("Assembly failed: %v", err)
	}
}

func (a *App) promptURL() (string, bool) {
	fmt.Print("URL: ")
	url, ok := readLine(a.input)
	if !ok || url == "" {
		return "", false
	}
	return url, true
}

// readLine returns the next trimmed line and false on EOF or read error.
func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
