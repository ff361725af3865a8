// Package downloads runs download attempts through an escalating sequence of
// credential and client strategies.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"stillcast/internal/command"
	cmdflags "stillcast/internal/domain/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"
)

// Mode selects the format/embedding parameter table for an attempt.
type Mode int

const (
	ModeVideo Mode = iota
	ModeAudio
)

func (m Mode) String() string {
	if m == ModeAudio {
		return "audio"
	}
	return "video"
}

// ErrAllStrategiesFailed marks a download whose every applicable strategy
// exited nonzero.
var ErrAllStrategiesFailed = errors.New("all download strategies failed")

// strategy is one credential/client combination for a single attempt.
type strategy struct {
	name         string
	cookiePath   string
	cookieSource string
	mobileClient bool
}

// Orchestrator escalates download attempts. Cheap anonymous attempts go
// first; credentialed and mobile-emulated requests are slower to prepare and
// sometimes lower quality, so they run only on demonstrated failure.
type Orchestrator struct {
	runner         command.Runner
	configDir      string
	dlDir          string
	cookieOverride string
	cookieSource   string

	// exportCookies is swappable in tests; defaults to the browser export.
	exportCookies func(ctx context.Context, rawURL, destPath string) (string, error)
}

// SetCookieOverride pins cookie discovery to an explicit file path.
func (o *Orchestrator) SetCookieOverride(path string) {
	o.cookieOverride = path
}

// SetCookieSource makes credentialed strategies read cookies live from the
// named browser instead of a cookie file.
func (o *Orchestrator) SetCookieSource(browser string) {
	o.cookieSource = browser
}

// NewOrchestrator returns an orchestrator whose cookie discovery checks the
// tool's config directory, then the configured download directory.
func NewOrchestrator(r command.Runner, configDir, downloadDir string) *Orchestrator {
	return &Orchestrator{
		runner:        r,
		configDir:     configDir,
		dlDir:         downloadDir,
		exportCookies: ExportBrowserCookies,
	}
}

// Download runs the strategy chain for url, stopping at the first clean
// exit. outputTemplate overrides the default title-based output path when
// non-empty. Only after every applicable strategy fails does it return
// ErrAllStrategiesFailed.
func (o *Orchestrator) Download(ctx context.Context, mode Mode, url, outputTemplate string) error {
	strategies := o.buildStrategies(ctx, url)

	var lastOutcome command.Outcome
	for i, strat := range strategies {
		logging.I("Download attempt %d/%d (%s) for %s", i+1, len(strategies), strat.name, url)

		args := buildDownloadArgs(mode, url, outputTemplate, o.dlDir, strat)
		out, err := o.runner.Run(ctx, consts.YTDLP, args, command.Opts{})
		if err == nil {
			logging.S("Download complete (%s strategy) for %s", strat.name, url)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastOutcome = out
		logging.W("Strategy %q failed with exit code %d", strat.name, out.ExitCode)
	}

	return fmt.Errorf("%w for %q (last exit code %d): %s",
		ErrAllStrategiesFailed, url, lastOutcome.ExitCode, lastOutcome.StderrTail)
}

// CookieFile resolves a cookie file for url: an explicit override wins,
// then candidate directories, then a best-effort browser export into the
// config directory.
func (o *Orchestrator) CookieFile(ctx context.Context, url string) string {
	if o.cookieOverride != "" {
		return o.cookieOverride
	}
	if path := FindCookieFile([]string{o.configDir, o.dlDir}); path != "" {
		return path
	}

	dest := filepath.Join(o.configDir, consts.CookieFileName)
	path, err := o.exportCookies(ctx, url, dest)
	if err != nil {
		logging.D(1, "Browser cookie export failed: %v", err)
		return ""
	}
	return path
}

// buildStrategies produces the fixed escalation order: anonymous, cookies,
// cookies plus mobile-client emulation. Without a discoverable cookie file
// only the anonymous attempt applies.
func (o *Orchestrator) buildStrategies(ctx context.Context, url string) []strategy {
	strategies := []strategy{{name: "no credentials"}}

	if o.cookieSource != "" {
		return append(strategies,
			strategy{name: "browser cookies", cookieSource: o.cookieSource},
			strategy{name: "browser cookies + mobile clients", cookieSource: o.cookieSource, mobileClient: true},
		)
	}

	cookiePath := o.CookieFile(ctx, url)
	if cookiePath == "" {
		logging.D(1, "No cookie file discoverable, credentialed retries disabled")
		return strategies
	}

	return append(strategies,
		strategy{name: "cookies", cookiePath: cookiePath},
		strategy{name: "cookies + mobile clients", cookiePath: cookiePath, mobileClient: true},
	)
}

// buildDownloadArgs assembles the full engine argument list for one attempt.
func buildDownloadArgs(mode Mode, url, outputTemplate, downloadDir string, strat strategy) []string {
	args := make([]string, 0, 40)

	// Resilience parameters, common to every strategy.
	args = append(args,
		cmdflags.Retries, cmdflags.RetriesDefault,
		cmdflags.FragmentRetries, cmdflags.FragmentRetriesMax,
		cmdflags.FileAccessRetries, cmdflags.FileAccessRetriesN,
		cmdflags.ExtractorRetries, cmdflags.ExtractorRetriesN,
		cmdflags.NoPlaylist,
		cmdflags.RestrictFilenames,
	)

	switch mode {
	case ModeAudio:
		args = append(args,
			cmdflags.Format, cmdflags.AudioFormatExpr,
			cmdflags.FormatSort, cmdflags.AudioSortExpr,
			cmdflags.ExtractAudio,
			cmdflags.AudioFormat, cmdflags.AudioFormatM4A,
			cmdflags.EmbedThumbnail,
			cmdflags.EmbedMetadata,
			cmdflags.EmbedChapters,
			cmdflags.WriteSubs, cmdflags.WriteAutoSubs,
			cmdflags.SubLangs, cmdflags.SubLangsEn,
			cmdflags.ConvertSubs, cmdflags.SubFormatSRT,
		)
	default:
		args = append(args,
			cmdflags.Format, cmdflags.VideoFormatExpr,
			cmdflags.FormatSort, cmdflags.VideoSortExpr,
			cmdflags.MergeOutputFormat, cmdflags.MergeFormatMP4,
			cmdflags.EmbedThumbnail,
			cmdflags.EmbedChapters,
			cmdflags.EmbedSubs,
			cmdflags.WriteAutoSubs,
			cmdflags.SubLangs, cmdflags.SubLangsEn,
			cmdflags.AbortOnUnavailFrags,
		)
	}

	if outputTemplate != "" {
		args = append(args, cmdflags.Output, outputTemplate)
	} else {
		args = append(args,
			cmdflags.Output, cmdflags.FilenameSyntax,
			cmdflags.Paths, downloadDir,
		)
	}

	if strat.cookieSource != "" {
		args = append(args, cmdflags.CookiesFromBrowser, strat.cookieSource)
	} else if strat.cookiePath != "" {
		args = append(args, cmdflags.CookiePath, strat.cookiePath)
	}
	if strat.mobileClient {
		args = append(args, cmdflags.ExtractorArgs, cmdflags.MobileClientArgs)
	}

	// Target URL goes last.
	return append(args, url)
}
