// Package metadata probes URLs through the download engine and models the
// result.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stillcast/internal/command"
	cmdflags "stillcast/internal/domain/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"

	"github.com/araddon/dateparse"
)

// ErrMetadataProbe marks a probe that failed with and without credentials.
var ErrMetadataProbe = errors.New("metadata probe failed")

// Chapter is one chapter marker, times in seconds.
type Chapter struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Title     string  `json:"title"`
}

// VideoMetadata is a read-only snapshot of the probed target.
type VideoMetadata struct {
	Title       string
	Duration    float64
	Uploader    string
	UploadDate  time.Time
	Description string
	Chapters    []Chapter
}

// probePayload matches the fields consumed from the engine's -J output.
type probePayload struct {
	Title       string    `json:"title"`
	Duration    float64   `json:"duration"`
	Uploader    string    `json:"uploader"`
	UploadDate  string    `json:"upload_date"`
	Timestamp   int64     `json:"timestamp"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

// Prober fetches metadata snapshots.
type Prober struct {
	runner command.Runner
}

// NewProber returns a metadata prober using the given runner.
func NewProber(r command.Runner) *Prober {
	return &Prober{runner: r}
}

// Probe fetches the URL's metadata in skip-download mode. Mobile-client
// emulation goes first; a cookie retry follows when cookiePath is non-empty.
// Both failing is terminal for callers, so the error wraps ErrMetadataProbe.
func (p *Prober) Probe(ctx context.Context, url, cookiePath string) (*VideoMetadata, error) {
	args := []string{
		cmdflags.DumpSingleJSON,
		cmdflags.SkipDownload,
		cmdflags.NoPlaylist,
		cmdflags.ExtractorArgs, cmdflags.MobileClientArgs,
		url,
	}

	out, err := p.runner.Run(ctx, consts.YTDLP, args, command.Opts{Quiet: true})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.W("Metadata probe without cookies failed (exit %d), %s", out.ExitCode, retryNote(cookiePath))
		if cookiePath == "" {
			return nil, fmt.Errorf("%w for %q: %s", ErrMetadataProbe, url, out.StderrTail)
		}

		args = []string{
			cmdflags.DumpSingleJSON,
			cmdflags.SkipDownload,
			cmdflags.NoPlaylist,
			cmdflags.CookiePath, cookiePath,
			url,
		}
		if out, err = p.runner.Run(ctx, consts.YTDLP, args, command.Opts{Quiet: true}); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w for %q: %s", ErrMetadataProbe, url, out.StderrTail)
		}
	}

	return parseProbeOutput([]byte(out.Stdout))
}

func parseProbeOutput(data []byte) (*VideoMetadata, error) {
	var payload probePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: engine produced unparseable metadata: %v", ErrMetadataProbe, err)
	}

	meta := &VideoMetadata{
		Title:       payload.Title,
		Duration:    payload.Duration,
		Uploader:    payload.Uploader,
		Description: payload.Description,
		Chapters:    payload.Chapters,
	}

	switch {
	case payload.Timestamp > 0:
		meta.UploadDate = time.Unix(payload.Timestamp, 0).UTC()
	case payload.UploadDate != "":
		if t, err := dateparse.ParseAny(payload.UploadDate); err == nil {
			meta.UploadDate = t
		} else {
			logging.D(1, "Could not parse upload date %q: %v", payload.UploadDate, err)
		}
	}

	return meta, nil
}

func retryNote(cookiePath string) string {
	if cookiePath == "" {
		return "no cookie file available for a retry"
	}
	return "retrying with cookies"
}
