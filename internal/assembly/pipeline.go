// Package assembly builds a single still-frame video around a downloaded
// audio track, embedding thumbnail, chapters and subtitles when available.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stillcast/internal/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/downloads"
	"stillcast/internal/metadata"
	"stillcast/internal/utils/fs"
	"stillcast/internal/utils/logging"
)

// ErrNoAudioProduct marks an audio acquisition that exited cleanly but left
// no usable file behind.
var ErrNoAudioProduct = errors.New("no audio file produced")

// downloader is the slice of the orchestrator the pipeline consumes.
type downloader interface {
	Download(ctx context.Context, mode downloads.Mode, url, outputTemplate string) error
	CookieFile(ctx context.Context, url string) string
}

// prober fetches metadata snapshots.
type prober interface {
	Probe(ctx context.Context, url, cookiePath string) (*metadata.VideoMetadata, error)
}

// Pipeline orchestrates one assembly run per call. Runs are strictly
// sequential; each owns a private working directory for its artifacts.
type Pipeline struct {
	runner      command.Runner
	prober      prober
	dl          downloader
	downloadDir string
}

// NewPipeline wires the assembly pipeline.
func NewPipeline(r command.Runner, p prober, d downloader, downloadDir string) *Pipeline {
	return &Pipeline{
		runner:      r,
		prober:      p,
		dl:          d,
		downloadDir: downloadDir,
	}
}

// Run executes the full pipeline for url and returns the final output path.
// The working directory is removed on every exit path, including early
// aborts.
func (p *Pipeline) Run(ctx context.Context, url string) (string, error) {
	workDir, err := os.MkdirTemp("", consts.ProgramName+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logging.E("Failed to remove working directory %q: %v", workDir, err)
		}
	}()

	cookiePath := p.dl.CookieFile(ctx, url)

	// Stage 1: metadata. Title, duration and chapters all derive from it, so
	// failure here aborts the run.
	meta, err := p.prober.Probe(ctx, url, cookiePath)
	if err != nil {
		return "", err
	}
	logging.I("Probed %q (%.0fs, %d chapters)", meta.Title, meta.Duration, len(meta.Chapters))

	// Stage 2: audio.
	audioPath, err := p.acquireAudio(ctx, url, workDir)
	if err != nil {
		return "", err
	}

	// Stage 3: thumbnail. Always yields some image.
	thumbPath, err := p.acquireThumbnail(ctx, url, workDir, cookiePath)
	if err != nil {
		return "", err
	}

	// Stage 4: subtitles, optional.
	subsPath := p.acquireSubtitles(ctx, url, workDir, cookiePath)

	// Stage 5: chapter sidecar, optional.
	chapterPath, err := p.writeChapterSidecar(workDir, meta.Chapters)
	if err != nil {
		return "", err
	}

	// Stage 6: mux.
	outPath := fs.DisambiguateVersion(p.downloadDir,
		fs.SanitizeTitle(meta.Title)+consts.OutputSuffix, consts.OutputExt)
	if err := os.MkdirAll(p.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	muxArgs := buildMuxArgs(muxInputs{
		Thumbnail: thumbPath,
		Audio:     audioPath,
		Chapters:  chapterPath,
		Subtitles: subsPath,
		Output:    outPath,
	}, meta)
	if out, err := p.runner.Run(ctx, consts.FFmpeg, muxArgs, command.Opts{}); err != nil {
		return "", fmt.Errorf("muxing failed (exit %d): %w: %s", out.ExitCode, err, out.StderrTail)
	}

	// Stage 7: cover art, best-effort.
	p.embedCoverArt(ctx, outPath, thumbPath)

	logging.S("Assembled %s", outPath)
	return outPath, nil
}

// acquireAudio delegates to the fallback orchestrator, targeting the working
// directory, then verifies a product actually appeared.
func (p *Pipeline) acquireAudio(ctx context.Context, url, workDir string) (string, error) {
	template := filepath.Join(workDir, consts.AudioStem+".%(ext)s")
	if err := p.dl.Download(ctx, downloads.ModeAudio, url, template); err != nil {
		return "", err
	}

	path := findAudioProduct(workDir)
	if path == "" {
		return "", fmt.Errorf("%w in %q after download", ErrNoAudioProduct, workDir)
	}
	return path, nil
}

// findAudioProduct locates the downloaded audio file by stem and a known
// audio extension. The engine picks the extension, so discovery at this
// boundary is by contract stem, not a free glob.
func findAudioProduct(workDir string) string {
	for _, ext := range consts.AllAudioExtensions {
		path := filepath.Join(workDir, consts.AudioStem+ext)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path
		}
	}
	return ""
}

// acquireSubtitles requests an English subtitle sidecar, manual or
// auto-generated. Absence only skips downstream embedding.
func (p *Pipeline) acquireSubtitles(ctx context.Context, url, workDir, cookiePath string) string {
	args := buildSubtitleArgs(url, workDir, cookiePath)
	if _, err := p.runner.Run(ctx, consts.YTDLP, args, command.Opts{Quiet: true}); err != nil {
		logging.I("No subtitles retrieved: %v", err)
		return ""
	}

	path := filepath.Join(workDir, consts.SubtitleFileName)
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		logging.I("No subtitle file produced, continuing without subtitles")
		return ""
	}
	return path
}

// writeChapterSidecar renders the chapter metadata file when the probe found
// chapters. No chapters means no sidecar and no metadata input at mux time.
func (p *Pipeline) writeChapterSidecar(workDir string, chapters []metadata.Chapter) (string, error) {
	sidecar := metadata.ChapterSidecar(chapters)
	if sidecar == "" {
		return "", nil
	}

	path := filepath.Join(workDir, consts.ChapterFileName)
	if err := os.WriteFile(path, []byte(sidecar), 0o644); err != nil {
		return "", fmt.Errorf("failed to write chapter sidecar: %w", err)
	}
	return path, nil
}

// embedCoverArt re-muxes the output with the thumbnail as an attached
// picture. Failure keeps the prior valid output and only warns.
func (p *Pipeline) embedCoverArt(ctx context.Context, outPath, thumbPath string) {
	tmpPath := strings.TrimSuffix(outPath, consts.OutputExt) + ".cover.tmp" + consts.OutputExt

	args := buildCoverArtArgs(outPath, thumbPath, tmpPath)
	if out, err := p.runner.Run(ctx, consts.FFmpeg, args, command.Opts{Quiet: true}); err != nil {
		logging.W("Cover art embedding failed (exit %d), keeping plain output: %s", out.ExitCode, out.StderrTail)
		os.Remove(tmpPath)
		return
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		logging.W("Could not swap in cover-art output: %v", err)
		os.Remove(tmpPath)
	}
}
