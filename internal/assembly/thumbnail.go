package assembly

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stillcast/internal/command"
	cmdflags "stillcast/internal/domain/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"
)

// acquireThumbnail fetches the target's thumbnail normalized to PNG, falling
// back to converting an alternate raster format, then to a synthesized
// placeholder frame. Only a broken transcoding engine can make this fail.
func (p *Pipeline) acquireThumbnail(ctx context.Context, url, workDir, cookiePath string) (string, error) {
	pngPath := filepath.Join(workDir, consts.ThumbnailStem+".png")

	args := buildThumbnailArgs(url, workDir, cookiePath)
	if _, err := p.runner.Run(ctx, consts.YTDLP, args, command.Opts{Quiet: true}); err != nil {
		logging.I("Thumbnail download failed: %v", err)
	}
	if fileNonEmpty(pngPath) {
		return pngPath, nil
	}

	// Alternate raster format left behind by the engine?
	for _, ext := range consts.ThumbnailFallbackExtensions {
		altPath := filepath.Join(workDir, consts.ThumbnailStem+ext)
		if !fileNonEmpty(altPath) {
			continue
		}
		convertArgs := []string{
			cmdflags.Overwrite, cmdflags.HideBanner,
			cmdflags.LogLevel, cmdflags.LogLevelErr,
			cmdflags.Input, altPath,
			pngPath,
		}
		if _, err := p.runner.Run(ctx, consts.FFmpeg, convertArgs, command.Opts{Quiet: true}); err != nil {
			logging.I("Thumbnail conversion from %s failed: %v", ext, err)
			continue
		}
		if fileNonEmpty(pngPath) {
			return pngPath, nil
		}
	}

	// Synthesize a solid-color placeholder frame.
	logging.I("No thumbnail retrievable, synthesizing placeholder frame")
	synthArgs := []string{
		cmdflags.Overwrite, cmdflags.HideBanner,
		cmdflags.LogLevel, cmdflags.LogLevelErr,
		cmdflags.FormatLavfi, cmdflags.Lavfi,
		cmdflags.Input, fmt.Sprintf("color=c=%s:s=%s:d=1", consts.PlaceholderColor, consts.PlaceholderSize),
		cmdflags.Frames, "1",
		pngPath,
	}
	if out, err := p.runner.Run(ctx, consts.FFmpeg, synthArgs, command.Opts{Quiet: true}); err != nil {
		return "", fmt.Errorf("placeholder synthesis failed (exit %d): %w", out.ExitCode, err)
	}
	return pngPath, nil
}

// buildThumbnailArgs requests a thumbnail-only download normalized to PNG.
func buildThumbnailArgs(url, workDir, cookiePath string) []string {
	args := []string{
		cmdflags.SkipDownload,
		cmdflags.NoPlaylist,
		cmdflags.WriteThumbnail,
		cmdflags.ConvertThumbnails, cmdflags.ThumbFormatPNG,
		cmdflags.Output, filepath.Join(workDir, consts.ThumbnailStem+".%(ext)s"),
	}
	if cookiePath != "" {
		args = append(args, cmdflags.CookiePath, cookiePath)
	}
	return append(args, url)
}

// buildSubtitleArgs requests an English subtitle-only download converted to
// SRT.
func buildSubtitleArgs(url, workDir, cookiePath string) []string {
	args := []string{
		cmdflags.SkipDownload,
		cmdflags.NoPlaylist,
		cmdflags.WriteSubs, cmdflags.WriteAutoSubs,
		cmdflags.SubLangs, cmdflags.SubLangsEn,
		cmdflags.ConvertSubs, cmdflags.SubFormatSRT,
		cmdflags.Output, filepath.Join(workDir, "subs.%(ext)s"),
	}
	if cookiePath != "" {
		args = append(args, cmdflags.CookiePath, cookiePath)
	}
	return append(args, url)
}

func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
