package assembly

import (
	"strconv"

	cmdflags "stillcast/internal/domain/command"
	"stillcast/internal/domain/consts"
	"stillcast/internal/metadata"
)

// muxInputs names the artifacts feeding the final mux. Chapters and
// Subtitles may be empty; their inputs and mappings are then omitted.
type muxInputs struct {
	Thumbnail string
	Audio     string
	Chapters  string
	Subtitles string
	Output    string
}

// buildMuxArgs assembles the single transcoding invocation that combines the
// looped thumbnail, the audio stream and the optional sidecars. Video is a
// still-image-tuned low-bitrate stream; audio keeps a fixed high-quality
// bitrate. Duration is bounded by the shortest input (the audio) and the
// container gets a fast-start layout.
func buildMuxArgs(in muxInputs, meta *metadata.VideoMetadata) []string {
	args := []string{
		cmdflags.Overwrite, cmdflags.HideBanner,
		cmdflags.LogLevel, cmdflags.LogLevelErr,
		cmdflags.Loop, "1",
		cmdflags.Framerate, "1",
		cmdflags.Input, in.Thumbnail,
		cmdflags.Input, in.Audio,
	}

	nextInput := 2
	chaptersInput, subsInput := -1, -1
	if in.Chapters != "" {
		args = append(args, cmdflags.Input, in.Chapters)
		chaptersInput = nextInput
		nextInput++
	}
	if in.Subtitles != "" {
		args = append(args, cmdflags.Input, in.Subtitles)
		subsInput = nextInput
	}

	args = append(args,
		cmdflags.Map, "0:v",
		cmdflags.Map, "1:a",
	)
	if subsInput >= 0 {
		args = append(args, cmdflags.Map, strconv.Itoa(subsInput)+":s")
	}
	if chaptersInput >= 0 {
		args = append(args, cmdflags.MapMetadata, strconv.Itoa(chaptersInput))
	}

	args = append(args,
		cmdflags.VideoCodec, cmdflags.CodecH264,
		cmdflags.Tune, cmdflags.TuneStill,
		cmdflags.VideoBitrate, consts.StillVideoBitrate,
		cmdflags.PixFmt, cmdflags.PixFmtYUV420,
		cmdflags.AudioCodec, cmdflags.CodecAAC,
		cmdflags.AudioBitrate, consts.StillAudioBitrate,
	)
	if subsInput >= 0 {
		args = append(args, cmdflags.SubtitleCodec, cmdflags.CodecMovText)
	}

	args = append(args, globalMetadataArgs(meta)...)

	return append(args,
		cmdflags.Shortest,
		cmdflags.MovFlags, cmdflags.FastStart,
		in.Output,
	)
}

// globalMetadataArgs attaches container-level tags from the probe snapshot.
func globalMetadataArgs(meta *metadata.VideoMetadata) []string {
	if meta == nil {
		return nil
	}

	var args []string
	if meta.Title != "" {
		args = append(args, cmdflags.Metadata, "title="+meta.Title)
	}
	if meta.Uploader != "" {
		args = append(args, cmdflags.Metadata, "artist="+meta.Uploader)
	}
	if !meta.UploadDate.IsZero() {
		args = append(args, cmdflags.Metadata, "date="+meta.UploadDate.Format("2006-01-02"))
	}
	if meta.Description != "" {
		args = append(args, cmdflags.Metadata, "comment="+truncateRunes(meta.Description, consts.MaxCommentRunes))
	}
	return args
}

// buildCoverArtArgs re-muxes the finished file with the thumbnail attached
// as a cover-art picture stream, copying all codecs.
func buildCoverArtArgs(inPath, thumbPath, outPath string) []string {
	return []string{
		cmdflags.Overwrite, cmdflags.HideBanner,
		cmdflags.LogLevel, cmdflags.LogLevelErr,
		cmdflags.Input, inPath,
		cmdflags.Input, thumbPath,
		cmdflags.Map, "0",
		cmdflags.Map, "1",
		cmdflags.CopyAll, cmdflags.CodecCopy,
		cmdflags.Disposition, cmdflags.AttachedPic,
		outPath,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
