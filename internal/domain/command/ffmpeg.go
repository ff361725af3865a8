package command

// General ffmpeg flags.
const (
	Input       = "-i"
	Overwrite   = "-y"
	HideBanner  = "-hide_banner"
	LogLevel    = "-loglevel"
	LogLevelErr = "error"
	Map         = "-map"
	MapMetadata = "-map_metadata"
	Metadata    = "-metadata"
	Shortest    = "-shortest"
	MovFlags    = "-movflags"
	FastStart   = "+faststart"
	Disposition = "-disposition:v:1"
	AttachedPic = "attached_pic"
	FormatLavfi = "-f"
	Lavfi       = "lavfi"
	Frames      = "-frames:v"
	Loop        = "-loop"
	Framerate   = "-framerate"
)

// Codec selection.
const (
	VideoCodec    = "-c:v"
	AudioCodec    = "-c:a"
	SubtitleCodec = "-c:s"
	CopyAll       = "-c"
	CodecCopy     = "copy"
	CodecH264     = "libx264"
	CodecAAC      = "aac"
	CodecMovText  = "mov_text"
	Tune          = "-tune"
	TuneStill     = "stillimage"
	VideoBitrate  = "-b:v"
	AudioBitrate  = "-b:a"
	PixFmt        = "-pix_fmt"
	PixFmtYUV420  = "yuv420p"
)
