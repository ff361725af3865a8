// Package consts holds global, unchanging values.
package consts

// Program identity.
const (
	ProgramName = "stillcast"
	Version     = "0.3.1"
)

// File names and locations relative to the program's data directory.
const (
	SettingsFileName = "stillcast.toml"
	CookieFileName   = "cookies.txt"
	LogFileName      = "stillcast.log"
	BinDirName       = "bin"
)

// External programs.
const (
	YTDLP  = "yt-dlp"
	FFmpeg = "ffmpeg"
)

// YTDLPReleaseURL is the upstream location of the latest yt-dlp release binary.
const YTDLPReleaseURL = "https://github.com/yt-dlp/yt-dlp/releases/latest/download/yt-dlp"

// Working artifact names inside an assembly run's directory. yt-dlp chooses the
// extension for the audio product, so that one stays a stem.
const (
	AudioStem        = "audio"
	ThumbnailStem    = "thumbnail"
	SubtitleFileName = "subs.en.srt"
	ChapterFileName  = "chapters.txt"
)

// Single-frame output encoding.
const (
	StillVideoBitrate = "80k"
	StillAudioBitrate = "192k"
	PlaceholderColor  = "0x1a1a2e"
	PlaceholderSize   = "1280x720"
	MaxCommentRunes   = 256
	OutputSuffix      = "_audio"
	OutputExt         = ".mp4"
)

// MaxTitleLen bounds sanitized titles used for output filenames.
const MaxTitleLen = 200
