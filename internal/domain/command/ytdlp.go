// Package command holds flag constants for the external engines.
package command

// General yt-dlp flags.
const (
	CookiePath         = "--cookies"
	CookiesFromBrowser = "--cookies-from-browser"
	ExtractorArgs      = "--extractor-args"
	Format             = "-f"
	FormatSort         = "-S"
	MergeOutputFormat  = "--merge-output-format"
	NoPlaylist         = "--no-playlist"
	Output             = "-o"
	Paths              = "-P"
	RestrictFilenames  = "--restrict-filenames"
	FilenameSyntax     = "%(title)s.%(ext)s"
)

// Resilience flags. Fragment retries sit near-unbounded: partial segment
// failures are common and cheap to retry.
const (
	Retries             = "--retries"
	RetriesDefault      = "10"
	FragmentRetries     = "--fragment-retries"
	FragmentRetriesMax  = "999"
	FileAccessRetries   = "--file-access-retries"
	FileAccessRetriesN  = "5"
	ExtractorRetries    = "--extractor-retries"
	ExtractorRetriesN   = "3"
	AbortOnUnavailFrags = "--abort-on-unavailable-fragments"
)

// MobileClientArgs instructs the extractor to present as mobile/TV client
// variants, which are sometimes less aggressively rate limited than the
// default web client.
const MobileClientArgs = "youtube:player_client=default,mweb,tv,android"

// Selection and embedding.
const (
	ExtractAudio   = "--extract-audio"
	AudioFormat    = "--audio-format"
	AudioFormatM4A = "m4a"
	EmbedThumbnail = "--embed-thumbnail"
	EmbedMetadata  = "--embed-metadata"
	EmbedChapters  = "--embed-chapters"
	EmbedSubs      = "--embed-subs"

	VideoFormatExpr = "bv*+ba/b"
	VideoSortExpr   = "res,ext:mp4:m4a"
	AudioFormatExpr = "ba/b"
	AudioSortExpr   = "ext:m4a"
	MergeFormatMP4  = "mp4"
)

// Subtitles.
const (
	WriteSubs     = "--write-subs"
	WriteAutoSubs = "--write-auto-subs"
	SubLangs      = "--sub-langs"
	SubLangsEn    = "en"
	ConvertSubs   = "--convert-subs"
	SubFormatSRT  = "srt"
)

// Metadata probe and thumbnail-only modes.
const (
	SkipDownload      = "--skip-download"
	DumpSingleJSON    = "-J"
	WriteThumbnail    = "--write-thumbnail"
	ConvertThumbnails = "--convert-thumbnails"
	ThumbFormatPNG    = "png"
)

// Self-update.
const Update = "-U"
