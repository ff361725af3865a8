package consts

// AllAudioExtensions lists extensions yt-dlp may choose for an audio-only product.
var AllAudioExtensions = [...]string{".m4a", ".mp3", ".opus", ".ogg", ".aac", ".flac", ".wav", ".webm", ".mka"}

// ThumbnailFallbackExtensions lists raster formats checked when the normalized
// thumbnail is absent, in preference order.
var ThumbnailFallbackExtensions = [...]string{".webp", ".jpg", ".jpeg"}
