package metadata

import (
	"math"
	"strconv"
	"strings"
)

// ChapterSidecar renders chapters into the metadata format the transcoding
// engine ingests for chapter embedding. Times land on a 1/1000 timebase,
// floored to integer milliseconds. Returns "" when there are no chapters.
func ChapterSidecar(chapters []Chapter) string {
	if len(chapters) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(";FFMETADATA1\n")

	for _, ch := range chapters {
		title := ch.Title
		if title == "" {
			title = "Chapter"
		}

		b.WriteString("\n[CHAPTER]\nTIMEBASE=1/1000\n")
		b.WriteString("START=")
		b.WriteString(strconv.FormatInt(int64(math.Floor(ch.StartTime*1000)), 10))
		b.WriteString("\nEND=")
		b.WriteString(strconv.FormatInt(int64(math.Floor(ch.EndTime*1000)), 10))
		b.WriteString("\ntitle=")
		b.WriteString(escapeMetaValue(title))
		b.WriteString("\n")
	}
	return b.String()
}

// escapeMetaValue escapes the characters the engine's metadata parser treats
// specially.
func escapeMetaValue(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"=", `\=`,
		";", `\;`,
		"#", `\#`,
		"\n", `\`+"\n",
	)
	return r.Replace(s)
}
