// Package fs holds filename and file-writing helpers.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stillcast/internal/domain/consts"
)

// SanitizeTitle maps a media title to a filesystem-safe stem: alphanumerics,
// underscores, dots and hyphens only, spaces to underscores, capped at
// consts.MaxTitleLen runes.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastUnderscore := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ', r == '_':
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		default:
			// Dropped outright. Emitting a replacement here doubles up with
			// the space handling and produces runs of underscores.
		}
	}

	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "untitled"
	}

	runes := []rune(s)
	if len(runes) > consts.MaxTitleLen {
		s = strings.Trim(string(runes[:consts.MaxTitleLen]), "_")
	}
	return s
}

// DisambiguateVersion returns the first path of the form "stem.ext",
// "stem_1.ext", "stem_2.ext", ... that does not already exist in dir.
// The check is iterative, not atomic; callers own the race window.
func DisambiguateVersion(dir, stem, ext string) string {
	candidate := filepath.Join(dir, stem+ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// WriteFileAtomic writes data to path via a temp file in the same directory
// and a rename, so a crash mid-write never leaves a partial file at path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed writing temp file %q: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("failed setting mode on %q: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed syncing %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed closing %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed renaming %q over %q: %w", tmpName, path, err)
	}
	return nil
}
