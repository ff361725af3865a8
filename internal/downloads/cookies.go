package downloads

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"

	"github.com/browserutils/kooky"
	// Register all browser cookie stores for kooky.
	_ "github.com/browserutils/kooky/browser/all"

	"golang.org/x/net/publicsuffix"
)

// FindCookieFile searches the candidate directories in order for the fixed
// cookie filename and returns the first existing match, or "" when none
// exists. Absence is not an error, it only disables credentialed retries.
func FindCookieFile(candidateDirs []string) string {
	for _, dir := range candidateDirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, consts.CookieFileName)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			logging.D(1, "Found cookie file at %q", path)
			return path
		}
	}
	return ""
}

// ExportBrowserCookies pulls cookies for the target's base domain out of
// installed browsers and writes them to destPath in Netscape format. Returns
// "" (no error) when no browser has cookies for the domain.
func ExportBrowserCookies(_ context.Context, rawURL, destPath string) (string, error) {
	domain, err := baseDomain(rawURL)
	if err != nil {
		return "", fmt.Errorf("error extracting base domain for cookie export: %w", err)
	}

	var kookyCookies []*kooky.Cookie
	for _, store := range kooky.FindAllCookieStores() {
		cookies, err := store.ReadCookies(kooky.Valid, kooky.Domain(domain))
		if err != nil {
			logging.D(2, "Failed reading cookies from %s: %v", store.Browser(), err)
			continue
		}
		kookyCookies = append(kookyCookies, cookies...)
	}
	if len(kookyCookies) == 0 {
		logging.D(1, "No browser cookies found for %s", domain)
		return "", nil
	}

	logging.I("Exporting %d browser cookies for %s", len(kookyCookies), domain)
	if err := writeNetscapeFile(convertToHTTPCookies(kookyCookies), destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

func baseDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return base, nil
}

func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
			Secure:  c.Secure,
		}
	}
	return httpCookies
}

// writeNetscapeFile saves cookies in the Netscape format the download engine
// consumes via its cookies flag.
func writeNetscapeFile(cookies []*http.Cookie, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.E("Failed to close cookie file %q: %v", path, err)
		}
	}()

	if _, err := file.WriteString("# Netscape HTTP Cookie File\n# https://curl.haxx.se/rfc/cookie_spec.html\n# This is a generated file! Do not edit.\n\n"); err != nil {
		return err
	}

	for _, cookie := range cookies {
		domain := cookie.Domain
		if !strings.HasPrefix(domain, ".") && strings.Count(domain, ".") > 1 {
			domain = "." + domain
		}

		secure := "FALSE"
		if cookie.Secure {
			secure = "TRUE"
		}

		expires := int64(0)
		if !cookie.Expires.IsZero() {
			expires = cookie.Expires.Unix()
		}

		if _, err := fmt.Fprintf(file, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, "FALSE", cookie.Path, secure, expires, cookie.Name, cookie.Value); err != nil {
			return err
		}
	}
	return nil
}
