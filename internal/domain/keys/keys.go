// Package keys holds viper and flag key constants.
package keys

// Terminal keys.
const (
	DownloadDir    string = "download-dir"
	AliasName      string = "alias-name"
	CookiePath     string = "cookie-file"
	CookieSource   string = "cookie-source"
	OutputTemplate string = "output-template"
	DebugLevel     string = "debug"
	AudioOnly      string = "audio"
	SingleFrame    string = "single-frame"
)

// Internal dispatch keys.
const (
	Execute   string = "execute"
	TargetURL string = "targetUrl"
	RunSetup  string = "runSetup"
	RunUpdate string = "runUpdate"
)
