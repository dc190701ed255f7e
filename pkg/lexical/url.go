package lexical

import (
	"net/url"
	"strings"
)

const blockedURL = "about:blank"

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
	"sms":    true,
}

// SafeURL reports whether raw may be used as a link target. Relative URLs
// and the schemes in allowedSchemes pass.
func SafeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return !strings.HasPrefix(raw, "//") || u.Host != ""
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return false
	}
	return true
}

// SanitizeURL returns raw, or about:blank when raw is not a SafeURL.
func SanitizeURL(raw string) string {
	if SafeURL(raw) {
		return strings.TrimSpace(raw)
	}
	return blockedURL
}
