package lexical

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// VideoProvider names the single supported embed provider.
	VideoProvider = "youtube"

	videoEmbedBaseURL = "https://www.youtube-nocookie.com/embed/"
	videoWatchBaseURL = "https://www.youtube.com/watch?v="
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// path prefixes on youtube.com hosts that are followed by the video id
var videoPathPrefixes = []string{"/embed/", "/shorts/", "/live/", "/v/"}

// ExtractProviderID returns the 11 character video id carried by a YouTube
// URL, or the input itself when it already is a bare id. Scheme-less URLs
// such as youtu.be/ID are read as https.
//
// Recognised shapes:
//
//	https://www.youtube.com/watch?v=ID&t=3s
//	https://m.youtube.com/watch?v=ID
//	https://youtu.be/ID
//	https://www.youtube.com/embed/ID (also youtube-nocookie.com)
//	https://www.youtube.com/shorts/ID
//	https://www.youtube.com/live/ID
func ExtractProviderID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if videoIDPattern.MatchString(raw) {
		return raw, true
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + strings.TrimPrefix(candidate, "//")
	}
	id, _ := MatchVideoURL(candidate)
	return id, id != ""
}

// VideoIDFromURL is the link recognizer: it only accepts absolute http(s)
// URLs on a YouTube host, so relative links and bare ids never match.
func VideoIDFromURL(raw string) (string, bool) {
	id, _ := MatchVideoURL(raw)
	return id, id != ""
}

// MatchVideoURL inspects an absolute http(s) URL. videoShaped is true when
// host and path point at a video page; id is empty when the id found there
// is not a valid video id.
func MatchVideoURL(raw string) (id string, videoShaped bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}

	switch host {
	case "youtu.be":
		id, videoShaped = firstSegment(u.Path), true
	case "youtube.com", "youtube-nocookie.com":
		if u.Path == "/watch" || u.Path == "/watch/" {
			id, videoShaped = u.Query().Get("v"), true
			break
		}
		for _, prefix := range videoPathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				id, videoShaped = firstSegment(strings.TrimPrefix(u.Path, prefix)), true
				break
			}
		}
	default:
		return "", false
	}

	if !videoIDPattern.MatchString(id) {
		return "", videoShaped
	}
	return id, true
}

// VideoEmbedURL is the player URL for a provider id.
func VideoEmbedURL(providerID string) string {
	return videoEmbedBaseURL + url.PathEscape(providerID)
}

// VideoWatchURL is the canonical watch page for a provider id.
func VideoWatchURL(providerID string) string {
	return videoWatchBaseURL + url.QueryEscape(providerID)
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
