package service

import (
	"net/url"
	"strings"
)

// isAllowedMediaURL accepts absolute http(s) URLs and server-local upload
// paths. Anything else (javascript:, data:, protocol-relative) is rejected.
func isAllowedMediaURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/uploads/") {
		return true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isYoutubeURL recognizes the youtube.com and youtu.be link shapes accepted
// for trailer embeds.
func isYoutubeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		return strings.HasPrefix(u.Path, "/watch") || strings.HasPrefix(u.Path, "/embed/") || strings.HasPrefix(u.Path, "/shorts/")
	case "youtu.be":
		return len(u.Path) > 1
	}
	return false
}

// uniqueStrings drops duplicates and blank entries, preserving first-seen
// order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
