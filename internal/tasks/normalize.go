package tasks

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/ytscribe/internal/models"
)

// Video IDs are 11 characters from the base64url alphabet. Channel IDs are
// 24 characters starting with UC.
var (
	videoIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
)

// NormalizeInputs parses a mixed list of video references (watch URLs, short
// URLs, embed URLs, bare IDs) into a deduplicated ID list in first-seen
// order. Unparseable entries become invalid-reference errors keyed by the
// original string; they never abort the remaining entries.
func NormalizeInputs(inputs []string) ([]string, []models.ResolutionError) {
	ids := make([]string, 0, len(inputs))
	errs := []models.ResolutionError{}
	seen := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		id, ok := ExtractVideoID(trimmed)
		if !ok {
			errs = append(errs, models.ResolutionError{
				Ref:     trimmed,
				Kind:    models.KindInvalidReference,
				Message: "invalid YouTube URL or ID format",
			})
			continue
		}

		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, errs
}

// ExtractVideoID extracts the canonical video ID from a single reference.
//
// Recognized shapes: bare 11-character IDs, youtube.com/watch?v=...,
// youtu.be/..., youtube.com/embed/..., and youtube.com/v/... paths. Anything
// else reports false; IDs are never fabricated from partial matches.
func ExtractVideoID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if videoIDPattern.MatchString(input) {
		return input, true
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", false
	}

	switch normalizeHost(u.Host) {
	case "youtu.be":
		return validateID(firstSegment(u.Path))
	case "youtube.com":
		if u.Path == "/watch" {
			return validateID(u.Query().Get("v"))
		}
		for _, prefix := range []string{"/embed/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return validateID(firstSegment(strings.TrimPrefix(u.Path, prefix)))
			}
		}
	}

	return "", false
}

// ExtractChannelRef extracts a channel reference from a URL, handle, or bare
// channel ID.
//
// The result is one of three forms the Data API lookup understands: a bare
// UC... ID, "@handle", or "c/<name>" / "user/<name>" for legacy custom URLs.
func ExtractChannelRef(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if channelIDPattern.MatchString(input) {
		return input, true
	}
	if strings.HasPrefix(input, "@") && !strings.ContainsAny(input, "/?=") {
		return input, true
	}

	u, err := url.Parse(input)
	if err != nil || normalizeHost(u.Host) != "youtube.com" {
		return "", false
	}

	path := strings.Trim(u.Path, "/")
	switch {
	case strings.HasPrefix(path, "channel/"):
		id := firstSegment(strings.TrimPrefix(path, "channel/"))
		if channelIDPattern.MatchString(id) {
			return id, true
		}
	case strings.HasPrefix(path, "@"):
		if handle := firstSegment(path); handle != "@" {
			return handle, true
		}
	case strings.HasPrefix(path, "c/"):
		if name := firstSegment(strings.TrimPrefix(path, "c/")); name != "" {
			return "c/" + name, true
		}
	case strings.HasPrefix(path, "user/"):
		if name := firstSegment(strings.TrimPrefix(path, "user/")); name != "" {
			return "user/" + name, true
		}
	}

	return "", false
}

// ParseBulkInput extracts video references from uploaded bulk content.
//
// Plain text and CSV are split by line, skipping blanks and # comments and
// taking the first CSV column. JSON content is decoded as a string array.
func ParseBulkInput(content, contentType string) []string {
	if strings.Contains(contentType, "application/json") {
		var entries []string
		if err := json.Unmarshal([]byte(content), &entries); err != nil {
			return nil
		}
		refs := make([]string, 0, len(entries))
		for _, entry := range entries {
			if trimmed := strings.TrimSpace(entry); trimmed != "" {
				refs = append(refs, trimmed)
			}
		}
		return refs
	}

	var refs []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, ","); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		line = strings.Trim(line, `"'`)
		if line != "" {
			refs = append(refs, line)
		}
	}
	return refs
}

func normalizeHost(host string) string {
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	return host
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexAny(path, "/?"); idx >= 0 {
		path = path[:idx]
	}
	return path
}

func validateID(id string) (string, bool) {
	if videoIDPattern.MatchString(id) {
		return id, true
	}
	return "", false
}
