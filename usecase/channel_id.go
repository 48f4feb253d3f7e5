package usecase

import (
	"regexp"
	"strings"
)

var (
	rawChannelID = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

	channelURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/channel/([A-Za-z0-9_-]{24})`),
		regexp.MustCompile(`youtube\.com/c/([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/@([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/user/([A-Za-z0-9_-]+)`),
	}

	handleURL = regexp.MustCompile(`youtube\.com/(@[A-Za-z0-9_-]+)`)
)

func isChannelID(s string) bool {
	return rawChannelID.MatchString(s)
}

// ExtractChannelID returns the UC id embedded in a raw id or channel URL.
// A URL capture counts only when it is UC-shaped; custom names and handles yield false.
func ExtractChannelID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if isChannelID(input) {
		return input, true
	}
	for _, pattern := range channelURLPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil && isChannelID(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

// ExtractHandle returns "@name" from "@name" or a youtube.com/@name URL.
func ExtractHandle(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if len(input) > 1 && strings.HasPrefix(input, "@") {
		return input, true
	}
	if m := handleURL.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	return "", false
}
