// Package video turns pasted YouTube links into stored video ids and embed URLs
package video

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when no video id can be extracted from the input
var ErrInvalidURL = errors.New("invalid YouTube URL")

const embedBaseURL = "https://www.youtube.com/embed/"

var (
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
	}
	idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,64}$`)
)

// ExtractID returns the video id from a watch, short, embed or /v/ link, or from a bare id
func ExtractID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidURL
	}

	for _, pattern := range urlPatterns {
		if match := pattern.FindStringSubmatch(input); len(match) > 1 && idPattern.MatchString(match[1]) {
			return match[1], nil
		}
	}

	if idPattern.MatchString(input) {
		return input, nil
	}

	return "", ErrInvalidURL
}

// EmbedURL returns the player URL for a stored video id
func EmbedURL(id string) string {
	return embedBaseURL + id
}
