package processing

import (
	"errors"
	"regexp"
)

var ErrInvalidVideoLink = errors.New("invalid YouTube video link")

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID returns the 11 character video id from a watch, short,
// embed or v/ link. The first match in the string wins.
func ExtractVideoID(link string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(link)
	if m == nil {
		return "", ErrInvalidVideoLink
	}
	return m[1], nil
}
