package util

import (
	"regexp"
	"strings"
)

var youtubeIdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com\/watch\?v=|youtu\.be\/)([^&\n?]*)`),
	regexp.MustCompile(`youtube\.com\/embed\/([^&\n?]*)`),
}

// IsYouTubeURL is a cheap host check; use GetYouTubeID to validate fully.
func IsYouTubeURL(link string) bool {
	return strings.Contains(link, "youtube.com") || strings.Contains(link, "youtu.be")
}

// GetYouTubeID extracts the video id from watch, short and embed links.
// It returns "" when no id can be found.
func GetYouTubeID(link string) string {
	link = strings.TrimSpace(link)
	for _, pattern := range youtubeIdPatterns {
		if match := pattern.FindStringSubmatch(link); len(match) > 1 && match[1] != "" {
			return match[1]
		}
	}
	return ""
}

func WatchURL(videoId string) string {
	return "https://www.youtube.com/watch?v=" + videoId
}
