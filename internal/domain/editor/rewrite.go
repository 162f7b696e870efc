package editor

import (
	"regexp"
	"strings"
)

// StyleBackgroundImage is the style key whose values are wrapped in url()
const StyleBackgroundImage = "backgroundImage"

// YouTubeEmbedBase is the prefix of rewritten video sources
const YouTubeEmbedBase = "https://www.youtube.com/embed/"

var (
	youtubeWatchPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([^&]+)`)
	youtubeShortPattern = regexp.MustCompile(`(?:https?://)?youtu\.be/([^?&]+)`)
)

// RewriteStyleValue normalizes a style value before it is stored.
// A background image given as a bare URL is wrapped as url('<url>').
// An empty value clears the property and is left empty.
func RewriteStyleValue(property, value string) string {
	if property != StyleBackgroundImage {
		return value
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, "url(") {
		return value
	}
	return "url('" + trimmed + "')"
}

// RewriteContentValue normalizes a content value before it is stored.
// A YouTube watch or short link used as a video source becomes its embed URL.
func RewriteContentValue(property, value string) string {
	if property != ContentSrc {
		return value
	}
	if id := youtubeVideoID(value); id != "" {
		return YouTubeEmbedBase + id
	}
	return value
}

func youtubeVideoID(value string) string {
	if m := youtubeWatchPattern.FindStringSubmatch(value); len(m) > 1 {
		return m[1]
	}
	if m := youtubeShortPattern.FindStringSubmatch(value); len(m) > 1 {
		return m[1]
	}
	return ""
}
