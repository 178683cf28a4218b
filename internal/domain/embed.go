package domain

import (
	"net/url"
	"strings"
)

const youTubeEmbedBase = "https://www.youtube.com/embed/"

// YouTubeEmbedURL builds a playable embed URL from a watch URL, a youtu.be
// short link or an already embeddable URL (returned unchanged). Anything
// else yields an embed URL with an empty video id.
func YouTubeEmbedURL(link string) string {
	var videoID string

	switch {
	case strings.Contains(link, "watch?v="):
		videoID = strings.SplitN(strings.SplitN(link, "watch?v=", 2)[1], "&", 2)[0]
	case strings.Contains(link, "youtu.be/"):
		videoID = strings.SplitN(strings.SplitN(link, "youtu.be/", 2)[1], "?", 2)[0]
	case strings.Contains(link, "embed/"):
		return link
	}

	return youTubeEmbedBase + videoID
}

// TwitterEmbedURL points x.com links at twitter.com so the embed widget
// recognizes them. Other links are returned as-is.
func TwitterEmbedURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	switch strings.ToLower(u.Host) {
	case "x.com", "www.x.com":
		u.Host = "twitter.com"
		return u.String()
	}
	return link
}

// DetectContentType guesses the type of a link from its host.
func DetectContentType(link string) ContentType {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return Article
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtube.com", "youtu.be", "youtube-nocookie.com":
		return Video
	case "x.com", "twitter.com", "mobile.twitter.com":
		return SocialPost
	case "chatgpt.com", "chat.openai.com", "claude.ai", "gemini.google.com", "perplexity.ai":
		return AIChat
	}
	return Article
}
