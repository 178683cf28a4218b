package domain

import (
	"strings"
	"testing"
)

func TestYouTubeEmbedURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4&t=42s", "https://www.youtube.com/embed/dQw4"},
		{"short url", "https://youtu.be/abc123", "https://www.youtube.com/embed/abc123"},
		{"short url with query", "https://youtu.be/abc123?x=1", "https://www.youtube.com/embed/abc123"},
		{"already embeddable", "https://www.youtube.com/embed/xyz", "https://www.youtube.com/embed/xyz"},
		{"unrecognized", "https://vimeo.com/123", "https://www.youtube.com/embed/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YouTubeEmbedURL(tt.link); got != tt.want {
				t.Errorf("YouTubeEmbedURL(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}

	if got := YouTubeEmbedURL("https://youtu.be/abc123?x=1"); !strings.HasSuffix(got, "/embed/abc123") {
		t.Errorf("short url embed = %q, want suffix /embed/abc123", got)
	}
}

func TestTwitterEmbedURL(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://x.com/foo/status/1", "https://twitter.com/foo/status/1"},
		{"https://www.x.com/foo/status/1", "https://twitter.com/foo/status/1"},
		{"https://twitter.com/foo/status/1", "https://twitter.com/foo/status/1"},
		{"https://netflix.com/title/1", "https://netflix.com/title/1"},
	}

	for _, tt := range tests {
		if got := TwitterEmbedURL(tt.link); got != tt.want {
			t.Errorf("TwitterEmbedURL(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	tests := map[string]ContentType{
		"https://www.youtube.com/watch?v=1":  Video,
		"https://youtu.be/1":                 Video,
		"https://x.com/a/status/1":           SocialPost,
		"https://twitter.com/a/status/1":     SocialPost,
		"https://chatgpt.com/share/abc":      AIChat,
		"https://claude.ai/share/abc":        AIChat,
		"https://go.dev/blog/loopvar":        Article,
		"::::":                               Article,
	}
	for link, want := range tests {
		if got := DetectContentType(link); got != want {
			t.Errorf("DetectContentType(%q) = %v, want %v", link, got, want)
		}
	}
}
