package domain

import (
	"strconv"
	"strings"
)

// ContentType is the closed set of content kinds a user can save.
// The zero value is not a valid type.
type ContentType uint8

const (
	Video ContentType = iota + 1
	SocialPost
	Article
	AIChat
)

// ContentTypes lists every type in selection order. The first one is the default.
var ContentTypes = []ContentType{Video, SocialPost, Article, AIChat}

// DefaultContentType is preselected by the creation form.
const DefaultContentType = Video

// String returns the display name used in filters and URLs.
func (t ContentType) String() string {
	switch t {
	case Video:
		return "video"
	case SocialPost:
		return "social-post"
	case Article:
		return "article"
	case AIChat:
		return "ai-chat"
	}
	return "unknown"
}

// Wire returns the name the backend stores.
func (t ContentType) Wire() string {
	switch t {
	case Video:
		return "youtube"
	case SocialPost:
		return "twitter"
	case Article:
		return "blog"
	case AIChat:
		return "aichat"
	}
	return ""
}

// Label is the human readable name shown on buttons and headings.
func (t ContentType) Label() string {
	switch t {
	case Video:
		return "YouTube"
	case SocialPost:
		return "Twitter"
	case Article:
		return "Blog"
	case AIChat:
		return "AI Chat"
	}
	return "Content"
}

// Icon is the glyph shown next to a card title.
func (t ContentType) Icon() string {
	switch t {
	case Video:
		return "📺"
	case SocialPost:
		return "🐦"
	case Article:
		return "📝"
	case AIChat:
		return "🤖"
	}
	return "📄"
}

// Valid reports whether t is one of the four known types.
func (t ContentType) Valid() bool {
	return t >= Video && t <= AIChat
}

// ParseContentType accepts display and wire names, case-insensitive.
// Unknown input yields (Article, false) so callers can fall back to the
// article presentation.
func ParseContentType(s string) (ContentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "youtube":
		return Video, true
	case "social-post", "twitter":
		return SocialPost, true
	case "article", "blog":
		return Article, true
	case "ai-chat", "aichat":
		return AIChat, true
	}
	return Article, false
}

// Filter restricts the displayed collection to one type, or to none.
// The zero value is FilterAll.
type Filter struct {
	only ContentType
}

// FilterAll shows every item.
var FilterAll = Filter{}

// FilterBy restricts the view to t. An invalid t yields FilterAll.
func FilterBy(t ContentType) Filter {
	if !t.Valid() {
		return FilterAll
	}
	return Filter{only: t}
}

// ParseFilter parses "all" or any name accepted by ParseContentType.
// Empty or unknown input yields FilterAll.
func ParseFilter(s string) Filter {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return FilterAll
	}
	t, ok := ParseContentType(s)
	if !ok {
		return FilterAll
	}
	return FilterBy(t)
}

// IsAll reports whether the filter lets every type through.
func (f Filter) IsAll() bool { return f.only == 0 }

// Type returns the restricting type and false for FilterAll.
func (f Filter) Type() (ContentType, bool) {
	return f.only, f.only != 0
}

// Matches reports whether an item of type t is part of the view.
func (f Filter) Matches(t ContentType) bool {
	return f.IsAll() || f.only == t
}

func (f Filter) String() string {
	if f.IsAll() {
		return "all"
	}
	return f.only.String()
}

// Title is the dashboard heading for the filter.
func (f Filter) Title() string {
	if f.IsAll() {
		return "All Content"
	}
	return f.only.Label() + " Content"
}

// Item is one saved reference to external content.
type Item struct {
	// ID is the backend identifier. Empty when the backend omitted it.
	ID    string
	Title string
	Link  string
	Type  ContentType

	// fallbackKey identifies the item for rendering only.
	fallbackKey string
}

// WithFallbackKey returns a copy of it carrying a positional render key.
func (it Item) WithFallbackKey(pos int) Item {
	it.fallbackKey = "idx-" + strconv.Itoa(pos)
	return it
}

// HasID reports whether the item carries a real backend identifier.
func (it Item) HasID() bool { return it.ID != "" }

// Key identifies the item among the rendered cards. It is the backend ID
// when known, otherwise the positional fallback, which must never be sent
// back to the backend.
func (it Item) Key() string {
	if it.ID != "" {
		return it.ID
	}
	return it.fallbackKey
}

// View returns the subsequence of items matching f, order preserved.
// For FilterAll the result holds every item of items.
func View(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Matches(it.Type) {
			out = append(out, it)
		}
	}
	return out
}

// FindByKey returns the item rendered under key.
func FindByKey(items []Item, key string) (Item, bool) {
	if key == "" {
		return Item{}, false
	}
	for _, it := range items {
		if it.Key() == key {
			return it, true
		}
	}
	return Item{}, false
}
