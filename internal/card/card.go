// Package card turns content items into the view models rendered as cards.
package card

import (
	"github.com/MrSnakeDoc/brainlink/internal/domain"
)

// Mode selects which actions a card exposes.
type Mode uint8

const (
	// Owner cards belong to the signed-in user and can be deleted.
	Owner Mode = iota
	// ReadOnly cards come from a shared brain. Delete is a no-op.
	ReadOnly
)

// Presentation is the body of a card. Each card has exactly one.
type Presentation uint8

const (
	EmbedPlayer Presentation = iota + 1
	Quote
	LinkCard
)

func (p Presentation) String() string {
	switch p {
	case EmbedPlayer:
		return "embed"
	case Quote:
		return "quote"
	case LinkCard:
		return "link"
	}
	return "unknown"
}

const (
	labelArticle = "Blog Post"
	labelAIChat  = "AI Chat Session"
)

// CopiedMessage is shown after a card's link was handed out for copying.
const CopiedMessage = "Content link copied to clipboard!"

// Card is everything a template needs to draw one item.
type Card struct {
	Key   string
	Title string
	Link  string
	Type  domain.ContentType
	Icon  string

	Presentation Presentation
	// URL is the embed address for EmbedPlayer and Quote, the original
	// link for LinkCard.
	URL string
	// Label names the link for LinkCard presentations.
	Label string

	CanDelete bool
}

// Render builds the card of it.
func Render(it domain.Item, mode Mode) Card {
	c := Card{
		Key:       it.Key(),
		Title:     it.Title,
		Link:      it.Link,
		Type:      it.Type,
		Icon:      it.Type.Icon(),
		CanDelete: mode == Owner,
	}

	switch it.Type {
	case domain.Video:
		c.Presentation = EmbedPlayer
		c.URL = domain.YouTubeEmbedURL(it.Link)
	case domain.SocialPost:
		c.Presentation = Quote
		c.URL = domain.TwitterEmbedURL(it.Link)
	case domain.AIChat:
		c.Presentation = LinkCard
		c.URL = it.Link
		c.Label = labelAIChat
	default:
		c.Presentation = LinkCard
		c.URL = it.Link
		c.Label = labelArticle
	}
	return c
}

// RenderAll renders items in order.
func RenderAll(items []domain.Item, mode Mode) []Card {
	out := make([]Card, 0, len(items))
	for _, it := range items {
		out = append(out, Render(it, mode))
	}
	return out
}

// ConfirmDelete runs del only when the user confirmed. It reports whether
// del was invoked.
func ConfirmDelete(confirmed bool, del func() error) (bool, error) {
	if !confirmed {
		return false, nil
	}
	return true, del()
}

// ShareLink returns the link to copy for it and the message to flash.
// Sharing a single card never asks for confirmation.
func ShareLink(it domain.Item) (string, string) {
	return it.Link, CopiedMessage
}
