// Package viewer renders a shared brain for anonymous visitors.
package viewer

import (
	"context"
	"errors"
	"strings"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/card"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

// Phase of a shared brain page.
type Phase uint8

const (
	Loading Phase = iota
	Ready
	Error
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Error:
		return "error"
	}
	return "loading"
}

const (
	msgInvalidLink = "Invalid share link"
	msgNotFound    = "Shared brain not found. The link may be invalid or expired."
	msgFailed      = "Failed to load shared brain. Please try again."
	msgNoContent   = "No content found in shared brain"
)

// Fetcher loads public snapshots.
type Fetcher interface {
	SharedBrain(ctx context.Context, hash string) (*backend.Snapshot, error)
}

// Page is what the shared brain template renders.
type Page struct {
	Hash   string
	Owner  string
	Phase  Phase
	Cards  []card.Card
	Error  string
	Notice string
	Link   string // link handed out by Copy
}

// Copy selects the card rendered under key for copying its link.
func (p *Page) Copy(key string) bool {
	for _, c := range p.Cards {
		if c.Key == key && c.Link != "" {
			p.Link = c.Link
			p.Notice = card.CopiedMessage
			return true
		}
	}
	return false
}

// Viewer loads shared brains.
type Viewer struct {
	fetcher Fetcher
	logger  logger.Logger
}

// New creates a viewer.
func New(f Fetcher, log logger.Logger) *Viewer {
	return &Viewer{fetcher: f, logger: log}
}

// Load fetches the snapshot addressed by hash and renders it read-only.
// Every outcome is a page; failures carry a message for the visitor.
func (v *Viewer) Load(ctx context.Context, hash string) Page {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return Page{Phase: Error, Error: msgInvalidLink}
	}

	snap, err := v.fetcher.SharedBrain(ctx, hash)
	if err != nil {
		v.logger.Warn("failed to load shared brain",
			logger.String("hash", hash),
			logger.Error(err))
		return Page{Hash: hash, Phase: Error, Error: failure(err)}
	}

	return Page{
		Hash:  hash,
		Owner: snap.Owner,
		Phase: Ready,
		Cards: card.RenderAll(snap.Items, card.ReadOnly),
	}
}

func failure(err error) string {
	if errors.Is(err, backend.ErrMalformedResponse) {
		return msgNoContent
	}
	be, ok := backend.AsError(err)
	switch {
	case !ok:
		return msgFailed
	case be.Status == 404:
		return msgNotFound
	case be.Message != "":
		return be.Message
	}
	return msgFailed
}
