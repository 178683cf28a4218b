package homepage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/brainlink/internal/domain"
)

// ErrNoBookmarks is returned when a file holds no usable bookmark.
var ErrNoBookmarks = errors.New("no valid bookmarks found in config")

// Entry is one bookmark ready to be submitted as content.
type Entry struct {
	ID       string // stable, derived from the link
	Category string
	Name     string
	Draft    domain.Draft
}

// Skipped is a bookmark that could not become a draft.
type Skipped struct {
	Category string
	Name     string
	Reason   string
}

// Mapper converts bookmarks into content drafts
type Mapper struct{}

// NewMapper creates a new bookmark mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapDrafts walks the config in file order (names sorted within a
// category) and builds one draft per distinct link. The content type is
// guessed from the link. Entries failing draft validation are returned in
// the skipped list instead.
func (m *Mapper) MapDrafts(config BookmarksConfig) ([]Entry, []Skipped, error) {
	var (
		entries []Entry
		skipped []Skipped
		seen    = make(map[string]bool)
	)

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, name := range sortedKeys(bookmarkMap) {
					list := bookmarkMap[name]
					if len(list) == 0 {
						continue
					}
					entry := list[0]

					title := strings.TrimSpace(name)
					if title == "" {
						title = entry.Abbr
					}
					link := strings.TrimSpace(entry.Href)

					d := domain.Draft{
						Title: title,
						Link:  link,
						Type:  domain.DetectContentType(link),
					}
					if err := domain.ValidateDraft(d, true); err != nil {
						skipped = append(skipped, Skipped{Category: categoryName, Name: name, Reason: err.Error()})
						continue
					}

					id := bookmarkID(link)
					if seen[id] {
						skipped = append(skipped, Skipped{Category: categoryName, Name: name, Reason: "duplicate link"})
						continue
					}
					seen[id] = true

					entries = append(entries, Entry{
						ID:       id,
						Category: categoryName,
						Name:     name,
						Draft:    d.Normalized(),
					})
				}
			}
		}
	}

	if len(entries) == 0 {
		return nil, skipped, ErrNoBookmarks
	}
	return entries, skipped, nil
}

// bookmarkID creates a stable ID from a URL using SHA-256 hash
func bookmarkID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
