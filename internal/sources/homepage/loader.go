package homepage

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/brainlink/internal/utils"
)

// maxFileBytes caps the size of a bookmarks file.
const maxFileBytes = 8 << 20

// templateVar matches Homepage template variables ({{HOMEPAGE_VAR_...}})
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a Homepage-style bookmarks.yaml file
type Loader struct {
	filePath string
}

// NewLoader creates a new bookmarks loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the bookmarks file
func (l *Loader) Load() (BookmarksConfig, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmarks file: %w", err)
	}
	defer utils.Close(f)

	return Read(f)
}

// Read parses bookmarks YAML from r.
func Read(r io.Reader) (BookmarksConfig, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return Parse(data)
}

// Parse decodes bookmarks YAML. Template variables are blanked first so
// entries relying on them end up without a link and are skipped later.
func Parse(data []byte) (BookmarksConfig, error) {
	data = templateVar.ReplaceAll(data, []byte(`""`))

	var config BookmarksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return config, nil
}
