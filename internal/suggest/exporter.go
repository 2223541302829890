// Package suggest exports EDHREC's per-category card recommendations for
// a commander. Unlike the decklist pipeline this is a single request: the
// commander page already carries every category.
package suggest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtgbrew/edhrec-analyzer/internal/edhrec"
)

const runSubdir = "edhrec-suggestions"

// PageSource fetches a commander's recommendation page.
type PageSource interface {
	CommanderPage(ctx context.Context, slug string) (*edhrec.CommanderPage, error)
}

// Exporter writes one file per recommendation category beneath the
// output root.
type Exporter struct {
	source PageSource
	root   string
}

// NewExporter creates a suggestions exporter writing under root.
func NewExporter(source PageSource, root string) *Exporter {
	return &Exporter{source: source, root: root}
}

// Export fetches the commander page for slug and writes each card list to
// output/<slug>/edhrec-suggestions/cards_<category>.txt, one
// "<num decks>  <name>" line per card in the service's order. Returns the
// number of categories written.
func (e *Exporter) Export(ctx context.Context, slug string) (int, error) {
	page, err := e.source.CommanderPage(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch commander page: %w", err)
	}

	if page.Container == nil || page.Container.JSONDict == nil {
		return 0, fmt.Errorf("commander page format unexpected for %s", slug)
	}

	dir := filepath.Join(e.root, slug, runSubdir)
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("failed to clear suggestions directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create suggestions directory: %w", err)
	}

	written := 0
	for _, list := range page.Container.JSONDict.CardLists {
		if len(list.CardViews) == 0 {
			continue
		}

		path := filepath.Join(dir, fileName(list.Tag))
		if err := writeList(path, list); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

// writeList writes one category file.
func writeList(path string, list *edhrec.CardList) error {
	var b strings.Builder
	for _, view := range list.CardViews {
		fmt.Fprintf(&b, "%d  %s\n", view.NumDecks, view.Name)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// fileName derives a filesystem-safe file name from a category tag.
func fileName(tag string) string {
	safe := strings.ToLower(tag)
	safe = strings.ReplaceAll(safe, " ", "-")
	safe = strings.ReplaceAll(safe, "/", "-")
	return fmt.Sprintf("cards_%s.txt", safe)
}
