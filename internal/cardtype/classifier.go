// Package cardtype resolves card names to a primary type label, backed by
// a persisted cache of raw type lines so repeated runs only look up cards
// they have never seen.
package cardtype

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Label is a coarse card category used for partitioning output.
type Label string

const (
	LabelCreature     Label = "Creature"
	LabelInstant      Label = "Instant"
	LabelSorcery      Label = "Sorcery"
	LabelArtifact     Label = "Artifact"
	LabelEnchantment  Label = "Enchantment"
	LabelPlaneswalker Label = "Planeswalker"
	LabelBattle       Label = "Battle"
	LabelLand         Label = "Land"
	LabelUnknown      Label = "Unknown"
)

// DefaultLabels is the normalization table: labels are matched against a
// card's type line in this order, and the first hit wins. "Legendary
// Creature — Rhino Warrior" matches Creature; "Artifact Creature — Golem"
// also matches Creature because Creature is checked first. Cards matching
// no label fall through to LabelUnknown.
var DefaultLabels = []Label{
	LabelCreature,
	LabelInstant,
	LabelSorcery,
	LabelArtifact,
	LabelEnchantment,
	LabelPlaneswalker,
	LabelBattle,
	LabelLand,
}

// unknownTypeLine is the cached type line for cards whose lookup failed,
// so the same failing name is never queried twice.
const unknownTypeLine = "Unknown"

// Lookup retrieves a card's raw type line from an external service.
type Lookup interface {
	TypeLine(ctx context.Context, cardName string) (string, error)
}

// Classifier maps card names to primary type labels. Previously seen type
// lines are served from an in-memory map seeded from the cache file;
// unseen names go through the external lookup. Newly learned mappings are
// persisted in one batch by Save at the end of a run.
type Classifier struct {
	lookup    Lookup
	path      string
	labels    []Label
	typeLines map[string]string
	dirty     bool
	learned   int
	lookups   int
}

// NewClassifier creates a classifier whose type-line cache lives at path.
// A missing or unreadable cache file starts the classifier empty.
func NewClassifier(path string, lookup Lookup) *Classifier {
	c := &Classifier{
		lookup:    lookup,
		path:      path,
		labels:    DefaultLabels,
		typeLines: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.typeLines); err != nil {
		c.typeLines = make(map[string]string)
	}

	return c
}

// SetLabels replaces the normalization table. Matching order is preserved.
func (c *Classifier) SetLabels(labels []Label) {
	c.labels = labels
}

// Classify resolves a card name to its primary type label. A name is
// looked up remotely at most once: failures and unrecognized type strings
// are cached as unknown so they are not retried within or across runs.
func (c *Classifier) Classify(ctx context.Context, cardName string) Label {
	key := normalizeKey(cardName)

	line, ok := c.typeLines[key]
	if !ok {
		line = c.fetchTypeLine(ctx, key)
		c.typeLines[key] = line
		c.dirty = true
		c.learned++
	}

	return c.labelFor(line)
}

// fetchTypeLine queries the external lookup, degrading to the unknown
// sentinel on any failure.
func (c *Classifier) fetchTypeLine(ctx context.Context, cardName string) string {
	c.lookups++

	line, err := c.lookup.TypeLine(ctx, cardName)
	if err != nil || line == "" {
		return unknownTypeLine
	}

	return line
}

// labelFor normalizes a raw type line to the closed label set.
func (c *Classifier) labelFor(typeLine string) Label {
	for _, label := range c.labels {
		if strings.Contains(typeLine, string(label)) {
			return label
		}
	}
	return LabelUnknown
}

// Save persists the full name-to-type-line map if any new mappings were
// learned since the cache was loaded.
func (c *Classifier) Save() error {
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.typeLines, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal card type cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write card type cache: %w", err)
	}

	c.dirty = false
	return nil
}

// Learned returns how many new mappings this run added to the cache.
func (c *Classifier) Learned() int {
	return c.learned
}

// Lookups returns how many external lookups were performed this run.
func (c *Classifier) Lookups() int {
	return c.lookups
}

// normalizeKey canonicalizes a card name for use as a cache and lookup
// key. Deck lists and the cache both spell split and double-faced cards
// with a " // " separator, so beyond trimming surrounding whitespace the
// name is used as-is.
func normalizeKey(cardName string) string {
	return strings.TrimSpace(cardName)
}
