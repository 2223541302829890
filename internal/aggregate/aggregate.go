// Package aggregate merges raw per-deck card lists into a master
// frequency table and per-type partitions.
package aggregate

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/mtgbrew/edhrec-analyzer/internal/cardtype"
)

// Entry is one card with its cumulative count.
type Entry struct {
	Name  string
	Count int
}

// Partitions groups card counts by primary type label.
type Partitions map[cardtype.Label]map[string]int

// TypeResolver resolves a card name to its primary type label.
type TypeResolver interface {
	Classify(ctx context.Context, cardName string) cardtype.Label
}

// ParseLine splits a raw deck line into quantity and card name. Lines
// that do not start with an integer quantity are reported as invalid and
// skipped by the caller, matching the source format's tolerance for
// stray lines.
func ParseLine(line string) (qty int, name string, ok bool) {
	qtyStr, name, found := strings.Cut(line, " ")
	if !found || name == "" {
		return 0, "", false
	}

	qty, err := strconv.Atoi(qtyStr)
	if err != nil || qty <= 0 {
		return 0, "", false
	}

	return qty, name, true
}

// CountCards merges raw deck lines into a master frequency table mapping
// card name to its total quantity across all decks.
func CountCards(decks [][]string) map[string]int {
	counts := make(map[string]int)

	for _, deck := range decks {
		for _, line := range deck {
			qty, name, ok := ParseLine(line)
			if !ok {
				continue
			}
			counts[name] += qty
		}
	}

	return counts
}

// GroupByType partitions a master frequency table by primary type label.
// Each card lands in exactly one partition with its full master count, so
// partition totals always sum back to the master table. Names are
// classified in sorted order so external lookups happen in a stable
// sequence.
func GroupByType(ctx context.Context, counts map[string]int, resolver TypeResolver) Partitions {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make(Partitions)
	for _, name := range names {
		label := resolver.Classify(ctx, name)
		if parts[label] == nil {
			parts[label] = make(map[string]int)
		}
		parts[label][name] = counts[name]
	}

	return parts
}

// SortedEntries flattens a frequency table into the user-visible output
// order: descending count, ties broken by ascending case-sensitive name.
func SortedEntries(counts map[string]int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, Entry{Name: name, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}
