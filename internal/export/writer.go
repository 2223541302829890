// Package export serializes aggregation results to text files under the
// commander's output directory.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mtgbrew/edhrec-analyzer/internal/aggregate"
	"github.com/mtgbrew/edhrec-analyzer/internal/cardtype"
	"github.com/mtgbrew/edhrec-analyzer/internal/edhrec"
)

const runSubdir = "edhrec-decklists"

// RunMetadata records the inputs that produced a run's output files.
type RunMetadata struct {
	Commander string
	Criteria  edhrec.FilterCriteria
	DeckIDs   []string
	Timestamp time.Time
}

// WriteError indicates the output destination could not be created or
// written. Unlike a per-deck fetch failure, this is fatal to the run.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface for WriteError.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists run results beneath a root output directory, one
// subdirectory per commander slug.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at the given output directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// RunDir returns the output directory for a commander slug.
func (w *Writer) RunDir(slug string) string {
	return filepath.Join(w.root, slug, runSubdir)
}

// CleanRunDir removes and recreates the commander's output directory so
// a rerun never mixes old and new files.
func (w *Writer) CleanRunDir(slug string) (string, error) {
	dir := w.RunDir(slug)

	if err := os.RemoveAll(dir); err != nil {
		return "", &WriteError{Path: dir, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &WriteError{Path: dir, Err: err}
	}

	return dir, nil
}

// WriteMasterCounts writes the master frequency table to
// master_card_counts.txt in output order.
func (w *Writer) WriteMasterCounts(dir string, counts map[string]int) error {
	return w.writeCounts(filepath.Join(dir, "master_card_counts.txt"), counts)
}

// WriteTypePartitions writes one cards_<type>.txt file per partition.
// Empty partitions produce no file.
func (w *Writer) WriteTypePartitions(dir string, parts aggregate.Partitions) error {
	for label, counts := range parts {
		if len(counts) == 0 {
			continue
		}

		if err := w.writeCounts(filepath.Join(dir, TypeFileName(label)), counts); err != nil {
			return err
		}
	}
	return nil
}

// WriteDecklists writes every included deck's raw lines to a single
// <slug>-decklists.txt file, decks separated by a blank line.
func (w *Writer) WriteDecklists(dir, slug string, decks [][]string) error {
	path := filepath.Join(dir, slug+"-decklists.txt")

	var b strings.Builder
	for _, deck := range decks {
		b.WriteString(strings.Join(deck, "\n"))
		b.WriteString("\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// WriteRunMetadata writes the run metadata record to commander.txt.
func (w *Writer) WriteRunMetadata(dir string, meta RunMetadata) error {
	path := filepath.Join(dir, "commander.txt")

	var b strings.Builder
	b.WriteString("Commander Run Metadata\n")
	b.WriteString("======================\n\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Commander: %s\n", meta.Commander)
	fmt.Fprintf(&b, "Max Decks: %d\n", meta.Criteria.RecentCount)
	fmt.Fprintf(&b, "Min Price: %v\n", meta.Criteria.MinPrice)
	fmt.Fprintf(&b, "Max Price: %v\n", meta.Criteria.MaxPrice)
	fmt.Fprintf(&b, "Decks Used: %d\n", len(meta.DeckIDs))
	fmt.Fprintf(&b, "Deck IDs: %s\n", strings.Join(meta.DeckIDs, ", "))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// writeCounts writes a frequency file: one "<count>  <name>" line per
// card, descending count, ascending name tie-break.
func (w *Writer) writeCounts(path string, counts map[string]int) error {
	var b strings.Builder
	for _, entry := range aggregate.SortedEntries(counts) {
		fmt.Fprintf(&b, "%d  %s\n", entry.Count, entry.Name)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// TypeFileName returns the partition file name for a label, exposed for
// callers that report which files a run produced.
func TypeFileName(label cardtype.Label) string {
	return fmt.Sprintf("cards_%s.txt", strings.ToLower(string(label)))
}
