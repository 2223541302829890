// Package pipeline orchestrates one analysis run: resolve the commander,
// select and fetch decks, aggregate and classify cards, and write the
// output files.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mtgbrew/edhrec-analyzer/internal/aggregate"
	"github.com/mtgbrew/edhrec-analyzer/internal/cardtype"
	"github.com/mtgbrew/edhrec-analyzer/internal/deckcache"
	"github.com/mtgbrew/edhrec-analyzer/internal/edhrec"
	"github.com/mtgbrew/edhrec-analyzer/internal/export"
)

// DeckSource provides a commander's deck table and individual deck
// contents. Satisfied by *edhrec.Client.
type DeckSource interface {
	DeckTable(ctx context.Context, slug string) (*edhrec.DeckTablePage, error)
	FetchDeck(ctx context.Context, deckID string) ([]string, error)
}

// DeckStore caches deck contents between runs. Satisfied by
// *deckcache.Store.
type DeckStore interface {
	GetOrFetch(ctx context.Context, deckID string, fetch deckcache.FetchFunc) ([]string, error)
}

// Pipeline wires the run's collaborators. Construct one per run and
// thread it through explicitly; there is no ambient global state.
type Pipeline struct {
	Source     DeckSource
	Store      DeckStore
	Classifier *cardtype.Classifier
	Writer     *export.Writer
}

// Options are the per-run inputs.
type Options struct {
	Commander string
	Criteria  edhrec.FilterCriteria
	WithChart bool
	ChartTop  int
}

// SkippedDeck records one deck dropped from the run and why.
type SkippedDeck struct {
	ID     string
	Reason string
}

// Summary reports what a run did. Per-deck failures and unclassified
// cards surface here rather than aborting the run.
type Summary struct {
	Commander     string
	Slug          string
	DecksSelected int
	DecksUsed     int
	Skipped       []SkippedDeck
	DistinctCards int
	Unclassified  int
	TypeLookups   int
	OutputDir     string
}

// Run executes the full decklist pipeline. Only commander resolution and
// output-write failures abort the run; a deck that cannot be fetched is
// skipped and reported in the summary.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.Criteria.Validate(); err != nil {
		return nil, err
	}

	slug := edhrec.Slugify(opts.Commander)
	summary := &Summary{Commander: opts.Commander, Slug: slug}

	table, err := p.Source.DeckTable(ctx, slug)
	if err != nil {
		if edhrec.IsNotFound(err) {
			return nil, fmt.Errorf("could not resolve commander %q: %w", opts.Commander, err)
		}
		return nil, fmt.Errorf("failed to fetch deck table for %q: %w", opts.Commander, err)
	}

	deckIDs := edhrec.SelectDecks(table, opts.Criteria)
	summary.DecksSelected = len(deckIDs)
	log.Printf("[pipeline] Selected %d of %d decks for %s", len(deckIDs), len(table.Table), slug)

	dir, err := p.Writer.CleanRunDir(slug)
	if err != nil {
		return nil, err
	}
	summary.OutputDir = dir

	// Decks are fetched one at a time. Correctness and politeness toward
	// the source service outweigh throughput at this request volume.
	var decks [][]string
	var usedIDs []string
	for _, deckID := range deckIDs {
		cards, err := p.Store.GetOrFetch(ctx, deckID, p.Source.FetchDeck)
		if err != nil {
			log.Printf("[pipeline] Skipping deck %s: %v", deckID, err)
			summary.Skipped = append(summary.Skipped, SkippedDeck{ID: deckID, Reason: err.Error()})
			continue
		}
		decks = append(decks, cards)
		usedIDs = append(usedIDs, deckID)
	}
	summary.DecksUsed = len(usedIDs)

	counts := aggregate.CountCards(decks)
	summary.DistinctCards = len(counts)

	parts := aggregate.GroupByType(ctx, counts, p.Classifier)
	summary.Unclassified = len(parts[cardtype.LabelUnknown])
	summary.TypeLookups = p.Classifier.Lookups()

	if err := p.Classifier.Save(); err != nil {
		log.Printf("[pipeline] Failed to persist card type cache: %v", err)
	}

	if err := p.Writer.WriteMasterCounts(dir, counts); err != nil {
		return nil, err
	}
	if err := p.Writer.WriteTypePartitions(dir, parts); err != nil {
		return nil, err
	}
	if err := p.Writer.WriteDecklists(dir, slug, decks); err != nil {
		return nil, err
	}

	meta := export.RunMetadata{
		Commander: opts.Commander,
		Criteria:  opts.Criteria,
		DeckIDs:   usedIDs,
		Timestamp: time.Now(),
	}
	if err := p.Writer.WriteRunMetadata(dir, meta); err != nil {
		return nil, err
	}

	if opts.WithChart {
		if err := p.Writer.WriteChart(dir, opts.Commander, counts, opts.ChartTop); err != nil {
			return nil, err
		}
	}

	return summary, nil
}
