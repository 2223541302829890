package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtgbrew/edhrec-analyzer/internal/cardtype"
	"github.com/mtgbrew/edhrec-analyzer/internal/deckcache"
	"github.com/mtgbrew/edhrec-analyzer/internal/edhrec"
	"github.com/mtgbrew/edhrec-analyzer/internal/export"
)

// fakeSource serves a canned deck table and deck contents, with optional
// per-deck failures.
type fakeSource struct {
	table   *edhrec.DeckTablePage
	decks   map[string][]string
	failing map[string]bool
}

func (f *fakeSource) DeckTable(ctx context.Context, slug string) (*edhrec.DeckTablePage, error) {
	if f.table == nil {
		return nil, &edhrec.NotFoundError{Slug: slug}
	}
	return f.table, nil
}

func (f *fakeSource) FetchDeck(ctx context.Context, deckID string) ([]string, error) {
	if f.failing[deckID] {
		return nil, fmt.Errorf("HTTP 502")
	}
	deck, ok := f.decks[deckID]
	if !ok {
		return nil, fmt.Errorf("unknown deck %s", deckID)
	}
	return deck, nil
}

// fakeTypeLookup serves type lines for the classifier without a network.
type fakeTypeLookup map[string]string

func (f fakeTypeLookup) TypeLine(ctx context.Context, cardName string) (string, error) {
	line, ok := f[cardName]
	if !ok {
		return "", fmt.Errorf("card not found: %s", cardName)
	}
	return line, nil
}

func newTestPipeline(t *testing.T, source *fakeSource, lookup fakeTypeLookup) (*Pipeline, string) {
	t.Helper()

	cacheDir := t.TempDir()
	store, err := deckcache.NewStore(filepath.Join(cacheDir, "deck_cache"))
	require.NoError(t, err)

	classifier := cardtype.NewClassifier(filepath.Join(cacheDir, "card_type_cache.json"), lookup)

	outputRoot := t.TempDir()
	return &Pipeline{
		Source:     source,
		Store:      store,
		Classifier: classifier,
		Writer:     export.NewWriter(outputRoot),
	}, outputRoot
}

func defaultOptions() Options {
	return Options{
		Commander: "Krenko, Mob Boss",
		Criteria:  edhrec.FilterCriteria{RecentCount: 5, MinPrice: 0, MaxPrice: 1000},
	}
}

func TestRun_HappyPath(t *testing.T) {
	source := &fakeSource{
		table: &edhrec.DeckTablePage{Table: []edhrec.DeckSummary{
			{URLHash: "d1", Price: 150, SaveDate: "2024-03-02"},
			{URLHash: "d2", Price: 300, SaveDate: "2024-03-01"},
		}},
		decks: map[string][]string{
			"d1": {"1 Forest", "1 Mr. Orfeo, the Boulder"},
			"d2": {"2 Forest", "1 Putrefy"},
		},
	}
	lookup := fakeTypeLookup{
		"Forest":                "Basic Land — Forest",
		"Mr. Orfeo, the Boulder": "Legendary Creature — Rhino Warrior",
		"Putrefy":               "Instant",
	}

	p, _ := newTestPipeline(t, source, lookup)

	summary, err := p.Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "krenko-mob-boss", summary.Slug)
	assert.Equal(t, 2, summary.DecksSelected)
	assert.Equal(t, 2, summary.DecksUsed)
	assert.Empty(t, summary.Skipped)
	assert.Equal(t, 3, summary.DistinctCards)
	assert.Equal(t, 0, summary.Unclassified)

	data, err := os.ReadFile(filepath.Join(summary.OutputDir, "master_card_counts.txt"))
	require.NoError(t, err)
	assert.Equal(t, "3  Forest\n1  Mr. Orfeo, the Boulder\n1  Putrefy\n", string(data))

	data, err = os.ReadFile(filepath.Join(summary.OutputDir, "cards_land.txt"))
	require.NoError(t, err)
	assert.Equal(t, "3  Forest\n", string(data))

	data, err = os.ReadFile(filepath.Join(summary.OutputDir, "cards_creature.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1  Mr. Orfeo, the Boulder\n", string(data))

	data, err = os.ReadFile(filepath.Join(summary.OutputDir, "cards_instant.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1  Putrefy\n", string(data))

	assert.FileExists(t, filepath.Join(summary.OutputDir, "commander.txt"))
	assert.FileExists(t, filepath.Join(summary.OutputDir, "krenko-mob-boss-decklists.txt"))
}

func TestRun_SkipsFailingDecks(t *testing.T) {
	table := &edhrec.DeckTablePage{}
	decks := make(map[string][]string)
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("d%d", i)
		table.Table = append(table.Table, edhrec.DeckSummary{
			URLHash: id, Price: 100, SaveDate: fmt.Sprintf("2024-03-0%d", 6-i),
		})
		decks[id] = []string{"1 Sol Ring"}
	}

	source := &fakeSource{
		table:   table,
		decks:   decks,
		failing: map[string]bool{"d3": true},
	}
	lookup := fakeTypeLookup{"Sol Ring": "Artifact"}

	p, _ := newTestPipeline(t, source, lookup)

	summary, err := p.Run(context.Background(), defaultOptions())
	require.NoError(t, err, "a single unreachable deck must not abort the run")

	assert.Equal(t, 5, summary.DecksSelected)
	assert.Equal(t, 4, summary.DecksUsed)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "d3", summary.Skipped[0].ID)

	data, err := os.ReadFile(filepath.Join(summary.OutputDir, "master_card_counts.txt"))
	require.NoError(t, err)
	assert.Equal(t, "4  Sol Ring\n", string(data))
}

func TestRun_CommanderNotFound(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeSource{}, fakeTypeLookup{})

	_, err := p.Run(context.Background(), defaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not resolve commander")
}

func TestRun_InvalidCriteria(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeSource{}, fakeTypeLookup{})

	opts := defaultOptions()
	opts.Criteria.RecentCount = 0

	_, err := p.Run(context.Background(), opts)
	require.Error(t, err)
}

func TestRun_UnclassifiedCardsStayInMasterTable(t *testing.T) {
	source := &fakeSource{
		table: &edhrec.DeckTablePage{Table: []edhrec.DeckSummary{
			{URLHash: "d1", Price: 100, SaveDate: "2024-03-01"},
		}},
		decks: map[string][]string{
			"d1": {"1 Totally Unknown Card", "1 Forest"},
		},
	}
	lookup := fakeTypeLookup{"Forest": "Basic Land — Forest"}

	p, _ := newTestPipeline(t, source, lookup)

	summary, err := p.Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unclassified)

	data, err := os.ReadFile(filepath.Join(summary.OutputDir, "master_card_counts.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1  Totally Unknown Card")

	data, err = os.ReadFile(filepath.Join(summary.OutputDir, "cards_unknown.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1  Totally Unknown Card\n", string(data))
}

func TestRun_SecondRunUsesDeckCache(t *testing.T) {
	source := &fakeSource{
		table: &edhrec.DeckTablePage{Table: []edhrec.DeckSummary{
			{URLHash: "d1", Price: 100, SaveDate: "2024-03-01"},
		}},
		decks: map[string][]string{
			"d1": {"1 Forest"},
		},
	}
	lookup := fakeTypeLookup{"Forest": "Basic Land — Forest"}

	p, _ := newTestPipeline(t, source, lookup)

	ctx := context.Background()
	_, err := p.Run(ctx, defaultOptions())
	require.NoError(t, err)

	// Break the remote side; the cached deck must carry the second run.
	source.failing = map[string]bool{"d1": true}

	summary, err := p.Run(ctx, defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DecksUsed)
	assert.Empty(t, summary.Skipped)
}
