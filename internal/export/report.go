package export

import (
	"fmt"
	"path/filepath"

	"github.com/mtgbrew/edhrec-analyzer/internal/aggregate"
	"github.com/mtgbrew/edhrec-analyzer/internal/charts"
)

// WriteChart renders a bar chart of the top master-table cards to
// card_counts.html in the run directory. topN bounds how many cards the
// chart shows; 0 or a value beyond the table size shows everything.
func (w *Writer) WriteChart(dir, commander string, counts map[string]int, topN int) error {
	entries := aggregate.SortedEntries(counts)
	if topN > 0 && topN < len(entries) {
		entries = entries[:topN]
	}

	data := make([]charts.DataPoint, len(entries))
	for i, e := range entries {
		data[i] = charts.DataPoint{Label: e.Name, Value: float64(e.Count)}
	}

	config := charts.DefaultChartConfig()
	config.Title = fmt.Sprintf("Top cards: %s", commander)
	config.Subtitle = "Total copies across included decks"
	config.SeriesName = "Copies"

	path := filepath.Join(dir, "card_counts.html")
	if err := charts.RenderBarChart(data, config, path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
