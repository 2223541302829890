package edhrec

import (
	"fmt"
	"sort"
	"time"
)

const saveDateLayout = "2006-01-02"

// FilterCriteria bounds which decks from a commander's table are included
// in a run: the most recent RecentCount decks whose reported price falls
// inside [MinPrice, MaxPrice].
type FilterCriteria struct {
	RecentCount int
	MinPrice    float64
	MaxPrice    float64
}

// Validate checks the criteria for internal consistency.
func (c FilterCriteria) Validate() error {
	if c.RecentCount <= 0 {
		return fmt.Errorf("recent deck count must be positive, got %d", c.RecentCount)
	}
	if c.MinPrice < 0 {
		return fmt.Errorf("minimum price must not be negative, got %v", c.MinPrice)
	}
	if c.MaxPrice < c.MinPrice {
		return fmt.Errorf("maximum price %v is below minimum price %v", c.MaxPrice, c.MinPrice)
	}
	return nil
}

// SelectDecks filters a deck table down to an ordered list of deck URL
// hashes: newest save date first, priced within the criteria's range,
// truncated to RecentCount. Fewer qualifying decks than requested is not
// an error; the smaller set is returned.
func SelectDecks(table *DeckTablePage, criteria FilterCriteria) []string {
	entries := make([]DeckSummary, len(table.Table))
	copy(entries, table.Table)

	sort.SliceStable(entries, func(i, j int) bool {
		return parseSaveDate(entries[i].SaveDate).After(parseSaveDate(entries[j].SaveDate))
	})

	hashes := make([]string, 0, criteria.RecentCount)
	for _, e := range entries {
		if e.Price < criteria.MinPrice || e.Price > criteria.MaxPrice {
			continue
		}
		hashes = append(hashes, e.URLHash)
		if len(hashes) == criteria.RecentCount {
			break
		}
	}

	return hashes
}

// parseSaveDate parses a deck's save date. Unparseable dates sort last.
func parseSaveDate(s string) time.Time {
	t, err := time.Parse(saveDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
