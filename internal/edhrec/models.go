package edhrec

// DeckTablePage represents the response from the decks endpoint.
type DeckTablePage struct {
	Table  []DeckSummary `json:"table"`
	Header string        `json:"header"`
}

// DeckSummary is one row of a commander's deck table.
type DeckSummary struct {
	URLHash  string  `json:"urlhash"`
	Price    float64 `json:"price"`
	SaveDate string  `json:"savedate"` // YYYY-MM-DD
	Tags     string  `json:"tags"`
}

// DeckPreviewPage represents the response from the deck preview endpoint.
type DeckPreviewPage struct {
	PageProps DeckPageProps `json:"pageProps"`
}

// DeckPageProps holds the nested deck preview payload.
type DeckPageProps struct {
	Data *DeckPreviewData `json:"data"`
}

// DeckPreviewData contains the raw deck lines, one "<qty> <name>" per entry.
type DeckPreviewData struct {
	Deck []string `json:"deck"`
}

// CommanderPage represents the response from the commander endpoint.
type CommanderPage struct {
	Container *Container `json:"container"`
	Header    string     `json:"header"`
}

// Container holds the main data structure of a commander page.
type Container struct {
	JSONDict *JSONDict `json:"json_dict"`
	Title    string    `json:"title"`
}

// JSONDict contains the categorized card lists.
type JSONDict struct {
	CardLists []*CardList `json:"cardlists"`
}

// CardList represents one recommendation category.
type CardList struct {
	Tag       string      `json:"tag"`
	Header    string      `json:"header"`
	CardViews []*CardView `json:"cardviews"`
}

// CardView represents a recommended card with inclusion statistics.
type CardView struct {
	Name           string  `json:"name"`
	Sanitized      string  `json:"sanitized"`
	Synergy        float64 `json:"synergy"`
	Inclusion      int     `json:"inclusion"`
	NumDecks       int     `json:"num_decks"`
	PotentialDecks int     `json:"potential_decks"`
}
