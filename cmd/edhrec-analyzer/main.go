package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mtgbrew/edhrec-analyzer/internal/cardtype"
	"github.com/mtgbrew/edhrec-analyzer/internal/config"
	"github.com/mtgbrew/edhrec-analyzer/internal/deckcache"
	"github.com/mtgbrew/edhrec-analyzer/internal/edhrec"
	"github.com/mtgbrew/edhrec-analyzer/internal/export"
	"github.com/mtgbrew/edhrec-analyzer/internal/pipeline"
	"github.com/mtgbrew/edhrec-analyzer/internal/scryfall"
	"github.com/mtgbrew/edhrec-analyzer/internal/suggest"
)

var (
	// Run parameters. Anything left unset falls back to the config file
	// and then to an interactive prompt.
	commanderName = flag.String("commander", "", "Commander name (overrides the config file)")
	recentCount   = flag.Int("recent", 0, "Number of recent decks to use")
	minPrice      = flag.Float64("min-price", -1, "Minimum deck price")
	maxPrice      = flag.Float64("max-price", -1, "Maximum deck price")

	// Behavior flags
	configPath      = flag.String("config", config.DefaultPath, "Path to the TOML config file")
	noChart         = flag.Bool("no-chart", false, "Skip rendering the HTML card count chart")
	withSuggestions = flag.Bool("suggestions", false, "Also export EDHREC per-category suggestions")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	stdin := bufio.NewReader(os.Stdin)

	commander := resolveCommander(cfg, stdin)
	criteria := resolveCriteria(cfg, stdin)

	cacheDir := cfg.Cache.Dir
	store, err := deckcache.NewStore(filepath.Join(cacheDir, "deck_cache"))
	if err != nil {
		log.Fatalf("Failed to open deck cache: %v", err)
	}

	scry := scryfall.NewClient()
	classifier := cardtype.NewClassifier(filepath.Join(cacheDir, "card_type_cache.json"), scry)

	client := edhrec.NewClient()
	writer := export.NewWriter(cfg.Output.Dir)

	p := &pipeline.Pipeline{
		Source:     client,
		Store:      store,
		Classifier: classifier,
		Writer:     writer,
	}

	ctx := context.Background()

	summary, err := p.Run(ctx, pipeline.Options{
		Commander: commander,
		Criteria:  criteria,
		WithChart: !*noChart,
		ChartTop:  cfg.Output.ChartTop,
	})
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	printSummary(summary)

	if *withSuggestions {
		exporter := suggest.NewExporter(client, cfg.Output.Dir)
		written, err := exporter.Export(ctx, summary.Slug)
		if err != nil {
			log.Fatalf("Suggestions export failed: %v", err)
		}
		fmt.Printf("Suggestions: %d categories written\n", written)
	}
}

// resolveCommander picks the commander name: flag, then config file, then
// interactive prompt.
func resolveCommander(cfg *config.Config, stdin *bufio.Reader) string {
	if *commanderName != "" {
		return *commanderName
	}
	if cfg.Commander.Name != "" {
		return cfg.Commander.Name
	}
	return promptString(stdin, "Commander name?: ")
}

// resolveCriteria picks the deck filter values: flags, then config file,
// then interactive prompts.
func resolveCriteria(cfg *config.Config, stdin *bufio.Reader) edhrec.FilterCriteria {
	criteria := edhrec.FilterCriteria{
		RecentCount: *recentCount,
		MinPrice:    *minPrice,
		MaxPrice:    *maxPrice,
	}

	if criteria.RecentCount <= 0 {
		criteria.RecentCount = cfg.Filters.Recent
	}
	if criteria.RecentCount <= 0 {
		criteria.RecentCount = promptInt(stdin, "How many recent decks to use?: ")
	}

	if criteria.MinPrice < 0 {
		if cfg.Filters.MinPrice > 0 {
			criteria.MinPrice = cfg.Filters.MinPrice
		} else {
			criteria.MinPrice = promptFloat(stdin, "Minimum deck price?: ")
		}
	}

	if criteria.MaxPrice < 0 {
		if cfg.Filters.MaxPrice > 0 {
			criteria.MaxPrice = cfg.Filters.MaxPrice
		} else {
			criteria.MaxPrice = promptFloat(stdin, "Maximum deck price?: ")
		}
	}

	return criteria
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("\nCommander: %s (%s)\n", s.Commander, s.Slug)
	fmt.Printf("Decks: %d selected, %d used, %d skipped\n", s.DecksSelected, s.DecksUsed, len(s.Skipped))
	for _, skipped := range s.Skipped {
		fmt.Printf("  skipped %s: %s\n", skipped.ID, skipped.Reason)
	}
	fmt.Printf("Cards: %d distinct, %d unclassified, %d type lookups\n", s.DistinctCards, s.Unclassified, s.TypeLookups)
	fmt.Printf("Output: %s\n", s.OutputDir)
}

func promptString(stdin *bufio.Reader, prompt string) string {
	for {
		fmt.Print(prompt)
		line, err := stdin.ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		if value := strings.TrimSpace(line); value != "" {
			return value
		}
	}
}

func promptInt(stdin *bufio.Reader, prompt string) int {
	for {
		value, err := strconv.Atoi(promptString(stdin, prompt))
		if err == nil && value > 0 {
			return value
		}
		fmt.Println("Enter a positive whole number.")
	}
}

func promptFloat(stdin *bufio.Reader, prompt string) float64 {
	for {
		value, err := strconv.ParseFloat(promptString(stdin, prompt), 64)
		if err == nil && value >= 0 {
			return value
		}
		fmt.Println("Enter a non-negative number.")
	}
}
