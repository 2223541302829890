package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "config.toml"

// Config represents the application configuration.
type Config struct {
	// Commander selection
	Commander CommanderConfig `toml:"commander"`

	// Deck filter defaults
	Filters FilterConfig `toml:"filters"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// Output configuration
	Output OutputConfig `toml:"output"`
}

// CommanderConfig names the commander a run analyzes when no -commander
// flag is given.
type CommanderConfig struct {
	Name string `toml:"name"`
}

// FilterConfig contains default deck filter values. Zero values mean
// "unset" and fall back to interactive prompts.
type FilterConfig struct {
	Recent   int     `toml:"recent"`    // Number of recent decks to use
	MinPrice float64 `toml:"min_price"` // Minimum deck price
	MaxPrice float64 `toml:"max_price"` // Maximum deck price
}

// CacheConfig contains local cache settings.
type CacheConfig struct {
	Dir string `toml:"dir"` // Cache root directory
}

// OutputConfig contains output settings.
type OutputConfig struct {
	Dir      string `toml:"dir"`       // Output root directory
	ChartTop int    `toml:"chart_top"` // Cards shown in the report chart
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Commander: CommanderConfig{
			Name: "",
		},
		Filters: FilterConfig{
			Recent:   0,
			MinPrice: 0,
			MaxPrice: 0,
		},
		Cache: CacheConfig{
			Dir: "cache",
		},
		Output: OutputConfig{
			Dir:      "output",
			ChartTop: 25,
		},
	}
}

// Load loads the configuration from path. Returns default config if the
// file doesn't exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Save saves the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Filters.Recent < 0 {
		return fmt.Errorf("invalid recent deck count %d: must not be negative", c.Filters.Recent)
	}
	if c.Filters.MinPrice < 0 {
		return fmt.Errorf("invalid minimum price %v: must not be negative", c.Filters.MinPrice)
	}
	if c.Filters.MaxPrice != 0 && c.Filters.MaxPrice < c.Filters.MinPrice {
		return fmt.Errorf("invalid price range: max %v below min %v", c.Filters.MaxPrice, c.Filters.MinPrice)
	}
	if c.Output.ChartTop < 0 {
		return fmt.Errorf("invalid chart_top %d: must not be negative", c.Output.ChartTop)
	}
	return nil
}

// applyDefaults fills in zero-valued fields that have non-zero defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaults.Cache.Dir
	}
	if c.Output.Dir == "" {
		c.Output.Dir = defaults.Output.Dir
	}
	if c.Output.ChartTop == 0 {
		c.Output.ChartTop = defaults.Output.ChartTop
	}
}
