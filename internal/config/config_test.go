package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.Dir != "cache" {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, "cache")
	}
	if cfg.Output.Dir != "output" {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, "output")
	}
	if cfg.Output.ChartTop != 25 {
		t.Errorf("Output.ChartTop = %d, want 25", cfg.Output.ChartTop)
	}
	if cfg.Commander.Name != "" {
		t.Errorf("Commander.Name = %q, want empty", cfg.Commander.Name)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[commander]
name = "Krenko, Mob Boss"

[filters]
recent = 20
min_price = 200.0
max_price = 450.0

[output]
chart_top = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Commander.Name != "Krenko, Mob Boss" {
		t.Errorf("Commander.Name = %q", cfg.Commander.Name)
	}
	if cfg.Filters.Recent != 20 || cfg.Filters.MinPrice != 200 || cfg.Filters.MaxPrice != 450 {
		t.Errorf("Filters = %+v", cfg.Filters)
	}
	if cfg.Output.ChartTop != 10 {
		t.Errorf("Output.ChartTop = %d, want 10", cfg.Output.ChartTop)
	}

	// Unset sections still get defaults.
	if cfg.Cache.Dir != "cache" {
		t.Errorf("Cache.Dir = %q, want default", cfg.Cache.Dir)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for malformed TOML")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Commander.Name = "Atraxa, Praetors' Voice"
	cfg.Filters.Recent = 15

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Commander.Name != cfg.Commander.Name {
		t.Errorf("Commander.Name = %q, want %q", loaded.Commander.Name, cfg.Commander.Name)
	}
	if loaded.Filters.Recent != 15 {
		t.Errorf("Filters.Recent = %d, want 15", loaded.Filters.Recent)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative recent",
			mutate:  func(c *Config) { c.Filters.Recent = -1 },
			wantErr: true,
		},
		{
			name:    "negative min price",
			mutate:  func(c *Config) { c.Filters.MinPrice = -5 },
			wantErr: true,
		},
		{
			name: "max below min",
			mutate: func(c *Config) {
				c.Filters.MinPrice = 300
				c.Filters.MaxPrice = 100
			},
			wantErr: true,
		},
		{
			name:    "negative chart top",
			mutate:  func(c *Config) { c.Output.ChartTop = -2 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
