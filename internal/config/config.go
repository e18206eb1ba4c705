package config

import (
	"time"
)

// Source kinds, in the order their adapters run.
const (
	KindTable  = "table"
	KindInline = "inline"
	KindVenue  = "venue"
)

// Config is the complete application configuration.
type Config struct {
	Sources SourcesConfig `koanf:"sources"`
	Fetch   FetchConfig   `koanf:"fetch"`
	Filter  FilterConfig  `koanf:"filter"`
	Log     LogConfig     `koanf:"log"`
	Server  ServerConfig  `koanf:"server"`
	Mail    MailConfig    `koanf:"mail"`
}

// SourcesConfig holds one block per adapter kind.
type SourcesConfig struct {
	Table  SourceConfig `koanf:"table"`
	Inline SourceConfig `koanf:"inline"`
	Venue  SourceConfig `koanf:"venue"`
}

// SourceConfig describes where one source publishes its listing.
type SourceConfig struct {
	ID           string `koanf:"id" validate:"required_if=Enabled true"`
	URL          string `koanf:"url" validate:"omitempty,url"`
	Enabled      bool   `koanf:"enabled"`
	RowSelector  string `koanf:"row_selector" validate:"required_if=Enabled true"`
	CellSelector string `koanf:"cell_selector"`
}

// NamedSource pairs a source block with its adapter kind.
type NamedSource struct {
	Kind string
	SourceConfig
}

// All returns every source block in adapter order.
func (s SourcesConfig) All() []NamedSource {
	return []NamedSource{
		{Kind: KindTable, SourceConfig: s.Table},
		{Kind: KindInline, SourceConfig: s.Inline},
		{Kind: KindVenue, SourceConfig: s.Venue},
	}
}

// Enabled returns the enabled sources in adapter order.
func (s SourcesConfig) Enabled() []NamedSource {
	all := s.All()
	out := make([]NamedSource, 0, len(all))
	for _, src := range all {
		if src.Enabled {
			out = append(out, src)
		}
	}
	return out
}

// FetchConfig controls HTTP fetching.
type FetchConfig struct {
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	Retries     int           `koanf:"retries" validate:"gte=0,lte=10"`
	Concurrency int           `koanf:"concurrency" validate:"gte=1"`
	CacheTTL    time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	CacheSize   int           `koanf:"cache_size" validate:"gte=0"`
	UserAgent   string        `koanf:"user_agent" validate:"required"`
}

// FilterConfig holds the filter engine's tunables.
type FilterConfig struct {
	PriceTolerance int `koanf:"price_tolerance" validate:"gte=0"`
	LookaheadWeeks int `koanf:"lookahead_weeks" validate:"gte=1,lte=52"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// MailConfig configures summary mails.
type MailConfig struct {
	From    string `koanf:"from" validate:"omitempty,email"`
	Subject string `koanf:"subject" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Table: SourceConfig{
				ID:           "uglkurser",
				URL:          "https://www.uglkurser.se/datumochpriser.php",
				Enabled:      true,
				RowSelector:  "table.ugltable tr",
				CellSelector: "td",
			},
			Inline: SourceConfig{
				ID:           "ugl-inline",
				URL:          "https://www.ugl.nu/kursdatum",
				Enabled:      false,
				RowSelector:  ".kurstillfalle",
				CellSelector: ".falt",
			},
			Venue: SourceConfig{
				ID:           "ugl-venue",
				URL:          "https://www.sigtunahojden.se/ugl",
				Enabled:      false,
				RowSelector:  "ul.kurser li",
				CellSelector: "span",
			},
		},
		Fetch: FetchConfig{
			Timeout:     20 * time.Second,
			Retries:     2,
			Concurrency: 3,
			CacheTTL:    10 * time.Minute,
			CacheSize:   32,
			UserAgent:   "ugl-courses/1.0 (github.com/pfrederiksen/ugl-courses)",
		},
		Filter: FilterConfig{
			PriceTolerance: 500,
			LookaheadWeeks: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Mail: MailConfig{
			Subject: "UGL-kurser",
		},
	}
}
