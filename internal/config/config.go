package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/uniconv/internal/convergence"
)

const (
	DefaultSequence = "inverse"
	DefaultStart    = 0.0
	DefaultEnd      = 1.0
)

type Config struct {
	Sequence   string       `yaml:"sequence"`
	Domain     DomainConfig `yaml:"domain"`
	Search     SearchConfig `yaml:"search"`
	PointsFile string       `yaml:"points_file,omitempty"`
}

type DomainConfig struct {
	Start  float64 `yaml:"start"`
	End    float64 `yaml:"end"`
	Points int     `yaml:"points"`
}

type SearchConfig struct {
	Epsilon  float64 `yaml:"epsilon"`
	MaxN     int     `yaml:"max_n"`
	Strategy string  `yaml:"strategy"`
}

func DefaultConfig() *Config {
	return &Config{
		Sequence: DefaultSequence,
		Domain: DomainConfig{
			Start:  DefaultStart,
			End:    DefaultEnd,
			Points: convergence.DefaultPoints,
		},
		Search: SearchConfig{
			Epsilon:  convergence.DefaultEpsilon,
			MaxN:     convergence.DefaultMaxN,
			Strategy: string(convergence.StrategyBisect),
		},
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values the analyzer would otherwise reject.
func (c *Config) Validate() error {
	if c.Domain.Points < 2 {
		return fmt.Errorf("domain.points must be at least 2, got %d", c.Domain.Points)
	}
	if c.Search.MaxN < 1 {
		return fmt.Errorf("search.max_n must be at least 1, got %d", c.Search.MaxN)
	}
	if math.IsNaN(c.Search.Epsilon) {
		return fmt.Errorf("search.epsilon is NaN")
	}
	if _, err := convergence.ParseStrategy(c.Search.Strategy); err != nil {
		return fmt.Errorf("search.strategy: %w", err)
	}
	return nil
}

// SearchConfig converts the search section for the analyzer.
func (c *Config) SearchConfig() convergence.SearchConfig {
	strategy, _ := convergence.ParseStrategy(c.Search.Strategy)
	return convergence.SearchConfig{
		Epsilon:  c.Search.Epsilon,
		MaxN:     c.Search.MaxN,
		Strategy: strategy,
	}
}

// NewAnalyzer builds an analyzer over the configured domain.
func (c *Config) NewAnalyzer() (*convergence.Analyzer, error) {
	return convergence.New(c.Domain.Start, c.Domain.End, c.Domain.Points)
}
