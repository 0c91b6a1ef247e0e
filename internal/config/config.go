package config

import (
	"fmt"
	"os"

	"github.com/IbaiO/weka-lab/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the configuration shared by the command-line tools.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Search  SearchConfig  `yaml:"search"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// DataConfig controls how datasets are loaded.
type DataConfig struct {
	// ClassAttribute names the label when the file does not set one. Empty
	// selects the last attribute.
	ClassAttribute string `yaml:"class_attribute"`
}

// SearchConfig controls the nearest-neighbour grid search.
type SearchConfig struct {
	Folds    int   `yaml:"folds"`
	Seed     int64 `yaml:"seed"`
	MaxK     int   `yaml:"max_k"`
	Workers  int   `yaml:"workers"`
	Progress bool  `yaml:"progress"`
}

// ReportConfig controls the cross-validation report.
type ReportConfig struct {
	Classifier string `yaml:"classifier"`
	Folds      int    `yaml:"folds"`
	Seed       int64  `yaml:"seed"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type OutputConfig struct {
	// Bundle is where the grid-search result bundle is saved. Empty disables it.
	Bundle string `yaml:"bundle"`
}

func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Folds:    10,
			Seed:     1,
			Workers:  1,
			Progress: true,
		},
		Report: ReportConfig{
			Classifier: "naive_bayes",
			Folds:      5,
			Seed:       1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig overlays the YAML file at path on the defaults. An empty path or
// a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Search.Folds < 2 {
		return fmt.Errorf("search.folds must be at least 2, got %d", c.Search.Folds)
	}
	if c.Search.MaxK < 0 {
		return fmt.Errorf("search.max_k must not be negative, got %d", c.Search.MaxK)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be at least 1, got %d", c.Search.Workers)
	}
	if c.Report.Folds < 2 {
		return fmt.Errorf("report.folds must be at least 2, got %d", c.Report.Folds)
	}
	if _, err := models.CanonicalAlgorithm(c.Report.Classifier); err != nil {
		return fmt.Errorf("report.classifier: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
