package glyphmatch

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wbrown/glyphmatch/imageutil"
)

// DefaultScoreScale reproduces the historical "accuracy" figure, which is
// the number of correct predictions times 120, integer-divided by 100.
const DefaultScoreScale = 120

// Config holds everything needed for one evaluation run.
type Config struct {
	// CorpusDir is the directory of labelled glyph images.
	CorpusDir string `yaml:"corpus_dir"`

	// Workers bounds how many queries are classified concurrently.
	Workers int `yaml:"workers"`

	// ScoreScale is the K in score = correct * K / 100.
	ScoreScale int `yaml:"score_scale"`

	// SkipInvalid drops files whose name does not start with a glyph
	// character instead of failing the run.
	SkipInvalid bool `yaml:"skip_invalid"`

	// Loader selects the image decoder: imaging, stdlib or gocv.
	Loader string `yaml:"loader"`

	// CacheDescriptors memoises descriptors across queries.
	CacheDescriptors bool `yaml:"cache_descriptors"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Workers:          1,
		ScoreScale:       DefaultScoreScale,
		Loader:           imageutil.LoaderImaging,
		CacheDescriptors: true,
	}
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the config for a run.
func (c *Config) Validate() error {
	var errs []error
	if c.CorpusDir == "" {
		errs = append(errs, errors.New("corpus_dir is required"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.ScoreScale <= 0 {
		errs = append(errs, fmt.Errorf("score_scale must be > 0, got %d", c.ScoreScale))
	}
	if _, err := imageutil.LoaderByName(c.Loader); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
