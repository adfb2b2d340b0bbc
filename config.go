package fulltext

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of an Index.
type Config struct {
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Fuzzy     FuzzyConfig     `yaml:"fuzzy"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Index     IndexConfig     `yaml:"index"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TokenizerConfig holds the tokenizer flags.
type TokenizerConfig struct {
	CaseSensitive bool `yaml:"caseSensitive"`
	Diacritics    bool `yaml:"diacritics"`
	Stemming      bool `yaml:"stemming"`
	Uppercase     bool `yaml:"uppercase"`
	Lowercase     bool `yaml:"lowercase"`
	Wildcards     bool `yaml:"wildcards"`
	// Language selects the stemmer, see NewStemmer.
	Language string `yaml:"language"`
	// Segmentation is "latin" or "unicode".
	Segmentation string `yaml:"segmentation"`
	// Normalize applies NFKC to documents and queries before tokenizing.
	Normalize bool `yaml:"normalize"`
}

// FuzzyConfig holds the fuzzy matching budget.
type FuzzyConfig struct {
	// Errors is the default edit budget; 0 derives it from the term length.
	Errors int `yaml:"errors"`
}

// ScoringConfig holds scoring parameters.
type ScoringConfig struct {
	// CorpusSize replaces DefaultCorpusSize when positive.
	CorpusSize int `yaml:"corpusSize"`
}

// IndexConfig holds index limits.
type IndexConfig struct {
	StopWords []string `yaml:"stopWords"`
	// GateTimeout bounds the wait for the index gate; 0 waits for the context.
	GateTimeout time.Duration `yaml:"gateTimeout"`
	// BatchWorkers bounds the goroutines tokenizing an AddBatch.
	BatchWorkers int `yaml:"batchWorkers"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration: case insensitive, no
// diacritics, Porter stemming.
func DefaultConfig() *Config {
	return &Config{
		Tokenizer: TokenizerConfig{
			Stemming:     true,
			Language:     "porter",
			Segmentation: "latin",
		},
		Scoring: ScoringConfig{
			CorpusSize: DefaultCorpusSize,
		},
		Index: IndexConfig{
			GateTimeout:  5 * time.Second,
			BatchWorkers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML config file (if path is not empty) over the
// defaults and applies FT_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults. Environment overrides are not
// applied.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides reads FT_* environment variables and overrides the
// corresponding config fields. Unparsable values are ignored.
func applyEnvOverrides(cfg *Config) {
	setBool := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	setBool("FT_CASE_SENSITIVE", &cfg.Tokenizer.CaseSensitive)
	setBool("FT_DIACRITICS", &cfg.Tokenizer.Diacritics)
	setBool("FT_STEMMING", &cfg.Tokenizer.Stemming)
	setBool("FT_WILDCARDS", &cfg.Tokenizer.Wildcards)
	setBool("FT_NORMALIZE", &cfg.Tokenizer.Normalize)
	if v := os.Getenv("FT_LANGUAGE"); v != "" {
		cfg.Tokenizer.Language = v
	}
	if v := os.Getenv("FT_SEGMENTATION"); v != "" {
		cfg.Tokenizer.Segmentation = v
	}
	if v := os.Getenv("FT_FUZZY_ERRORS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fuzzy.Errors = n
		}
	}
	if v := os.Getenv("FT_CORPUS_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.CorpusSize = n
		}
	}
	if v := os.Getenv("FT_STOP_WORDS"); v != "" {
		cfg.Index.StopWords = strings.Split(v, ",")
	}
	if v := os.Getenv("FT_GATE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Index.GateTimeout = d
		}
	}
	if v := os.Getenv("FT_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FT_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	switch {
	case c.Fuzzy.Errors < 0:
		return fmt.Errorf("%w: fuzzy.errors %d is negative", ErrInvalidConfig, c.Fuzzy.Errors)
	case c.Scoring.CorpusSize < 0:
		return fmt.Errorf("%w: scoring.corpusSize %d is negative", ErrInvalidConfig, c.Scoring.CorpusSize)
	case c.Index.GateTimeout < 0:
		return fmt.Errorf("%w: index.gateTimeout %s is negative", ErrInvalidConfig, c.Index.GateTimeout)
	case c.Index.BatchWorkers < 0:
		return fmt.Errorf("%w: index.batchWorkers %d is negative", ErrInvalidConfig, c.Index.BatchWorkers)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// Options converts the tokenizer settings, resolving the stemmer.
func (c *Config) Options() (Options, error) {
	t := c.Tokenizer
	opts := Options{
		CaseSensitive: t.CaseSensitive,
		Diacritics:    t.Diacritics,
		Stemming:      t.Stemming,
		Uppercase:     t.Uppercase,
		Lowercase:     t.Lowercase,
		Wildcards:     t.Wildcards,
	}
	switch strings.ToLower(t.Segmentation) {
	case "", "latin":
		opts.Segmentation = SegmentLatin
	case "unicode":
		opts.Segmentation = SegmentUnicode
	default:
		return Options{}, fmt.Errorf("%w: tokenizer.segmentation %q", ErrInvalidConfig, t.Segmentation)
	}
	if t.Stemming {
		s, err := NewStemmer(t.Language)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		opts.Stemmer = s
	}
	return opts, nil
}
