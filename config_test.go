package fulltext

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Stemming || opts.CaseSensitive || opts.Segmentation != SegmentLatin {
		t.Errorf("Options() = %+v, want stemming, case insensitive, latin segmentation", opts)
	}
	if _, ok := opts.Stemmer.(PorterStemmer); !ok {
		t.Errorf("default stemmer = %T, want PorterStemmer", opts.Stemmer)
	}
	if cfg.Index.GateTimeout != 5*time.Second {
		t.Errorf("GateTimeout = %v, want 5s", cfg.Index.GateTimeout)
	}
	if cfg.Scoring.CorpusSize != DefaultCorpusSize {
		t.Errorf("CorpusSize = %d, want %d", cfg.Scoring.CorpusSize, DefaultCorpusSize)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
tokenizer:
  caseSensitive: true
  language: french
  segmentation: unicode
fuzzy:
  errors: 2
index:
  stopWords: [le, la]
  gateTimeout: 250ms
logging:
  format: json
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if !cfg.Tokenizer.CaseSensitive {
		t.Error("caseSensitive not parsed")
	}
	if !cfg.Tokenizer.Stemming {
		t.Error("unset fields should keep their defaults")
	}
	if cfg.Fuzzy.Errors != 2 {
		t.Errorf("Fuzzy.Errors = %d, want 2", cfg.Fuzzy.Errors)
	}
	if !slices.Equal(cfg.Index.StopWords, []string{"le", "la"}) {
		t.Errorf("StopWords = %v, want [le la]", cfg.Index.StopWords)
	}
	if cfg.Index.GateTimeout != 250*time.Millisecond {
		t.Errorf("GateTimeout = %v, want 250ms", cfg.Index.GateTimeout)
	}
	if cfg.Index.BatchWorkers != 4 {
		t.Errorf("BatchWorkers = %d, want 4", cfg.Index.BatchWorkers)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Segmentation != SegmentUnicode {
		t.Errorf("Segmentation = %v, want SegmentUnicode", opts.Segmentation)
	}
	if _, ok := opts.Stemmer.(snowballStemmer); !ok {
		t.Errorf("french stemmer = %T, want snowballStemmer", opts.Stemmer)
	}
}

func TestParseConfigMalformed(t *testing.T) {
	if _, err := ParseConfig([]byte("tokenizer: [unbalanced")); err == nil {
		t.Error("malformed YAML parsed without error")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FT_CASE_SENSITIVE", "true")
	t.Setenv("FT_STEMMING", "false")
	t.Setenv("FT_LANGUAGE", "klingon")
	t.Setenv("FT_FUZZY_ERRORS", "3")
	t.Setenv("FT_CORPUS_SIZE", "1000")
	t.Setenv("FT_STOP_WORDS", "a,the")
	t.Setenv("FT_GATE_TIMEOUT", "2s")
	t.Setenv("FT_LOGGING_LEVEL", "debug")
	t.Setenv("FT_DIACRITICS", "not-a-bool")
	t.Setenv("FT_WILDCARDS", "true")

	// the unknown language is accepted because stemming is off
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.Tokenizer.CaseSensitive || cfg.Tokenizer.Stemming || !cfg.Tokenizer.Wildcards {
		t.Errorf("Tokenizer = %+v, want case sensitive, wildcards, no stemming", cfg.Tokenizer)
	}
	if cfg.Tokenizer.Diacritics {
		t.Error("unparsable values should be ignored")
	}
	if cfg.Fuzzy.Errors != 3 || cfg.Scoring.CorpusSize != 1000 {
		t.Errorf("Fuzzy.Errors, CorpusSize = %d, %d, want 3, 1000", cfg.Fuzzy.Errors, cfg.Scoring.CorpusSize)
	}
	if !slices.Equal(cfg.Index.StopWords, []string{"a", "the"}) {
		t.Errorf("StopWords = %v, want [a the]", cfg.Index.StopWords)
	}
	if cfg.Index.GateTimeout != 2*time.Second {
		t.Errorf("GateTimeout = %v, want 2s", cfg.Index.GateTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fulltext.yaml")
	if err := os.WriteFile(path, []byte("scoring:\n  corpusSize: 42\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FT_CORPUS_SIZE", "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scoring.CorpusSize != 42 {
		t.Errorf("CorpusSize = %d, want 42", cfg.Scoring.CorpusSize)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded without error")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown language", func(c *Config) { c.Tokenizer.Language = "klingon" }},
		{"unknown segmentation", func(c *Config) { c.Tokenizer.Segmentation = "thai" }},
		{"negative errors", func(c *Config) { c.Fuzzy.Errors = -1 }},
		{"negative corpus", func(c *Config) { c.Scoring.CorpusSize = -5 }},
		{"negative timeout", func(c *Config) { c.Index.GateTimeout = -time.Second }},
		{"negative workers", func(c *Config) { c.Index.BatchWorkers = -1 }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Tokenizer.Language = "klingon"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Validate() error = %v, want %v", err, ErrUnknownLanguage)
	}
}
