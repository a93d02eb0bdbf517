// Package config loads the TOML configuration of the cfgparse command.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the configuration file of cfgparse:
//
//	start = "S"
//	grammar = "grammar.yaml"
//	log_level = "info"
//
//	[lexicon]
//	path = "lexicon.xlsx"
//	sheet = "Sheet1"
//	tag_column = "Tag"
//	words_column = "lexicon"
//	rules_file = "cfg_lexicon_rules.txt"
//
// An empty start keeps the start symbol of the grammar file.
type Config struct {
	Start    string  `toml:"start"`
	Grammar  string  `toml:"grammar"`
	LogLevel string  `toml:"log_level"`
	Lexicon  Lexicon `toml:"lexicon"`
}

// Lexicon describes where the lexicon table comes from and where its rules
// file is written
type Lexicon struct {
	Path        string `toml:"path"`
	Sheet       string `toml:"sheet"`
	TagColumn   string `toml:"tag_column"`
	WordsColumn string `toml:"words_column"`
	RulesFile   string `toml:"rules_file"`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns the configuration used without a config file
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the config file at path. Relative paths in the file are
// resolved against the directory of the file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}

	applyDefaults(&cfg)
	resolvePaths(&cfg, filepath.Dir(path))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Start = strings.TrimSpace(cfg.Start)
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if strings.TrimSpace(cfg.Lexicon.TagColumn) == "" {
		cfg.Lexicon.TagColumn = "Tag"
	}
	if strings.TrimSpace(cfg.Lexicon.WordsColumn) == "" {
		cfg.Lexicon.WordsColumn = "lexicon"
	}
	if strings.TrimSpace(cfg.Lexicon.RulesFile) == "" {
		cfg.Lexicon.RulesFile = "cfg_lexicon_rules.txt"
	}
}

func resolvePaths(cfg *Config, dir string) {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}
	cfg.Grammar = resolve(cfg.Grammar)
	cfg.Lexicon.Path = resolve(cfg.Lexicon.Path)
	cfg.Lexicon.RulesFile = resolve(cfg.Lexicon.RulesFile)
}

// Validate checks the values of cfg
func Validate(cfg *Config) error {
	if strings.ContainsAny(cfg.Start, " \t|") {
		return errors.Errorf("config: invalid start symbol %q", cfg.Start)
	}
	if !logLevels[cfg.LogLevel] {
		return errors.Errorf("config: unknown log_level %q", cfg.LogLevel)
	}
	if cfg.Lexicon.TagColumn == cfg.Lexicon.WordsColumn {
		return errors.Errorf("config: tag_column and words_column are both %q", cfg.Lexicon.TagColumn)
	}
	return nil
}
