// Package config loads solver settings from a YAML (or JSON) file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultMaximumWordCount = 10

// Environment overrides.
const (
	EnvPhrase   = "ANAGRAM_PHRASE"
	EnvChecksum = "ANAGRAM_CHECKSUM"
	EnvMaxWords = "ANAGRAM_MAX_WORDS"
	EnvWordList = "ANAGRAM_WORDLIST"
	EnvDigest   = "ANAGRAM_DIGEST"
)

type Config struct {
	Anagram  string `yaml:"anagram" validate:"required"`
	Checksum string `yaml:"checksum" validate:"required"`
	// MD5Checksum is accepted for config files written before the digest
	// became selectable. Checksum wins when both are set.
	MD5Checksum string `yaml:"md5Checksum"`
	Digest      string `yaml:"digest" validate:"omitempty,oneof=md5 sha1 sha256"`

	MaximumWordCount int `yaml:"maximumWordCount" validate:"gte=1"`

	WordListFilePath string `yaml:"wordListFilePath" validate:"required_without=BigQueryTable"`
	FoldAccents      bool   `yaml:"foldAccents"`

	BigQueryProject string `yaml:"bigQueryProject" validate:"required_with=BigQueryTable"`
	BigQueryTable   string `yaml:"bigQueryTable"`
	BigQueryColumn  string `yaml:"bigQueryColumn"`
}

var validate = validator.New()

// Load reads the config file at path, then applies envFile (if it exists) and
// the process environment on top. An empty path skips the file.
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// lookupEnv treats empty variables as unset.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv(EnvPhrase); ok {
		c.Anagram = v
	}
	if v, ok := lookupEnv(EnvChecksum); ok {
		c.Checksum = v
	}
	if v, ok := lookupEnv(EnvWordList); ok {
		c.WordListFilePath = v
	}
	if v, ok := lookupEnv(EnvDigest); ok {
		c.Digest = v
	}
	if v, ok := lookupEnv(EnvMaxWords); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxWords, err)
		}
		c.MaximumWordCount = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Checksum == "" {
		c.Checksum = c.MD5Checksum
	}
	if c.MaximumWordCount == 0 {
		c.MaximumWordCount = DefaultMaximumWordCount
	}
}

// Validate reports missing or inconsistent settings. The checksum format is
// not checked: a malformed checksum just never matches.
func (c *Config) Validate() error {
	c.applyDefaults()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
