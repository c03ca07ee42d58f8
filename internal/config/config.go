// Package config loads layered configuration: hardcoded defaults, the
// user config file, the project config file, then PAWMATCH_*
// environment variables, each layer overriding the last.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the complete PawMatch configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Data       DataConfig       `yaml:"data" json:"data"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	NER        NERConfig        `yaml:"ner" json:"ner"`
	Sessions   SessionsConfig   `yaml:"sessions" json:"sessions"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// DataConfig locates the pet catalog.
type DataConfig struct {
	// CSVPath is the path to the pet catalog CSV.
	CSVPath string `yaml:"csv_path" json:"csv_path"`
}

// SearchConfig tunes hybrid retrieval and relaxation.
type SearchConfig struct {
	// LexWeight is the BM25 share of the hybrid score (0.0-1.0).
	// Must sum to 1.0 with DenseWeight.
	LexWeight float64 `yaml:"lex_weight" json:"lex_weight"`

	// DenseWeight is the embedding share of the hybrid score.
	DenseWeight float64 `yaml:"dense_weight" json:"dense_weight"`

	// TopK is how many result cards a reply carries.
	TopK int `yaml:"top_k" json:"top_k"`

	// RelaxFloor is the minimum candidate pool before relaxation
	// stops loosening constraints.
	RelaxFloor int `yaml:"relax_floor" json:"relax_floor"`

	// LexPool is the BM25 retrieval depth.
	LexPool int `yaml:"lex_pool" json:"lex_pool"`

	// DensePool is the dense retrieval depth.
	DensePool int `yaml:"dense_pool" json:"dense_pool"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "http", "static", or "auto" (probe then fall back).
	Provider string `yaml:"provider" json:"provider"`

	// Endpoint is the embedding service URL.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Model is the model name requested from the service.
	Model string `yaml:"model" json:"model"`

	// Dimensions is the embedding dimension. 0 auto-detects from the
	// chosen provider.
	Dimensions int `yaml:"dimensions" json:"dimensions"`

	// CacheSize bounds the query embedding LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// NERConfig configures the entity extraction service.
type NERConfig struct {
	// Endpoint is the NER service URL. Empty disables the model and
	// extraction runs on rules alone.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// MinConfidence drops model spans scored below it.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`
}

// SessionsConfig configures session persistence.
type SessionsConfig struct {
	// Path is the SQLite session database file.
	Path string `yaml:"path" json:"path"`

	// Persist enables saving sessions across restarts.
	Persist bool `yaml:"persist" json:"persist"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`

	// FilePath is the log file. Empty logs to stderr only.
	FilePath string `yaml:"file_path" json:"file_path"`
}

// NewConfig returns the hardcoded defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Data: DataConfig{
			CSVPath: "pets.csv",
		},
		Search: SearchConfig{
			// Tuned production weights: the dense leg dominates, BM25
			// breaks ties on literal matches.
			LexWeight:   0.1,
			DenseWeight: 0.9,
			TopK:        6,
			RelaxFloor:  6,
			LexPool:     2000,
			DensePool:   1000,
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "auto",
			Endpoint:  "http://localhost:8091/embed",
			Model:     "all-MiniLM-L6-v2",
			CacheSize: 1000,
		},
		NER: NERConfig{
			Endpoint:      "http://localhost:8092/ner",
			MinConfidence: 0.5,
		},
		Sessions: SessionsConfig{
			Path:    defaultSessionsPath(),
			Persist: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultSessionsPath returns the default session database file.
func defaultSessionsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".pawmatch", "sessions.db")
	}
	return filepath.Join(home, ".pawmatch", "sessions.db")
}

// GetUserConfigPath returns the user/global config file path,
// following the XDG base directory convention.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pawmatch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "pawmatch", "config.yaml")
	}
	return filepath.Join(home, ".config", "pawmatch", "config.yaml")
}

// Load builds the configuration for a project directory, applying in
// order of increasing precedence:
//  1. hardcoded defaults
//  2. user config (~/.config/pawmatch/config.yaml)
//  3. project config (.pawmatch.yaml in dir)
//  4. PAWMATCH_* environment variables
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
	}

	if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromDir loads .pawmatch.yaml (or .yml) from the directory when
// present. Absence is fine.
func (c *Config) loadFromDir(dir string) error {
	for _, name := range []string{".pawmatch.yaml", ".pawmatch.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

// loadYAML parses a YAML file and merges its non-zero values.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero values from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Data.CSVPath != "" {
		c.Data.CSVPath = other.Data.CSVPath
	}

	if other.Search.LexWeight != 0 {
		c.Search.LexWeight = other.Search.LexWeight
	}
	if other.Search.DenseWeight != 0 {
		c.Search.DenseWeight = other.Search.DenseWeight
	}
	if other.Search.TopK != 0 {
		c.Search.TopK = other.Search.TopK
	}
	if other.Search.RelaxFloor != 0 {
		c.Search.RelaxFloor = other.Search.RelaxFloor
	}
	if other.Search.LexPool != 0 {
		c.Search.LexPool = other.Search.LexPool
	}
	if other.Search.DensePool != 0 {
		c.Search.DensePool = other.Search.DensePool
	}

	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Endpoint != "" {
		c.Embeddings.Endpoint = other.Embeddings.Endpoint
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.Dimensions != 0 {
		c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}

	if other.NER.Endpoint != "" {
		c.NER.Endpoint = other.NER.Endpoint
	}
	if other.NER.MinConfidence != 0 {
		c.NER.MinConfidence = other.NER.MinConfidence
	}

	if other.Sessions.Path != "" {
		c.Sessions.Path = other.Sessions.Path
	}
	if other.Sessions.Persist {
		c.Sessions.Persist = true
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
}

// applyEnvOverrides applies PAWMATCH_* environment variables, the
// highest-precedence layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PAWMATCH_DATA_CSV"); v != "" {
		c.Data.CSVPath = v
	}
	if v := os.Getenv("PAWMATCH_LEX_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.LexWeight = f
		}
	}
	if v := os.Getenv("PAWMATCH_DENSE_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.DenseWeight = f
		}
	}
	if v := os.Getenv("PAWMATCH_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.TopK = n
		}
	}
	if v := os.Getenv("PAWMATCH_RELAX_FLOOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.RelaxFloor = n
		}
	}
	if v := os.Getenv("PAWMATCH_EMBED_ENDPOINT"); v != "" {
		c.Embeddings.Endpoint = v
	}
	if v := os.Getenv("PAWMATCH_NER_ENDPOINT"); v != "" {
		c.NER.Endpoint = v
	}
	if v := os.Getenv("PAWMATCH_SESSIONS_PATH"); v != "" {
		c.Sessions.Path = v
	}
	if v := os.Getenv("PAWMATCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Data.CSVPath == "" {
		return fmt.Errorf("data.csv_path must not be empty")
	}
	if c.Search.LexWeight < 0 || c.Search.LexWeight > 1 {
		return fmt.Errorf("search.lex_weight must be in [0,1], got %v", c.Search.LexWeight)
	}
	if c.Search.DenseWeight < 0 || c.Search.DenseWeight > 1 {
		return fmt.Errorf("search.dense_weight must be in [0,1], got %v", c.Search.DenseWeight)
	}
	if sum := c.Search.LexWeight + c.Search.DenseWeight; math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("search weights must sum to 1.0, got %v", sum)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive, got %d", c.Search.TopK)
	}
	if c.Search.RelaxFloor <= 0 {
		return fmt.Errorf("search.relax_floor must be positive, got %d", c.Search.RelaxFloor)
	}
	if c.Search.LexPool <= 0 || c.Search.DensePool <= 0 {
		return fmt.Errorf("search pools must be positive, got lex=%d dense=%d",
			c.Search.LexPool, c.Search.DensePool)
	}
	if c.NER.MinConfidence < 0 || c.NER.MinConfidence > 1 {
		return fmt.Errorf("ner.min_confidence must be in [0,1], got %v", c.NER.MinConfidence)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
