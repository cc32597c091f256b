// Package config loads the service configuration from the environment and an optional yaml file.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/model"
	"github.com/drakos74/free-transit/internal/storage"
	"github.com/drakos74/free-transit/internal/storage/file/json"
	"github.com/drakos74/free-transit/internal/storage/sqlite"
	"github.com/drakos74/free-transit/internal/trainer"
)

// Storage backends.
const (
	VoidStore   = "none"
	MemoryStore = "memory"
	JsonStore   = "json"
	SqliteStore = "sqlite"
)

// Models the service can classify with.
const (
	HeuristicModel = "heuristic"
	ForestModel    = "forest"
)

// Config holds the service configuration.
type Config struct {
	Port        int
	LogLevel    string
	DataDir     string
	Store       string
	Model       string
	Dataset     string
	Fallback    bool
	Retrain     string
	Workers     int
	File        string
	CORSOrigins []string

	Classifier classifier.Config
	Training   trainer.Config
	Aliases    model.Aliases
}

// File is the optional yaml configuration for the tunables of the service.
type File struct {
	Classifier classifier.Thresholds `yaml:"classifier"`
	Training   trainer.Config        `yaml:"training"`
	Aliases    []model.Alias         `yaml:"aliases"`
}

// Load reads configuration from environment variables, a .env file and the CONFIG_FILE if given.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	training := trainer.DefaultConfig()
	training.Trees = getEnvAsInt("MODEL_TREES", training.Trees)
	training.Seed = int64(getEnvAsInt("MODEL_SEED", int(training.Seed)))

	cfg := &Config{
		Port:        getEnvAsInt("PORT", 6080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DataDir:     getEnv("DATA_DIR", storage.DefaultDir),
		Store:       getEnv("STORE", MemoryStore),
		Model:       getEnv("MODEL", HeuristicModel),
		Dataset:     getEnv("MODEL_DATASET", ""),
		Fallback:    getEnvAsBool("MODEL_FALLBACK", true),
		Retrain:     getEnv("MODEL_RETRAIN_SCHEDULE", ""),
		Workers:     getEnvAsInt("WORKERS", 8),
		File:        getEnv("CONFIG_FILE", ""),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		Classifier:  classifier.DefaultConfig(),
		Training:    training,
		Aliases:     model.DefaultAliases(),
	}

	if cfg.File != "" {
		if err := cfg.LoadFile(cfg.File); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overrides the tunables with the ones in the given yaml file.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file '%s': %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("could not parse config file '%s': %w", path, err)
	}
	c.Classifier = f.Classifier.Apply(c.Classifier)
	if f.Training.Trees > 0 {
		c.Training.Trees = f.Training.Trees
	}
	if f.Training.Split > 0 {
		c.Training.Split = f.Training.Split
	}
	if f.Training.Seed != 0 {
		c.Training.Seed = f.Training.Seed
	}
	if f.Training.Samples > 0 {
		c.Training.Samples = f.Training.Samples
	}
	for _, a := range f.Aliases {
		if !a.Field.Known() {
			return fmt.Errorf("alias '%s' points to unknown field '%s'", a.Name, a.Field)
		}
		c.Aliases.Add(a)
	}
	return nil
}

// Validate checks if the configuration is consistent.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.Store {
	case VoidStore, MemoryStore, JsonStore, SqliteStore:
	default:
		return fmt.Errorf("unknown STORE '%s'", c.Store)
	}
	switch c.Model {
	case HeuristicModel, ForestModel:
	default:
		return fmt.Errorf("unknown MODEL '%s'", c.Model)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL '%s': %w", c.LogLevel, err)
	}
	if err := c.Classifier.Check(); err != nil {
		return fmt.Errorf("invalid classifier configuration: %w", err)
	}
	if c.Store != MemoryStore && c.Store != VoidStore && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required for STORE '%s'", c.Store)
	}
	return nil
}

// SetupLogging sets the global log level.
func (c *Config) SetupLogging() {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// Shard opens the configured storage backend.
// The returned function releases its resources.
func (c *Config) Shard(ctx context.Context) (storage.Shard, func() error, error) {
	noop := func() error { return nil }
	switch c.Store {
	case VoidStore:
		return storage.VoidShard(), noop, nil
	case JsonStore:
		return json.BlobShard(c.DataDir), noop, nil
	case SqliteStore:
		db, err := sqlite.Open(ctx, filepath.Join(c.DataDir, "transit.db"))
		if err != nil {
			return nil, noop, err
		}
		return db.Shard(), db.Close, nil
	}
	return json.LocalShard(), noop, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	vv := make([]string, 0)
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vv = append(vv, v)
		}
	}
	return vv
}
