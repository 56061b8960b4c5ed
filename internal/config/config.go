package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for idx.
type Config struct {
	SiteURL  string         `toml:"site_url"`
	BlogID   int64          `toml:"blog_id"`
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	Avatar   AvatarConfig   `toml:"avatar"`
	Indexing IndexingConfig `toml:"indexing"`
}

// DatabaseConfig represents configuration for the host database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// CacheConfig represents configuration for the transient store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CacheConfig struct {
	Type string `toml:"type"` // "memory" or "redis"

	// Redis-specific fields (only used when Type == "redis")
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	KeyPrefix     string `toml:"key_prefix,omitempty"`
}

// AvatarConfig controls the gravatar URLs used as fallback social images.
type AvatarConfig struct {
	BaseURL      string `toml:"base_url"`
	Size         int    `toml:"size"`
	DefaultImage string `toml:"default_image"`
	Rating       string `toml:"rating"`
}

// IndexingConfig holds the host rules the indexable builders depend on.
type IndexingConfig struct {
	PublicPostStatuses []string `toml:"public_post_statuses"`
	PublicPostTypes    []string `toml:"public_post_types"`
	CleanupBatchSize   int      `toml:"cleanup_batch_size"`
	UnindexedLimit     int      `toml:"unindexed_limit"`
}

// NewConfig creates a new Config with the provided values and defaults for everything else.
func NewConfig(siteURL, baseDir string) *Config {
	return &Config{
		SiteURL: siteURL,
		BlogID:  1,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Cache: CacheConfig{Type: "memory"},
		Avatar: AvatarConfig{
			BaseURL:      "https://secure.gravatar.com/avatar",
			Size:         500,
			DefaultImage: "mm",
			Rating:       "g",
		},
		Indexing: IndexingConfig{
			PublicPostStatuses: []string{"publish"},
			PublicPostTypes:    []string{"post", "page"},
			CleanupBatchSize:   1000,
			UnindexedLimit:     25,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
