package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSiteURL is used by `idx config init` when IDX_SITE_URL is unset.
const DefaultSiteURL = "http://localhost"

// Defaults holds the paths and values idx falls back to before a config exists.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
	SiteURL    string
}

// GetDefaults returns application defaults, checking environment variables first.
// Environment variables:
//   - IDX_CONFIG_PATH: config file location (default: ~/.config/idx.toml)
//   - IDX_HOME: base directory for idx data (default: ~/.local/share/idx)
//   - IDX_SITE_URL: public URL of the site (default: http://localhost)
func GetDefaults() (*Defaults, error) {
	configPath, err := fromEnvOrHome("IDX_CONFIG_PATH", ".config", "idx.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := fromEnvOrHome("IDX_HOME", ".local", "share", "idx")
	if err != nil {
		return nil, err
	}

	siteURL := os.Getenv("IDX_SITE_URL")
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		SiteURL:    siteURL,
	}, nil
}

// fromEnvOrHome returns the value of env, or the home directory joined with elems.
func fromEnvOrHome(env string, elems ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elems...)...), nil
}
