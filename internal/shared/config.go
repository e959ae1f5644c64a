package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Tidal  TidalConfig  `toml:"tidal"`
	Fetch  FetchConfig  `toml:"fetch"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// TidalConfig contains TIDAL API credentials and endpoints.
type TidalConfig struct {
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	APIBaseURL   string  `toml:"api_base_url"`
	AuthBaseURL  string  `toml:"auth_base_url"`
	SessionFile  string  `toml:"session_file"`
	RateLimit    float64 `toml:"rate_limit"`
}

// FetchConfig tunes the pagination helper used by listing operations.
type FetchConfig struct {
	PageSize int `toml:"page_size"`
	MaxPages int `toml:"max_pages"`
}

// CacheConfig contains local track cache settings.
type CacheConfig struct {
	Path string `toml:"path"`
}

// ServerConfig contains HTTP server settings for the serve command.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SessionPath resolves the session file location. An empty config value falls
// back to the same temp-dir path standalone auth scripts use, so all entry
// points agree on one file.
func (c *Config) SessionPath() string {
	if c.Tidal.SessionFile != "" {
		return c.Tidal.SessionFile
	}
	if env := os.Getenv("TIDAL_SESSION_FILE"); env != "" {
		return env
	}
	return filepath.Join(os.TempDir(), "tidal-session-oauth.json")
}
