package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Backend BackendSettings `toml:"backend"`
	Map     MapSettings     `toml:"map"`
	UI      UISettings      `toml:"ui"`
	Log     LogSettings     `toml:"log"`
}

// BackendSettings selects the game server
type BackendSettings struct {
	Mode      string `toml:"mode"`   // local, production or origin
	Host      string `toml:"host"`   // host name in local mode
	Origin    string `toml:"origin"` // origin URL in origin mode
	TokenFile string `toml:"token_file"`
}

// MapSettings is the initial map view
type MapSettings struct {
	CenterLat float64 `toml:"center_lat"`
	CenterLng float64 `toml:"center_lng"`
	Zoom      int     `toml:"zoom"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Mouse       bool `toml:"mouse"`
	ResultLimit int  `toml:"result_limit"` // visible search results
	SearchWidth int  `toml:"search_width"`
}

// LogSettings controls the log file
type LogSettings struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// DefaultPath returns the config file location in the user config dir
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "soturidash", "config.toml")
}

// NewConfigServiceAt creates a config service for the file at path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendSettings{
			Mode: "production",
			Host: "localhost",
		},
		Map: MapSettings{
			// Kraków, where the game is played
			CenterLat: 50.0614,
			CenterLng: 19.9366,
			Zoom:      16,
		},
		UI: UISettings{
			Mouse:       true,
			ResultLimit: 8,
			SearchWidth: 36,
		},
		Log: LogSettings{
			File:   "soturidash.log",
			Level:  "info",
			Format: "text",
		},
	}
}

// normalize replaces out of range values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Map.Zoom <= 0 {
		c.Map.Zoom = def.Map.Zoom
	}
	if c.UI.ResultLimit <= 0 {
		c.UI.ResultLimit = def.UI.ResultLimit
	}
	if c.UI.SearchWidth < 16 {
		c.UI.SearchWidth = def.UI.SearchWidth
	}
}
