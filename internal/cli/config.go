package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/docforge/docgraph/pkg/errors"
)

// defaultConfigHint is shown in the --config flag help text.
const defaultConfigHint = "~/.config/docgraph/config.toml"

// Config is the on-disk CLI configuration, decoded from TOML.
//
//	[renderer]
//	command = "dot"
//	format = "png"
//	timeout_seconds = 30
//
//	[cache]
//	dir = "/var/cache/docgraph"
//	redis_addr = "localhost:6379"
type Config struct {
	Renderer RendererConfig `toml:"renderer"`
	Cache    CacheConfig    `toml:"cache"`
}

// RendererConfig configures the Graphviz invocation.
type RendererConfig struct {
	// Command is the layout executable. Empty means "dot".
	Command string `toml:"command"`

	// Format is the default output format. Empty means png.
	Format string `toml:"format"`

	// TimeoutSeconds bounds one render. Zero means the built-in default.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// NoEmbedded disables the embedded Graphviz fallback.
	NoEmbedded bool `toml:"no_embedded"`
}

// CacheConfig configures the render-artifact cache.
type CacheConfig struct {
	// Dir overrides the file-cache directory.
	Dir string `toml:"dir"`

	// RedisAddr switches to a Redis-backed cache when set.
	RedisAddr string `toml:"redis_addr"`

	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig loads the TOML config from path, or from the default location
// when path is empty. A missing file is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	return cfg, nil
}

// defaultConfigPath returns the config location using the XDG convention
// (~/.config/docgraph/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
