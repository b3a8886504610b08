/*
Package config manages the TOML config of the overboard server and REPL.

Values missing from the file keep their defaults. A file that does not decode
as a whole is read again without a schema and its values are taken one by one,
so a bad value only loses itself. Out of range values are reset to their
default.
*/
package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ltomes/overboard/internal/utils"
)

const (
	appName  = "overboard"
	fileName = "config.toml"

	// maxDistance bounds the correction tiers, the search grows quickly with
	// each edit.
	maxDistance = 3
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MinPrefix    int  `toml:"min_prefix"`
	MaxPrefix    int  `toml:"max_prefix"`
	EnableFilter bool `toml:"enable_filter"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	// Path is the dictionary file, plain or compressed with xz or zstd.
	Path string `toml:"path"`
	// Name selects a dictionary of the file.
	Name          string `toml:"name"`
	MaxDistance   int    `toml:"max_distance"`
	MaxWordLength int    `toml:"max_word_length"`
	CacheSize     int    `toml:"cache_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:     64,
			MinPrefix:    1,
			MaxPrefix:    60,
			EnableFilter: true,
		},
		Dict: DictConfig{
			Name:          "main",
			MaxDistance:   2,
			MaxWordLength: 256,
			CacheSize:     1024,
		},
		CLI: CliConfig{
			DefaultLimit:  24,
			DefaultMinLen: 1,
			DefaultMaxLen: 24,
		},
	}
}

// DefaultPath is config.toml in the user config directory, or next to the
// executable when that directory can not be written.
func DefaultPath() (string, error) {
	execDir, _ := utils.ExecutableDir()
	dir, err := utils.FirstWritableDir(utils.UserConfigDir(appName), execDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Resolve loads the config at path, or at DefaultPath when path is empty or
// missing. It never fails, the defaults are used when no file can be read.
// The returned path is the file in use, empty for the defaults.
func Resolve(path string) (*Config, string) {
	if path != "" {
		if utils.IsFile(path) {
			return Load(path), utils.AbsPath(path)
		}
		log.Warnf("Config file %s not found, trying the default location", path)
	}
	path, err := DefaultPath()
	if err != nil {
		log.Warnf("No config directory: %v. Using built-in defaults", err)
		return DefaultConfig(), ""
	}
	cfg, err := Init(path)
	if err != nil {
		log.Warnf("Could not create %s: %v. Using built-in defaults", path, err)
		return DefaultConfig(), ""
	}
	return cfg, path
}

// Init loads the config at path, writing the defaults there first when the
// file does not exist.
func Init(path string) (*Config, error) {
	if utils.IsFile(path) {
		return Load(path), nil
	}
	cfg := DefaultConfig()
	if err := Save(cfg, path); err != nil {
		return nil, err
	}
	log.Debugf("Created default config file at: %s", path)
	return cfg, nil
}

// Load reads the config at path over the defaults.
func Load(path string) *Config {
	cfg := DefaultConfig()
	unknown, err := utils.DecodeTOMLFile(path, cfg)
	if err != nil {
		log.Warnf("Config %s does not decode: %v. Recovering its values", path, err)
		cfg = recoverValues(path)
	}
	for _, key := range unknown {
		log.Warnf("Unknown config key %q in %s", key, path)
	}
	cfg.normalize()
	return cfg
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	return utils.EncodeTOMLFile(path, cfg)
}

// recoverValues keeps every value of the file that has the right type.
func recoverValues(path string) *Config {
	cfg := DefaultConfig()
	t, err := utils.ReadTOMLTable(path)
	if err != nil {
		log.Warnf("Could not read any value from %s: %v. Using all defaults", path, err)
		return cfg
	}
	srv, dict, cli := t.Table("server"), t.Table("dict"), t.Table("cli")
	ok := map[string]bool{
		"server.max_limit":      srv.Int("max_limit", &cfg.Server.MaxLimit),
		"server.min_prefix":     srv.Int("min_prefix", &cfg.Server.MinPrefix),
		"server.max_prefix":     srv.Int("max_prefix", &cfg.Server.MaxPrefix),
		"server.enable_filter":  srv.Bool("enable_filter", &cfg.Server.EnableFilter),
		"dict.path":             dict.String("path", &cfg.Dict.Path),
		"dict.name":             dict.String("name", &cfg.Dict.Name),
		"dict.max_distance":     dict.Int("max_distance", &cfg.Dict.MaxDistance),
		"dict.max_word_length":  dict.Int("max_word_length", &cfg.Dict.MaxWordLength),
		"dict.cache_size":       dict.Int("cache_size", &cfg.Dict.CacheSize),
		"cli.default_limit":     cli.Int("default_limit", &cfg.CLI.DefaultLimit),
		"cli.default_min_len":   cli.Int("default_min_len", &cfg.CLI.DefaultMinLen),
		"cli.default_max_len":   cli.Int("default_max_len", &cfg.CLI.DefaultMaxLen),
		"cli.default_no_filter": cli.Bool("default_no_filter", &cfg.CLI.DefaultNoFilter),
	}
	for key, good := range ok {
		if !good {
			log.Warnf("Ignoring %s in %s: wrong type", key, path)
		}
	}
	return cfg
}

// normalize resets the values a component could not work with.
func (c *Config) normalize() {
	def := DefaultConfig()
	reset := func(name string, v *int, lo, hi, fallback int) {
		if *v < lo || (hi > 0 && *v > hi) {
			log.Warnf("Config %s = %d is out of range, using %d", name, *v, fallback)
			*v = fallback
		}
	}
	reset("server.max_limit", &c.Server.MaxLimit, 1, 0, def.Server.MaxLimit)
	reset("server.min_prefix", &c.Server.MinPrefix, 1, 0, def.Server.MinPrefix)
	reset("server.max_prefix", &c.Server.MaxPrefix, 0, 0, def.Server.MaxPrefix)
	reset("dict.max_distance", &c.Dict.MaxDistance, 0, maxDistance, def.Dict.MaxDistance)
	reset("dict.max_word_length", &c.Dict.MaxWordLength, 1, 0, def.Dict.MaxWordLength)
	reset("dict.cache_size", &c.Dict.CacheSize, 0, 0, def.Dict.CacheSize)
	reset("cli.default_limit", &c.CLI.DefaultLimit, 1, 0, def.CLI.DefaultLimit)
	if c.Dict.Name == "" {
		c.Dict.Name = def.Dict.Name
	}
}
