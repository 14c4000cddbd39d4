// Package rc loads the configuration file of jay.
//
// The configuration lives in config.yaml under the jay directory of the user
// configuration directory. A .env file next to it is loaded into the
// environment first, and ${VAR} references in the YAML are expanded.
package rc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugins"
)

var logger = logutil.GetLogger("[rc] ")

// Name of the directory under the user configuration and cache directories.
const dirName = "jay"

// Defaults of settings not in the configuration file.
const (
	DefaultMenuHeight   = 5
	DefaultHistoryLimit = 1000
)

// Config is the content of the configuration file.
type Config struct {
	Prompt     string          `yaml:"prompt"`
	MenuHeight int             `yaml:"menu_height"`
	History    HistoryConfig   `yaml:"history"`
	Eager      EagerConfig     `yaml:"eager"`
	Highlight  HighlightConfig `yaml:"highlight"`
	Pairs      PairsConfig     `yaml:"pairs"`
	LogFile    string          `yaml:"log_file"`
}

// HistoryConfig configures the persistent history.
type HistoryConfig struct {
	// Path of the history database. Defaults to history.db in the jay cache
	// directory.
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
	// Maximum number of entries kept.
	Limit int `yaml:"limit"`
}

// EagerConfig configures the preview of the value of the line.
type EagerConfig struct {
	Disabled bool     `yaml:"disabled"`
	Timeout  Duration `yaml:"timeout"`
}

// HighlightConfig configures syntax highlighting.
type HighlightConfig struct {
	Disabled bool `yaml:"disabled"`
	// Name of a chroma style.
	Style string `yaml:"style"`
}

type PairsConfig struct {
	Disabled bool `yaml:"disabled"`
}

// Duration is a time.Duration written as a string like "250ms" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when there is no configuration file.
// The history path is left empty; see HistoryPath.
func Default() Config {
	return Config{
		Prompt:     plugins.DefaultPrompt,
		MenuHeight: DefaultMenuHeight,
		History:    HistoryConfig{Limit: DefaultHistoryLimit},
		Eager:      EagerConfig{Timeout: Duration(plugins.DefaultEagerTimeout)},
		Highlight:  HighlightConfig{Style: plugins.DefaultHighlightStyle},
	}
}

// Path returns the default path of the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, "config.yaml"), nil
}

// DefaultHistoryPath returns the path of the history database used when the
// configuration does not name one.
func DefaultHistoryPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, "history.db"), nil
}

// Load reads the configuration file at path. Settings missing from the file
// keep their default values, and a missing file yields Default(). Before the
// file is read, the .env file in the same directory, if any, is loaded into
// the environment; variables already set are not overridden.
func Load(path string) (Config, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envPath, err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Println("no config file at", path)
		return cfg, nil
	} else if err != nil {
		return Config{}, err
	}
	if err := Parse(&cfg, os.ExpandEnv(string(data))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes the YAML in src onto cfg and validates the result. Unknown
// keys are errors.
func Parse(cfg *Config, src string) error {
	dec := yaml.NewDecoder(strings.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return cfg.Validate()
}

// Validate checks that all settings have usable values.
func (c Config) Validate() error {
	var errs []error
	if c.MenuHeight < 1 {
		errs = append(errs, fmt.Errorf("menu_height must be at least 1, got %d", c.MenuHeight))
	}
	if c.History.Limit < 1 {
		errs = append(errs, fmt.Errorf("history.limit must be at least 1, got %d", c.History.Limit))
	}
	if c.Eager.Timeout < 0 {
		errs = append(errs, fmt.Errorf("eager.timeout must not be negative, got %v", time.Duration(c.Eager.Timeout)))
	}
	if _, ok := styles.Registry[c.Highlight.Style]; !ok {
		errs = append(errs, fmt.Errorf("highlight.style: unknown style %q", c.Highlight.Style))
	}
	return errors.Join(errs...)
}

// HistoryPath returns the path of the history database, resolving the
// default.
func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return DefaultHistoryPath()
}

// Plugins returns the configuration of the default plugins.
func (c Config) Plugins() plugins.Config {
	return plugins.Config{
		Prompt:         c.Prompt,
		HighlightStyle: c.Highlight.Style,
		EagerTimeout:   time.Duration(c.Eager.Timeout),
		NoHighlight:    c.Highlight.Disabled,
		NoEager:        c.Eager.Disabled,
		NoPairs:        c.Pairs.Disabled,
	}
}
