// Package config loads tila.toml, the settings file shared by the tila
// commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "TILA_CONFIG"

type Config struct {
	Log     LogConfig     `toml:"log"`
	Output  OutputConfig  `toml:"output"`
	Grammar GrammarConfig `toml:"grammar"`
	REPL    REPLConfig    `toml:"repl"`

	// Path is the file the configuration was read from, empty for the
	// built-in defaults.
	Path string `toml:"-"`
}

type LogConfig struct {
	// Verbosity as understood by commonlog.Configure: 0 is errors only.
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  *bool  `toml:"color"`
}

// GrammarConfig selects the grammar used by the grammar commands when no
// file is given on the command line.
type GrammarConfig struct {
	File  string `toml:"file"`
	Start string `toml:"start"`
}

type REPLConfig struct {
	History string `toml:"history"`
	Prompt  string `toml:"prompt"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return &cfg
}

// Load reads a TOML configuration file. Unknown keys are an error so that
// typos do not go unnoticed.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg.Path = path
	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// LoadDefault loads the file named by $TILA_CONFIG, or the first of
// ./tila.toml and ~/.config/tila/tila.toml that exists. Without any of
// them the defaults are returned.
func LoadDefault() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// SearchPaths lists the files LoadDefault tries, in order.
func SearchPaths() []string {
	paths := []string{"tila.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tila", "tila.toml"))
	}
	return paths
}

var formats = map[string]bool{
	"ast":    true,
	"json":   true,
	"source": true,
	"tree":   true,
}

var ErrInvalid = errors.New("invalid configuration")

// Validate checks values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if !formats[c.Output.Format] {
		return fmt.Errorf("%w: output format %q", ErrInvalid, c.Output.Format)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("%w: negative log verbosity %d", ErrInvalid, c.Log.Verbosity)
	}
	return nil
}

// UseColor reports whether styled output is wanted. Unless the file says
// otherwise, color is used when stdout is a terminal and NO_COLOR is unset.
func (c *Config) UseColor() bool {
	if c.Output.Color != nil {
		return *c.Output.Color
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Grammar.Start == "" {
		c.Grammar.Start = "Program"
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "> "
	}
	if c.REPL.History == "" {
		c.REPL.History = filepath.Join("$HOME", ".tila_history")
	}
}

func (c *Config) expandEnvVars() {
	c.Log.File = os.ExpandEnv(c.Log.File)
	c.Grammar.File = os.ExpandEnv(c.Grammar.File)
	c.REPL.History = os.ExpandEnv(c.REPL.History)
}
