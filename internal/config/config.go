package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/quill/internal/config/loader"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/logging"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "QUILL_"

// Config is the typed configuration of quill.
type Config struct {
	Editor   EditorConfig   `toml:"editor"`
	Logging  LoggingConfig  `toml:"logging"`
	Plugins  PluginsConfig  `toml:"plugins"`
	Grammars GrammarsConfig `toml:"grammars"`
	Document DocumentConfig `toml:"document"`

	// Source is the settings file that was read, or "" when none existed.
	Source string `toml:"-"`
}

// EditorConfig holds editing defaults.
type EditorConfig struct {
	// TabWidth is the number of columns a tab advances to.
	TabWidth int `toml:"tabWidth"`

	// SoftTabs indents with spaces instead of tabs.
	SoftTabs bool `toml:"softTabs"`

	// LineDelimiter is used for new documents and for files without any
	// line break ("lf" or "crlf").
	LineDelimiter string `toml:"lineDelimiter"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// PluginsConfig holds Lua plugin settings.
type PluginsConfig struct {
	// Enabled turns plugin loading on or off.
	Enabled bool `toml:"enabled"`

	// Dirs are scanned for *.lua files.
	Dirs []string `toml:"dirs"`

	// Timeout bounds each hook call, as a Go duration string.
	Timeout string `toml:"timeout"`
}

// GrammarsConfig lists user grammar files.
type GrammarsConfig struct {
	// Files are YAML grammar definitions loaded after the built-ins.
	Files []string `toml:"files"`
}

// DocumentConfig holds document controller settings.
type DocumentConfig struct {
	// FailureLogSize bounds the number of listener failures kept per
	// document.
	FailureLogSize int `toml:"failureLogSize"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:      4,
			SoftTabs:      true,
			LineDelimiter: "lf",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Plugins: PluginsConfig{
			Enabled: true,
			Timeout: "5s",
		},
		Document: DocumentConfig{
			FailureLogSize: 64,
		},
	}
}

type options struct {
	path    string
	dir     string
	fs      loader.FileSystem
	environ func() []string
	noEnv   bool
}

// Option configures Load.
type Option func(*options)

// WithPath reads settings from path instead of the user config directory.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithUserConfigDir sets the directory holding settings.toml.
func WithUserConfigDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithFS sets the file system settings are read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(environ func() []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() Option {
	return func(o *options) {
		o.noEnv = true
	}
}

// Load builds the configuration from defaults, the settings file and the
// environment, then validates it. A missing settings file is not an
// error.
func Load(opts ...Option) (*Config, error) {
	o := &options{fs: loader.DefaultFS()}
	for _, opt := range opts {
		opt(o)
	}
	if o.path == "" {
		dir := o.dir
		if dir == "" {
			dir = DefaultUserConfigDir()
		}
		o.path = filepath.Join(dir, "settings.toml")
	}

	cfg := Default()

	data, err := loader.NewTOMLLoaderWithFS(o.fs, o.path).Load()
	if err != nil {
		return nil, err
	}
	if data != nil {
		cfg.Source = o.path
	}

	if !o.noEnv {
		env := loader.NewEnvLoader(EnvPrefix)
		if o.environ != nil {
			env.SetEnviron(o.environ)
		}
		envData, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		data = loader.DeepMerge(data, envData)
	}

	if err := cfg.apply(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a settings map onto c. Settings missing from data keep
// their current value.
func (c *Config) apply(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding settings from %s: %w", c.sourceName(), err)
	}
	c.Plugins.Dirs = expandHome(c.Plugins.Dirs)
	c.Grammars.Files = expandHome(c.Grammars.Files)
	return nil
}

func (c *Config) sourceName() string {
	if c.Source == "" {
		return "<environment>"
	}
	return c.Source
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 32 {
		errs = append(errs, &ValidationError{Path: "editor.tabWidth", Message: "must be between 1 and 32", Value: c.Editor.TabWidth})
	}
	if _, err := buffer.ParseDelimiter(c.Editor.LineDelimiter); err != nil {
		errs = append(errs, &ValidationError{Path: "editor.lineDelimiter", Message: `must be "lf" or "crlf"`, Value: c.Editor.LineDelimiter})
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level})
	}
	if d, err := time.ParseDuration(c.Plugins.Timeout); err != nil || d <= 0 {
		errs = append(errs, &ValidationError{Path: "plugins.timeout", Message: "must be a positive duration", Value: c.Plugins.Timeout})
	}
	if c.Document.FailureLogSize < 0 {
		errs = append(errs, &ValidationError{Path: "document.failureLogSize", Message: "must not be negative", Value: c.Document.FailureLogSize})
	}
	return errors.Join(errs...)
}

// Delimiter returns the configured line delimiter, LF if unset or invalid.
func (c *Config) Delimiter() buffer.Delimiter {
	d, err := buffer.ParseDelimiter(c.Editor.LineDelimiter)
	if err != nil {
		return buffer.DelimiterLF
	}
	return d
}

// LogLevel returns the configured log level, info if unknown.
func (c *Config) LogLevel() logging.Level {
	if l, ok := logging.ParseLevel(c.Logging.Level); ok {
		return l
	}
	return logging.LevelInfo
}

// PluginTimeout returns the per-call plugin timeout.
func (c *Config) PluginTimeout() time.Duration {
	d, err := time.ParseDuration(c.Plugins.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// DefaultUserConfigDir returns $XDG_CONFIG_HOME/quill or ~/.config/quill.
func DefaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quill")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quill")
}

func expandHome(paths []string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}
	for i, p := range paths {
		if p == "~" {
			paths[i] = home
		} else if rest, ok := strings.CutPrefix(p, "~/"); ok {
			paths[i] = filepath.Join(home, rest)
		}
	}
	return paths
}
