package loader

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnvLoader turns prefixed environment variables into a configuration
// map: QUILL_EDITOR_TAB_WIDTH=2 becomes editor.tabWidth = 2.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // env var -> config path
	lists   map[string]bool   // config paths holding path lists
	environ func() []string
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore (e.g. "QUILL_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "LOG_LEVEL": "logging.level",
			prefix + "TAB_WIDTH": "editor.tabWidth",
			prefix + "PLUGINS":   "plugins.dirs",
			prefix + "GRAMMARS":  "grammars.files",
		},
		lists: map[string]bool{
			"plugins.dirs":   true,
			"grammars.files": true,
		},
		environ: os.Environ,
	}
}

// AddMapping maps an environment variable to a configuration path.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// SetEnviron replaces os.Environ as the variable source.
func (l *EnvLoader) SetEnviron(environ func() []string) {
	l.environ = environ
}

// Load reads the environment.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if l.lists[path] {
			setByPath(config, path, splitList(value))
			continue
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// envToPath converts QUILL_EDITOR_SOFT_TABS to editor.softTabs.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, p := range parts[2:] {
		if p != "" {
			setting += strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		}
	}
	return section + "." + setting
}

// parseValue converts a raw value into a bool, int64, float64 or string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func splitList(s string) []any {
	var out []any
	for _, p := range filepath.SplitList(s) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
