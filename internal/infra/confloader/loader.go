package confloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "DEVSERVE_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	filePath  string
	overrides map[string]any
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOverrides sets dotted-key values applied after every other source.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		l.overrides = values
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{k: koanf.New(".")}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources and unmarshals into target.
// Fields of target not mentioned by any source keep their current value,
// so callers pass a struct already filled with defaults.
func (l *Loader) Load(target any) error {
	if err := l.loadFile(l.filePath); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}

	if err := l.loadEnv(); err != nil {
		return err
	}

	if len(l.overrides) > 0 {
		if err := l.k.Load(mapProvider(l.overrides), nil); err != nil {
			return fmt.Errorf("load overrides: %w", err)
		}
	}

	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return nil
}

// loadFile loads a YAML or TOML file. An empty path is skipped.
func (l *Loader) loadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// parserFor picks the file parser from the extension. YAML is the default.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML()
	default:
		return yaml.Parser()
	}
}

// loadEnv loads DEVSERVE_* environment variables.
//
// Only the first underscore after the prefix separates the section from the
// key, so DEVSERVE_TLS_CERT_FILE maps to tls.cert_file.
func (l *Loader) loadEnv() error {
	envTransformer := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(s, "_", ".", 1)
	}

	if err := l.k.Load(env.Provider(EnvPrefix, ".", envTransformer), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}
