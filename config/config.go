// Package config loads engine settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/example/esengine/token"
)

const (
	DefaultMaxDepth      = 1024
	DefaultMaxParseDepth = 512
)

// Config holds the knobs an embedding can turn before running scripts.
type Config struct {
	// MaxDepth caps expression and call nesting during evaluation.
	MaxDepth int `yaml:"max_depth"`
	// MaxParseDepth caps grammar nesting while parsing.
	MaxParseDepth int  `yaml:"max_parse_depth"`
	Debug         bool `yaml:"debug"`
	// Globals are bound on the global object before a program runs.
	Globals         map[string]any `yaml:"globals"`
	WritableGlobals bool           `yaml:"writable_globals"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		MaxParseDepth: DefaultMaxParseDepth,
	}
}

// Load reads and validates a YAML file. Fields missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", absPath, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var issues []string
	if c.MaxDepth <= 0 {
		issues = append(issues, fmt.Sprintf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if c.MaxParseDepth <= 0 {
		issues = append(issues, fmt.Sprintf("max_parse_depth must be positive, got %d", c.MaxParseDepth))
	}
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !isIdentifier(name) {
			issues = append(issues, fmt.Sprintf("globals: %q is not a valid identifier", name))
			continue
		}
		if err := checkGlobalValue(c.Globals[name]); err != nil {
			issues = append(issues, fmt.Sprintf("globals.%s: %v", name, err))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, reserved := token.Keywords[name]; reserved {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// checkGlobalValue accepts what the engine can turn into a value: scalars,
// lists and string-keyed maps of those.
func checkGlobalValue(v any) error {
	switch v := v.(type) {
	case nil, bool, int, int64, uint64, float64, string:
		return nil
	case []any:
		for i, item := range v {
			if err := checkGlobalValue(item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case map[string]any:
		for k, item := range v {
			if err := checkGlobalValue(item); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
}
