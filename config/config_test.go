package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultMaxParseDepth, cfg.MaxParseDepth)
	assert.False(t, cfg.Debug)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
max_depth: 64
debug: true
globals:
  answer: 42
  greeting: hello
  ratio: 0.5
  enabled: true
  nothing: null
  point: {x: 1, y: 2}
  items: [1, two, 3.0]
writable_globals: true
`))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, DefaultMaxParseDepth, cfg.MaxParseDepth)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.WritableGlobals)
	assert.Equal(t, 42, cfg.Globals["answer"])
	assert.Equal(t, "hello", cfg.Globals["greeting"])
	assert.Equal(t, 0.5, cfg.Globals["ratio"])
	assert.Equal(t, true, cfg.Globals["enabled"])
	assert.Nil(t, cfg.Globals["nothing"])
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, cfg.Globals["point"])
	assert.Equal(t, []any{1, "two", 3.0}, cfg.Globals["items"])
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("max_dept: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_dept")
}

func TestValidateAggregatesIssues(t *testing.T) {
	_, err := Parse([]byte(`
max_depth: 0
max_parse_depth: -1
globals:
  "1abc": 1
  "while": 2
  ok_name: 3
`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"max_depth must be positive, got 0",
		"max_parse_depth must be positive, got -1",
		`globals: "1abc" is not a valid identifier`,
		`globals: "while" is not a valid identifier`,
	}, verr.Issues)
	assert.Contains(t, err.Error(), "config validation failed:\n- max_depth")
}

func TestValidateRejectsUnsupportedValues(t *testing.T) {
	cfg := Default()
	cfg.Globals = map[string]any{"ch": make(chan int)}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "globals.ch: unsupported value of type chan int")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "esengine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_parse_depth: 100\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxParseDepth)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")

	_, err = Load("")
	require.EqualError(t, err, "config: empty path")
}
