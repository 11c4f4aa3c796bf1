package interpreter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esengine/runtime"
)

func evalExpect(t *testing.T, source string, opts ...Option) *runtime.Value {
	t.Helper()
	in := New(opts...)
	val, err := in.Eval(source)
	require.NoError(t, err, "Eval error for %q", source)
	require.NotNil(t, val)
	return val
}

func evalExpectError(t *testing.T, source string, opts ...Option) error {
	t.Helper()
	in := New(opts...)
	_, err := in.Eval(source)
	require.Error(t, err, "expected error for %q", source)
	return err
}

func expectNumber(t *testing.T, source string, expected float64) {
	t.Helper()
	val := evalExpect(t, source)
	require.Equal(t, runtime.TypeNumber, val.Type, "expected number for %q, got %s", source, val.ToString())
	if math.IsNaN(expected) {
		assert.True(t, math.IsNaN(val.Number), "expected NaN for %q, got %v", source, val.Number)
		return
	}
	assert.Equal(t, expected, val.Number, "source: %s", source)
}

func expectString(t *testing.T, source string, expected string) {
	t.Helper()
	val := evalExpect(t, source)
	require.Equal(t, runtime.TypeString, val.Type, "expected string for %q, got %s", source, val.ToString())
	assert.Equal(t, expected, val.Str, "source: %s", source)
}

func expectBool(t *testing.T, source string, expected bool) {
	t.Helper()
	val := evalExpect(t, source)
	require.Equal(t, runtime.TypeBoolean, val.Type, "expected boolean for %q, got %s", source, val.ToString())
	assert.Equal(t, expected, val.Bool, "source: %s", source)
}
