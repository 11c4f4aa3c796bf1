package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(debugEnv, "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEvalPrintsResult(t *testing.T) {
	out, _, err := execute(t, "", "eval", "var x = 2; x * 21;")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestEvalUndefinedPrintsNothing(t *testing.T) {
	out, _, err := execute(t, "", "eval", `console.log("hi");`)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestRunFileAndStdin(t *testing.T) {
	path := writeFile(t, "add.js", "function add(a, b) { return a + b; }\nadd(2, 3);\n")
	out, _, err := execute(t, "", "run", path)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, _, err = execute(t, "'a' + 'b';", "run", "-")
	require.NoError(t, err)
	assert.Equal(t, "ab\n", out)
}

func TestRunReportsScriptErrors(t *testing.T) {
	_, _, err := execute(t, "", "eval", "missing;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ReferenceError")

	_, _, err = execute(t, "", "run", filepath.Join(t.TempDir(), "nope.js"))
	assert.Error(t, err)
}

func TestDebugFlagLogsToStderr(t *testing.T) {
	_, errOut, err := execute(t, "", "--debug", "eval", "1;")
	require.NoError(t, err)
	assert.Contains(t, errOut, "program start")
	assert.NotContains(t, errOut, "level=")
}

func TestConfigGlobals(t *testing.T) {
	path := writeFile(t, "engine.yaml", "globals:\n  answer: 42\n")
	out, _, err := execute(t, "", "--config", path, "eval", "answer + 1;")
	require.NoError(t, err)
	assert.Equal(t, "43\n", out)

	bad := writeFile(t, "bad.yaml", "max_depth: -1\n")
	_, _, err = execute(t, "", "--config", bad, "eval", "1;")
	assert.Error(t, err)
}

func TestTokens(t *testing.T) {
	out, _, err := execute(t, "var x;", "tokens", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `Keyword "var"`)
	assert.Contains(t, out, "end of input")
}

func TestASTFormats(t *testing.T) {
	out, _, err := execute(t, "x = 1;", "ast", "-")
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.NotEmpty(t, tree)

	out, _, err = execute(t, "x = 1;", "ast", "--format", "yaml", "-")
	require.NoError(t, err)
	var yamlTree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &yamlTree))
	assert.NotEmpty(t, yamlTree)

	_, _, err = execute(t, "x = 1;", "ast", "--format", "xml", "-")
	assert.Error(t, err)

	_, _, err = execute(t, "var = ;", "ast", "-")
	assert.Error(t, err)
}

func TestTestCommand(t *testing.T) {
	out, _, err := execute(t, "", "test", "../../testrunner/testdata")
	require.NoError(t, err)
	assert.Contains(t, out, "Passed:  6")
	assert.Contains(t, out, "SKIP skipped.js")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.js"), []byte("// expect: 2\n1;\n"), 0o644))
	out, _, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL bad.js expected 2, got 1")
}
