package testrunner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, source string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644))
}

func TestRunTestdata(t *testing.T) {
	var out bytes.Buffer
	results, summary, err := Run(Config{Dir: "testdata", Verbose: true, Output: &out})
	require.NoError(t, err)

	for _, r := range results {
		if r.Result == Fail || r.Result == Error {
			t.Errorf("%s", r)
		}
	}
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 6, summary.Passed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, out.String(), "SKIP skipped.js regular expression literals are not supported")
	assert.Contains(t, out.String(), "PASS errors/not_callable.js")
}

func TestRunReportsMismatches(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "wrong.js", "// expect: 4\n2 + 1;\n")
	writeScript(t, dir, "noerror.js", "// error: TypeError\n1;\n")
	writeScript(t, dir, "unexpected.js", "// expect: 1\nnope();\n")
	writeScript(t, dir, "plain.js", "1 + 1;\n")
	writeScript(t, dir, "notes.txt", "// expect: 1\n")

	results, summary, err := Run(Config{Dir: dir})
	require.NoError(t, err)

	got := map[string]Result{}
	for _, r := range results {
		got[r.Path] = r.Result
	}
	want := map[string]Result{
		"noerror.js":    Fail,
		"plain.js":      Skip,
		"unexpected.js": Fail,
		"wrong.js":      Fail,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Summary{Total: 4, Failed: 3, Skipped: 1, Elapsed: summary.Elapsed}, summary)

	for _, r := range results {
		if r.Path == "wrong.js" {
			assert.Equal(t, "expected 4, got 3", r.Message)
		}
	}
}

func TestRunFilterAndLimit(t *testing.T) {
	results, summary, err := Run(Config{Dir: "testdata", Filter: "errors"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	for _, r := range results {
		assert.Contains(t, r.Path, "errors/")
	}

	_, summary, err = Run(Config{Dir: "testdata", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
}

func TestRunMissingDir(t *testing.T) {
	_, _, err := Run(Config{Dir: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestParseMetadata(t *testing.T) {
	meta, err := ParseMetadata("/*---\ndescription: sums\nexpect: \"3\"\noutput:\n  - a\n---*/\n// output: b\n1 + 2;\n")
	require.NoError(t, err)
	require.NotNil(t, meta.Expect)
	assert.Equal(t, "3", *meta.Expect)
	assert.Equal(t, "sums", meta.Description)
	assert.Equal(t, []string{"a", "b"}, meta.Output)
	assert.True(t, meta.HasExpectations())

	meta, err = ParseMetadata("// just a comment\nvar x = 1;\n")
	require.NoError(t, err)
	assert.False(t, meta.HasExpectations())

	_, err = ParseMetadata("/*--- expect: 1\n")
	assert.Error(t, err)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "PASS", Pass.String())
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "UNKNOWN", Result(9).String())
}

func TestRunTimesOutEndlessScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spin.js", "// expect: 1\nwhile (true) {}\n")

	results, summary, err := Run(Config{Dir: dir, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Error, results[0].Result)
	assert.Equal(t, "timeout (50ms)", results[0].Message)
	assert.Equal(t, 1, summary.Errors)
}
