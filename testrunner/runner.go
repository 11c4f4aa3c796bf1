// Package testrunner runs directive-annotated script files and reports how
// their results compare with the expectations written in them.
package testrunner

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/esengine/config"
	"github.com/example/esengine/interpreter"
	"github.com/example/esengine/runtime"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

const DefaultTimeout = 5 * time.Second

type Config struct {
	Dir     string
	Filter  string
	Limit   int
	Verbose bool
	// Output receives verbose progress lines; nil means stdout.
	Output io.Writer
	// Engine configures every interpreter the runner creates. Zero depths
	// fall back to the interpreter defaults.
	Engine  config.Config
	Timeout time.Duration
}

// Run discovers *.js files under cfg.Dir and runs each in a fresh interpreter.
func Run(cfg Config) ([]TestResult, Summary, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var testFiles []string
	err := filepath.WalkDir(cfg.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".js") {
			return nil
		}
		if cfg.Filter != "" {
			rel, _ := filepath.Rel(cfg.Dir, path)
			if !strings.Contains(rel, cfg.Filter) {
				return nil
			}
		}
		testFiles = append(testFiles, path)
		return nil
	})
	if err != nil {
		return nil, Summary{}, fmt.Errorf("testrunner: discover %s: %w", cfg.Dir, err)
	}

	if cfg.Limit > 0 && len(testFiles) > cfg.Limit {
		testFiles = testFiles[:cfg.Limit]
	}

	start := time.Now()
	var results []TestResult
	var summary Summary
	summary.Total = len(testFiles)

	for _, path := range testFiles {
		rel, _ := filepath.Rel(cfg.Dir, path)
		tr := runSingleTest(path, filepath.ToSlash(rel), cfg)
		results = append(results, tr)

		switch tr.Result {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Skip:
			summary.Skipped++
		case Error:
			summary.Errors++
		}

		if cfg.Verbose {
			fmt.Fprintln(cfg.Output, tr.String())
		}
	}

	summary.Elapsed = time.Since(start)
	return results, summary, nil
}

func (tr TestResult) String() string {
	if tr.Message == "" {
		return fmt.Sprintf("%s %s", tr.Result, tr.Path)
	}
	return fmt.Sprintf("%s %s %s", tr.Result, tr.Path, tr.Message)
}

type evalResult struct {
	val *runtime.Value
	err error
}

func runSingleTest(path, rel string, cfg Config) TestResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: "read error: " + err.Error()}
	}

	meta, err := ParseMetadata(string(source))
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: err.Error()}
	}
	if meta.Skip != "" {
		return TestResult{Path: rel, Result: Skip, Message: meta.Skip}
	}
	if !meta.HasExpectations() {
		return TestResult{Path: rel, Result: Skip, Message: "no expectations"}
	}

	start := time.Now()
	var output bytes.Buffer
	interp := interpreter.New(
		interpreter.WithConfig(cfg.Engine),
		interpreter.WithOutput(&output, &output),
	)

	resultCh := make(chan evalResult, 1)
	go func() {
		val, err := interp.Eval(string(source))
		resultCh <- evalResult{val: val, err: err}
	}()

	var evalRes evalResult
	select {
	case evalRes = <-resultCh:
	case <-time.After(cfg.Timeout):
		interp.Interrupt()
		return TestResult{
			Path:    rel,
			Result:  Error,
			Message: fmt.Sprintf("timeout (%s)", cfg.Timeout),
			Elapsed: time.Since(start),
		}
	}

	tr := TestResult{Path: rel, Result: Pass, Elapsed: time.Since(start)}
	if msg := meta.check(evalRes, output.String()); msg != "" {
		tr.Result = Fail
		tr.Message = msg
	}
	return tr
}

// Metadata holds the expectations of one script. They come from line
// directives:
//
//	// expect: <ToString of the program result>
//	// error: <substring of the error message>
//	// output: <one line of console output>
//	// skip: <reason>
//
// or from a YAML block between /*--- and ---*/ with the same keys.
type Metadata struct {
	Description string   `yaml:"description"`
	Expect      *string  `yaml:"expect"`
	Error       string   `yaml:"error"`
	Output      []string `yaml:"output"`
	Skip        string   `yaml:"skip"`
}

func (m Metadata) HasExpectations() bool {
	return m.Expect != nil || m.Error != "" || m.Output != nil
}

// ParseMetadata reads the expectations out of a script's comments.
func ParseMetadata(source string) (Metadata, error) {
	var meta Metadata

	if startIdx := strings.Index(source, "/*---"); startIdx >= 0 {
		endIdx := strings.Index(source[startIdx:], "---*/")
		if endIdx < 0 {
			return meta, fmt.Errorf("unterminated metadata block")
		}
		block := source[startIdx+5 : startIdx+endIdx]
		if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
			return meta, fmt.Errorf("metadata: %w", err)
		}
	}

	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "//") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(trimmed, "//")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "expect":
			meta.Expect = &value
		case "error":
			meta.Error = value
		case "output":
			meta.Output = append(meta.Output, value)
		case "skip":
			meta.Skip = value
		}
	}
	return meta, nil
}

// check compares a finished run against the expectations and describes the
// first mismatch, or returns "".
func (m Metadata) check(res evalResult, output string) string {
	if m.Error != "" {
		if res.err == nil {
			return fmt.Sprintf("expected error containing %q, got result %s", m.Error, res.val.ToString())
		}
		if !strings.Contains(res.err.Error(), m.Error) {
			return fmt.Sprintf("expected error containing %q, got %q", m.Error, res.err.Error())
		}
		return ""
	}
	if res.err != nil {
		return res.err.Error()
	}
	if m.Expect != nil {
		if got := res.val.ToString(); got != *m.Expect {
			return fmt.Sprintf("expected %s, got %s", *m.Expect, got)
		}
	}
	if m.Output != nil {
		want := strings.Join(m.Output, "\n") + "\n"
		if output != want {
			return fmt.Sprintf("expected output %q, got %q", want, output)
		}
	}
	return ""
}
