package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/example/esengine/interpreter"
	"github.com/example/esengine/parser"
	"github.com/example/esengine/runtime"
)

const (
	historyFile = ".esi_history"
	promptMain  = "> "
	promptCont  = "... "
)

func newReplCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			interp, err := opts.newInterpreter(cmd)
			if err != nil {
				return err
			}
			return repl(cmd, interp, cfg.MaxParseDepth)
		},
	}
}

func repl(cmd *cobra.Command, interp *interpreter.Interpreter, parseDepth int) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintln(out, "Ctrl+C cancels input, Ctrl+D exits. Type .exit to exit.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		code, ok := readStatement(ln, parseDepth)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ".exit" {
			return nil
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		result, err := interp.Eval(code)
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if result.Type != runtime.TypeUndefined {
			fmt.Fprintln(out, result.ToString())
		}
	}
}

// readStatement keeps prompting while the buffered source only fails to parse
// because it ends too early.
func readStatement(ln *liner.State, parseDepth int) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if needsMoreInput(src, parseDepth) {
			continue
		}
		return src, true
	}
}

// needsMoreInput parses with the same nesting cap the interpreter uses, so a
// program rejected for depth is reported instead of prompting for more.
func needsMoreInput(src string, parseDepth int) bool {
	_, err := parser.ParseSource(src, parser.WithMaxDepth(parseDepth))
	return err != nil && parser.IsIncomplete(err)
}
