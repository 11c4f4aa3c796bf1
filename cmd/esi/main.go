package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/config"
	"github.com/example/esengine/interpreter"
	"github.com/example/esengine/lexer"
	"github.com/example/esengine/parser"
	"github.com/example/esengine/runtime"
	"github.com/example/esengine/testrunner"
)

const debugEnv = "ESENGINE_DEBUG"

type rootOptions struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "esi",
		Short:         "Run scripts on the embedded ECMAScript engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML engine configuration")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log interpreter activity to stderr (also "+debugEnv+")")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newEvalCmd(opts),
		newTokensCmd(),
		newASTCmd(opts),
		newReplCmd(opts),
		newTestCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) load() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if o.debug {
		cfg.Debug = true
	}
	if env, ok := os.LookupEnv(debugEnv); ok {
		if on, err := strconv.ParseBool(env); err == nil && on {
			cfg.Debug = true
		}
	}
	return cfg, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func (o *rootOptions) newInterpreter(cmd *cobra.Command) (*interpreter.Interpreter, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	interp := interpreter.New(
		interpreter.WithConfig(cfg),
		interpreter.WithLogger(newLogger(cmd.ErrOrStderr(), cfg.Debug)),
		interpreter.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	return interp, nil
}

// readSource reads a script file, or stdin when path is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	return string(data), nil
}

func evalAndPrint(cmd *cobra.Command, opts *rootOptions, source string) error {
	interp, err := opts.newInterpreter(cmd)
	if err != nil {
		return err
	}
	result, err := interp.Eval(source)
	if err != nil {
		return err
	}
	if result != nil && result.Type != runtime.TypeUndefined {
		fmt.Fprintln(cmd.OutOrStdout(), result.ToString())
	}
	return nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.js|->",
		Short: "Run a script file and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			return evalAndPrint(cmd, opts, source)
		},
	}
}

func newEvalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <code>",
		Short: "Evaluate inline source and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evalAndPrint(cmd, opts, args[0])
		},
	}
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file.js|->",
		Short: "Print the token stream of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range lexer.Tokenize(source) {
				fmt.Fprintf(out, "%d:%d\t%s\n", tok.Line, tok.Column, tok)
			}
			return nil
		},
	}
}

func newASTCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file.js|->",
		Short: "Parse a script and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			program, err := parser.ParseSource(source, parser.WithMaxDepth(cfg.MaxParseDepth))
			if err != nil {
				return err
			}
			return writeAST(cmd.OutOrStdout(), program, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "json", "Output format: json or yaml")
	return cmd
}

func writeAST(w io.Writer, program *ast.Block, format string) error {
	tree := ast.Dump(program)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("error encoding AST: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("error encoding AST: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	return nil
}

func newTestCmd(opts *rootOptions) *cobra.Command {
	var (
		filter  string
		limit   int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "test [dir]",
		Short: "Run annotated script files and summarize the results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			results, summary, err := testrunner.Run(testrunner.Config{
				Dir:     dir,
				Filter:  filter,
				Limit:   limit,
				Verbose: verbose,
				Output:  out,
				Engine:  cfg,
			})
			if err != nil {
				return err
			}

			if !verbose {
				for _, r := range results {
					if r.Result != testrunner.Pass {
						fmt.Fprintln(out, r)
					}
				}
			}
			printSummary(out, summary)

			if summary.Failed > 0 || summary.Errors > 0 {
				return fmt.Errorf("%d failed, %d errors", summary.Failed, summary.Errors)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only run files whose path contains this substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of files to run (0 = all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every result")
	return cmd
}

func printSummary(w io.Writer, summary testrunner.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Total:   %d\n", summary.Total)
	fmt.Fprintf(w, "Passed:  %d\n", summary.Passed)
	fmt.Fprintf(w, "Failed:  %d\n", summary.Failed)
	fmt.Fprintf(w, "Skipped: %d\n", summary.Skipped)
	fmt.Fprintf(w, "Errors:  %d\n", summary.Errors)
	if run := summary.Total - summary.Skipped; run > 0 {
		fmt.Fprintf(w, "Pass rate: %.1f%% (%d/%d excluding skipped)\n",
			float64(summary.Passed)/float64(run)*100, summary.Passed, run)
	}
	fmt.Fprintf(w, "Elapsed: %s\n", summary.Elapsed)
}
