// Package main implements the bcplc command-line driver.
//
// bcplc compiles BCPL source files (`.bpp`) by running each one through
// the lexer and parser to produce an internal/ast.Program. The core this
// repository implements stops at the parsed, type-annotated AST (spec.md
// §1: code generation is out of scope); the CLI surface below is spec'd
// only for completeness (§6.1) and so does not itself emit an object or
// shared-library file, but it does validate and report on every flag and
// input path §6.1 describes.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/pkg/diag"
	"github.com/bcpl-lang/bcplc/pkg/parser"
	"github.com/bcpl-lang/bcplc/pkg/source"
	"github.com/bcpl-lang/bcplc/pkg/tags"
)

// errNoInputFiles is the sentinel the driver reports when invoked with no
// positional arguments (§6.1: "No input files -> fatal diagnostic").
var errNoInputFiles = errors.New("bcplc: no input files")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the CLI surface spec.md §6.1 describes: positional
// `.bpp` paths, `-o`, repeatable `-D`, `-c`, `--shared`, `-h/--help`.
func newRootCmd() *cobra.Command {
	var (
		output  string
		defines []string
		compile bool
		shared  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "bcplc [flags] file.bpp...",
		Short:         "Compile BCPL source files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			defer log.Sync() //nolint:errcheck

			cfg := compileConfig{
				inputs:  args,
				output:  output,
				defines: defines,
				compile: compile,
				shared:  shared,
				log:     log,
			}
			return compileAll(cfg, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "a.out", "output path")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "seed a tag in the compile-time tag set (repeatable)")
	cmd.Flags().BoolVarP(&compile, "compile", "c", false, "build an object instead of linking")
	cmd.Flags().BoolVar(&shared, "shared", false, "build a shared library")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "emit structured progress logging")

	return cmd
}

// newLogger builds the driver's structured logger. Logging is strictly
// ancillary: it never substitutes for a pkg/diag diagnostic, so a failure
// to build one is not itself fatal.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// compileConfig collects the resolved flag/argument state for one run.
type compileConfig struct {
	inputs  []string
	output  string
	defines []string
	compile bool
	shared  bool
	log     *zap.Logger
}

// compileAll compiles every input file to an *ast.Program, sharing one
// *tags.Set across files (spec.md §5: the only state carried from file to
// file) and rendering diagnostics to errOut. It returns a non-nil error as
// soon as any file ends in a fatal diagnostic, or immediately if there are
// no input files.
func compileAll(cfg compileConfig, errOut io.Writer) error {
	if len(cfg.inputs) == 0 {
		fmt.Fprintln(errOut, errNoInputFiles)
		return errNoInputFiles
	}

	if cfg.compile && cfg.shared {
		err := errors.New("bcplc: -c and --shared are mutually exclusive")
		fmt.Fprintln(errOut, err)
		return err
	}

	tagSet := tags.NewFrom(cfg.defines...)
	diags := diag.NewSink(errOut)

	programs := make([]*ast.Program, 0, len(cfg.inputs))
	for _, path := range cfg.inputs {
		if filepath.Ext(path) != ".bpp" {
			err := fmt.Errorf("bcplc: %s: not a .bpp file", path)
			fmt.Fprintln(errOut, err)
			return err
		}

		cfg.log.Debug("compiling", zap.String("path", path))

		prog, err := compileFile(path, tagSet, diags, cfg.log)
		if err != nil {
			return fmt.Errorf("bcplc: %s: %w", path, err)
		}
		programs = append(programs, prog)
	}

	cfg.log.Info("compiled",
		zap.Int("files", len(programs)),
		zap.String("output", cfg.output),
		zap.Bool("compile", cfg.compile),
		zap.Bool("shared", cfg.shared),
	)

	return nil
}

// compileFile reads one source file from disk and runs it through the
// lexer and parser, producing a fully parsed, type-annotated *ast.Program.
func compileFile(path string, tagSet *tags.Set, diags *diag.Sink, log *zap.Logger) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file := source.New(path, data)
	p := parser.New(file, tagSet, diags, log)
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}

	for _, e := range p.Errors().Errors() {
		if e.Severity >= diagSeverityThreshold {
			log.Warn("diagnostic", zap.String("message", e.Message))
		}
	}

	return prog, nil
}

// diagSeverityThreshold is the lowest severity compileFile logs at Warn
// (everything else diags already rendered to errOut via the sink).
const diagSeverityThreshold = diag.Warning
