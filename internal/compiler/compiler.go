// Package compiler orchestrates the full pipeline described in spec.md §6:
// parse (stdlib + program), lower to IR, optionally optimize, render, and
// (unless asked only for assembly or IR text) shell out to `mas` to
// assemble and optionally run the result. It plays the role compile.c's
// compile() plays in the reference implementation.
package compiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"minstral.dev/basicc/internal/ast"
	"minstral.dev/basicc/internal/backend"
	"minstral.dev/basicc/internal/diagnostics"
	"minstral.dev/basicc/internal/ir"
	"minstral.dev/basicc/internal/optimizer"
	"minstral.dev/basicc/internal/parser"
	"minstral.dev/basicc/internal/symtab"
	"minstral.dev/basicc/internal/token"
)

// Command selects which of the four CLI verbs is being run.
type Command int

const (
	CommandBuild Command = iota
	CommandAsm
	CommandIR
	CommandRun
)

// Options mirrors the reference compiler's bitflags as plain booleans.
type Options struct {
	Command      Command
	Output       string
	OutputGiven  bool
	Unoptimized  bool
	Uppercase    bool
	Freestanding bool
	ShowIRNops   bool
	NoOmitLibs   bool
	StdlibPath   string
}

// Run compiles infile per opts, writing either the assembled binary, the
// raw assembly, or the IR text, and (for CommandRun) executing it. It
// returns the process exit status `mas exe` reported, when applicable.
func Run(infile string, opts Options) (int, error) {
	diags := diagnostics.NewCollector()
	sym := symtab.New()

	var stdlibRoot = (*parseResult)(nil)
	if !opts.Freestanding {
		res, err := parseFile(opts.StdlibPath, sym, diags)
		if err != nil {
			return 1, err
		}
		if diags.Count() > 0 {
			diags.Render(os.Stderr)
			return 1, fmt.Errorf("errors parsing standard library %s", opts.StdlibPath)
		}
		stdlibRoot = res
	}

	program, err := parseFile(infile, sym, diags)
	if err != nil {
		return 1, err
	}
	if diags.Count() > 0 {
		diags.Render(os.Stderr)
		return 1, fmt.Errorf("%d error(s) parsing %s", diags.Count(), infile)
	}

	// Stdlib statements are appended after the program's own — unless asm
	// was asked to omit library code (the default for the `asm` command).
	// Duplicate subroutines across both were already reported above, since
	// both files are parsed into the same symbol table.
	omitLibs := opts.Command == CommandAsm && !opts.NoOmitLibs
	if stdlibRoot != nil && !omitLibs {
		program.root.Body = append(program.root.Body, stdlibRoot.root.Body...)
	}

	lowerer := ir.NewLowerer()
	prog := lowerer.Lower(program.root)

	if !opts.Unoptimized {
		optimizer.Optimize(&prog)
	}

	var code string
	if opts.Command == CommandIR {
		code = ir.ToString(&prog, opts.ShowIRNops)
	} else {
		code = backend.NewEmitter().Generate(&prog)
	}

	if opts.Uppercase {
		code = uppercaseASCII(code)
	}

	outasm := opts.Output
	dontAssemble := opts.Command == CommandAsm
	if !(dontAssemble && opts.OutputGiven) {
		ext := "min"
		if opts.Command == CommandIR {
			ext = "ir"
		}
		outasm = replaceExtension(infile, ext)
	}

	if err := os.WriteFile(outasm, []byte(code), 0o644); err != nil {
		return 1, fmt.Errorf("failed to write to file %q: %w", outasm, err)
	}

	if dontAssemble || opts.Command == CommandIR {
		return 0, nil
	}

	out := opts.Output
	if out == "" {
		out = "a.out"
	}

	if err := exec.Command("mas", "asm", "-o", out, outasm).Run(); err != nil {
		return 1, fmt.Errorf("failed to assemble %q: %w", outasm, err)
	}
	if err := os.Remove(outasm); err != nil {
		return 1, fmt.Errorf("failed to remove %q: %w", outasm, err)
	}

	if opts.Command != CommandRun {
		return 0, nil
	}

	cmd := exec.Command("mas", "exe", "./"+out)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, err
	}
	return 0, nil
}

type parseResult struct {
	root *ast.Root
}

func parseFile(path string, sym *symtab.Table, diags *diagnostics.Collector) (*parseResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	diags.SetSource(path, src)
	toks := token.NewLexer(src).Tokenize()
	root := parser.ParseRoot(path, toks, sym, diags)
	return &parseResult{root: root}, nil
}

// uppercaseASCII mirrors compile.c's byte-wise `isalpha && <= 'z'` scan: it
// upcases only plain ASCII letters, not strings.ToUpper's full Unicode
// case-folding (which would also touch bytes this source text never has,
// but keeps the transform's semantics identical to the reference one).
func uppercaseASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func replaceExtension(path, newExt string) string {
	dir, file := filepath.Split(path)
	if dot := strings.LastIndexByte(file, '.'); dot > 0 {
		file = file[:dot]
	}
	return filepath.Join(dir, file+"."+newExt)
}
