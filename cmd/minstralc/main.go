package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"minstral.dev/basicc/internal/compiler"
	"minstral.dev/basicc/internal/config"
)

var Description = strings.ReplaceAll(`
minstralc compiles Minstral BASIC programs down to assembly for the Minstral
stack machine, optionally assembling and running the result via the external
'mas' toolchain.
`, "\n", " ")

func commonOptions() []cli.Option {
	return []cli.Option{
		cli.NewOption("o", "Specify the output filename").WithType(cli.TypeString),
		cli.NewOption("unopt", "Disable the peephole optimizer").WithType(cli.TypeBool),
		cli.NewOption("uppercase", "Uppercase the emitted output").WithType(cli.TypeBool),
		cli.NewOption("freestanding", "Don't link the standard library").WithType(cli.TypeBool),
	}
}

func withOptions(cmd cli.Command, opts []cli.Option) cli.Command {
	for _, o := range opts {
		cmd = cmd.WithOption(o)
	}
	return cmd
}

func makeHandler(command compiler.Command) func(args []string, options map[string]string) int {
	return func(args []string, options map[string]string) int {
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "ERROR: missing input file")
			return 1
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: failed to load config: %s\n", err)
			return 1
		}

		opts := compiler.Options{
			Command:      command,
			Output:       cfg.Output,
			Unoptimized:  cfg.Unoptimized,
			Uppercase:    cfg.Uppercase,
			Freestanding: cfg.Freestanding,
			StdlibPath:   cfg.StdlibPath,
		}

		if o, ok := options["o"]; ok && o != "" {
			opts.Output = o
			opts.OutputGiven = true
		}
		if _, enabled := options["unopt"]; enabled {
			opts.Unoptimized = true
		}
		if _, enabled := options["uppercase"]; enabled {
			opts.Uppercase = true
		}
		if _, enabled := options["freestanding"]; enabled {
			opts.Freestanding = true
		}
		if _, enabled := options["nops"]; enabled {
			opts.ShowIRNops = true
		}
		if _, enabled := options["no-omit-libs"]; enabled {
			opts.NoOmitLibs = true
		}

		status, err := compiler.Run(args[0], opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			if status == 0 {
				status = 1
			}
		}
		return status
	}
}

func inputArg() cli.Arg {
	return cli.NewArg("input", "The Minstral BASIC source file to compile")
}

var asmCmd = withOptions(
	cli.NewCommand("asm", "Produce an assembly file").WithArg(inputArg()).
		WithOption(cli.NewOption("no-omit-libs", "Don't omit library code when assembling").WithType(cli.TypeBool)),
	commonOptions(),
).WithAction(makeHandler(compiler.CommandAsm))

var buildCmd = withOptions(
	cli.NewCommand("build", "Produce a binary file").WithArg(inputArg()),
	commonOptions(),
).WithAction(makeHandler(compiler.CommandBuild))

var irCmd = withOptions(
	cli.NewCommand("ir", "Produce an IR listing").WithArg(inputArg()).
		WithOption(cli.NewOption("nops", "Show nops in the IR listing").WithType(cli.TypeBool)),
	commonOptions(),
).WithAction(makeHandler(compiler.CommandIR))

var runCmd = withOptions(
	cli.NewCommand("run", "Produce and execute a binary file").WithArg(inputArg()),
	commonOptions(),
).WithAction(makeHandler(compiler.CommandRun))

var Minstralc = cli.New(Description).
	WithCommand(asmCmd).
	WithCommand(buildCmd).
	WithCommand(irCmd).
	WithCommand(runCmd)

func main() { os.Exit(Minstralc.Run(os.Args, os.Stdout)) }
