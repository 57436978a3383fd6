// Command cloxgo is the CLI front end: argv handling, the REPL loop, and
// file execution are all this binary does, kept outside the compiler/VM
// core.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/loxbytecode/cloxgo/internal/compiler"
	"github.com/loxbytecode/cloxgo/internal/debug"
	"github.com/loxbytecode/cloxgo/internal/repl"
	"github.com/loxbytecode/cloxgo/internal/vm"
)

// exitError pairs an error with its sysexits-style exit code: 65 compile
// error, 70 runtime error, 74 I/O error, 64 usage.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := &cli.Command{
		Name:  "cloxgo",
		Usage: "a bytecode compiler and virtual machine for Lox",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "disassemble", Usage: "print compiled bytecode before running"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colorized disassembly output"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.err)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("no-color") {
		debug.DisableColor()
	}

	args := cmd.Args()
	switch args.Len() {
	case 0:
		if err := repl.Run(os.Stdout, os.Stderr); err != nil {
			return &exitError{err: err, code: 74}
		}
		return nil
	case 1:
		return runFile(args.Get(0), cmd.Bool("disassemble"))
	default:
		return &exitError{err: errors.New("Usage: cloxgo [path]"), code: 64}
	}
}

func runFile(path string, disassemble bool) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return &exitError{err: err, code: 74}
	}

	machine := vm.New()
	defer machine.Close()

	program, err := compiler.Compile(string(source), machine.Interns())
	if err != nil {
		return &exitError{err: err, code: 65}
	}

	if disassemble {
		debug.DisassembleChunk(os.Stdout, program, path)
	}

	if err := machine.Run(program); err != nil {
		return &exitError{err: err, code: 70}
	}
	return nil
}
