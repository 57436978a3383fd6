// Package repl implements the interactive prompt loop: read a line, compile
// it, run it against the session's VM, report any error, and continue.
package repl

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/loxbytecode/cloxgo/internal/compiler"
	"github.com/loxbytecode/cloxgo/internal/vm"
)

// Run drives the REPL loop until EOF (Ctrl-D), writing output to out and
// errors to errOut. It returns nil on a clean EOF exit.
//
// One VM instance backs the whole session so a global declared on one line
// is visible on the next; each line still compiles into its own chunk and
// runs through its own Run call, so a mistyped line does not corrupt
// previously defined globals.
func Run(out, errOut io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	machine := vm.New()
	machine.Out = out
	defer machine.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if line == "" {
			continue
		}

		c, err := compiler.Compile(line, machine.Interns())
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if err := machine.Run(c); err != nil {
			fmt.Fprintln(errOut, err)
		}
	}
}
