package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/hmny-toolchain/n2t/internal/asm"
	"github.com/hmny-toolchain/n2t/internal/diag"
)

var Description = strings.ReplaceAll(`
The Hack Assembler takes assembly language code written in the Hack assembly language
and translates it into machine code that can be executed by the Hack computer. The process
involves parsing the assembly code, resolving symbols, and generating machine code.
`, "\n", " ")

var HackAssembler = cli.New(Description).
	WithArg(cli.NewArg("input", "The assembler (.asm) file to be compiled")).
	WithOption(cli.NewOption("o", "The compiled binary output (.hack), defaults to the input path with a .hack extension")).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) != 1 {
		return report(diag.New(diag.UsageError, 0, "", "expected exactly one input file, got %d", len(args)))
	}
	input := args[0]

	output := options["o"]
	if output == "" {
		output = strings.TrimSuffix(input, ".asm") + ".hack"
	}

	source, err := os.ReadFile(input)
	if os.IsNotExist(err) {
		return report(diag.Wrap(diag.InputNotFound, 0, input, err))
	}
	if err != nil {
		return report(diag.Wrap(diag.IoError, 0, input, err))
	}

	compiled, err := asm.Assemble(string(source))
	if err != nil {
		return report(err)
	}

	file, err := os.Create(output)
	if err != nil {
		return report(diag.Wrap(diag.IoError, 0, output, err))
	}
	defer file.Close()

	for _, line := range compiled {
		if _, err := fmt.Fprintf(file, "%s\n", line); err != nil {
			return report(diag.Wrap(diag.IoError, 0, output, err))
		}
	}

	fmt.Printf("OK: wrote %s (%d instructions)\n", output, len(compiled))
	return 0
}

func report(err error) int {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
	return diag.ExitCode(err)
}

func main() { os.Exit(HackAssembler.Run(os.Args, os.Stdout)) }
