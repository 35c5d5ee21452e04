package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teris-io/cli"

	"github.com/hmny-toolchain/n2t/internal/diag"
	"github.com/hmny-toolchain/n2t/internal/vm"
)

var Description = strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in
the VM language into Hack assembly code that can be further elaborated. The VM language
is a higher-level (bytecode-like) language tailored for use with the Hack computer arch.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	WithArg(cli.NewArg("input", "A single '.vm' file, or a directory of them")).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) != 1 {
		return report(diag.New(diag.UsageError, 0, "", "expected exactly one input file or directory, got %d", len(args)))
	}
	input := args[0]

	info, err := os.Stat(input)
	if os.IsNotExist(err) {
		return report(diag.Wrap(diag.InputNotFound, 0, input, err))
	}
	if err != nil {
		return report(diag.Wrap(diag.IoError, 0, input, err))
	}

	var sources map[string]string // module name (base, no extension) -> file content
	var output string
	var bootstrap bool

	if info.IsDir() {
		sources, err = readDir(input)
		if err != nil {
			return report(err)
		}
		output = filepath.Join(input, filepath.Base(input)+".asm")
		bootstrap = true
	} else {
		content, err := os.ReadFile(input)
		if err != nil {
			return report(diag.Wrap(diag.IoError, 0, input, err))
		}
		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		sources = map[string]string{name: string(content)}
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".asm"
		bootstrap = false
	}

	program := vm.Program{}
	for name, content := range sources {
		module, err := vm.NewParser().Parse(content)
		if err != nil {
			return report(err)
		}
		program[name] = module
	}

	compiled, err := vm.Translate(program, bootstrap)
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

// readDir collects every '.vm' file directly inside 'dir', keyed by its base
// name (without extension). Directory-mode translation processes modules in
// ascending lexicographic order of this name (enforced downstream, by
// 'vm.Lowerer'); an empty result here is itself a usage error, matching
// 'VM_translator2.py''s explicit check for zero input files.
func readDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, diag.Wrap(diag.IoError, 0, dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".vm") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, diag.New(diag.InputNotFound, 0, dir, "no '.vm' files found in directory '%s'", dir)
	}

	sources := make(map[string]string, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, diag.Wrap(diag.IoError, 0, name, err)
		}
		sources[strings.TrimSuffix(name, ".vm")] = string(content)
	}
	return sources, nil
}

func report(err error) int {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
	return diag.ExitCode(err)
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }
