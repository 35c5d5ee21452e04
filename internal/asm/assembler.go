package asm

import "github.com/hmny-toolchain/n2t/internal/hack"

// ----------------------------------------------------------------------------
// Assembler

// Assemble runs the full two-pass pipeline over 'source': parsing, label
// binding, lowering to the Hack IR, and binary code generation. It is the
// single entrypoint 'cmd/hackasm' drives.
func Assemble(source string) ([]string, error) {
	program, err := NewParser().Parse(source)
	if err != nil {
		return nil, err
	}

	table, err := NewBinder(program).Bind()
	if err != nil {
		return nil, err
	}

	lowered, err := NewLowerer(program).Lower()
	if err != nil {
		return nil, err
	}

	codegen := hack.NewCodeGenerator(lowered, table)
	return codegen.Generate()
}
