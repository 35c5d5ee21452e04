package asm

import (
	"github.com/hmny-toolchain/n2t/internal/diag"
	"github.com/hmny-toolchain/n2t/internal/hack"
)

// ----------------------------------------------------------------------------
// Label Binder

// Binder implements the Assembler's Pass 1: a single walk over the parsed
// Program that assigns every label declaration the ROM address of the
// instruction following it. Variables are NOT allocated here, that happens
// lazily in the Pass 2 Emitter (hack.CodeGenerator) the first time an
// unresolved symbol is referenced.
type Binder struct{ program Program }

// Initializes and returns to the caller a brand new 'Binder' struct.
func NewBinder(p Program) Binder {
	return Binder{program: p}
}

// Bind seeds a fresh SymbolTable with the predefined registers and populates
// it with every label bound in the Program, in source order.
func (b Binder) Bind() (hack.SymbolTable, error) {
	labels := map[string]uint16{}

	romAddress := uint16(0)
	for _, stmt := range b.program {
		decl, ok := stmt.(LabelDecl)
		if !ok {
			romAddress++
			continue
		}

		if _, builtin := hack.BuiltInTable[decl.Name]; builtin {
			return nil, diag.New(diag.LabelRedefined, decl.Line, decl.Raw, "label '%s' collides with a predefined symbol", decl.Name)
		}
		if bound, found := labels[decl.Name]; found && bound != romAddress {
			return nil, diag.New(diag.LabelRedefined, decl.Line, decl.Raw, "label '%s' already bound to address %d, cannot rebind to %d", decl.Name, bound, romAddress)
		}
		labels[decl.Name] = romAddress
	}

	table := hack.SymbolTable{}
	for name, addr := range hack.BuiltInTable {
		table[name] = addr
	}
	for name, addr := range labels {
		table[name] = addr
	}

	return table, nil
}
