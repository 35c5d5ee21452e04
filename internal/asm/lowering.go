package asm

import (
	"errors"
	"strconv"

	"github.com/hmny-toolchain/n2t/internal/diag"
	"github.com/hmny-toolchain/n2t/internal/hack"
)

// ----------------------------------------------------------------------------
// Asm Lowerer

// The Lowerer takes an 'asm.Program' and converts each A/C Instruction to its
// 'hack.Instruction' counterpart. LabelDecl statements carry no runtime
// instruction of their own and are dropped here, their address having
// already been recorded by the Binder in Pass 1; label/variable resolution
// itself happens downstream, in the Pass 2 Emitter (hack.CodeGenerator).
type Lowerer struct{ program Program }

// Initializes and returns to the caller a brand new 'Lowerer' struct.
func NewLowerer(p Program) Lowerer {
	return Lowerer{program: p}
}

// Lower walks the Program in order, converting every A/C Instruction.
func (l Lowerer) Lower() (hack.Program, error) {
	converted := make(hack.Program, 0, len(l.program))

	for _, stmt := range l.program {
		switch tStmt := stmt.(type) {
		case AInstruction:
			hackInst, err := l.handleAInst(tStmt)
			if err != nil {
				return nil, err
			}
			converted = append(converted, hackInst)

		case CInstruction:
			converted = append(converted, hack.CInstruction{Comp: tStmt.Comp, Dest: tStmt.Dest, Jump: tStmt.Jump})

		case LabelDecl:
			continue // already accounted for during Pass 1

		default:
			return nil, diag.New(diag.UsageError, 0, "", "unrecognized statement type '%T'", stmt)
		}
	}

	return converted, nil
}

// handleAInst classifies the location an A Instruction references: a
// predefined register/memory alias, a raw numeric literal (bounds-checked
// against the addressable 15-bit range), or otherwise a user-defined label or
// variable resolved against the injected SymbolTable.
func (l Lowerer) handleAInst(inst AInstruction) (hack.Instruction, error) {
	if _, found := hack.BuiltInTable[inst.Location]; found {
		return hack.AInstruction{LocType: hack.BuiltIn, LocName: inst.Location}, nil
	}

	if value, err := strconv.ParseInt(inst.Location, 10, 32); err == nil || errors.Is(err, strconv.ErrRange) {
		if value < 0 || value >= int64(hack.MaxAddressableMemory) {
			return nil, diag.New(diag.ConstantOutOfRange, inst.Line, inst.Raw, "constant '%s' outside the addressable range [0, %d]", inst.Location, hack.MaxAddressableMemory-1)
		}
		return hack.AInstruction{LocType: hack.Raw, LocName: inst.Location}, nil
	}

	return hack.AInstruction{LocType: hack.Label, LocName: inst.Location}, nil
}
