package vm

import (
	"sort"

	"github.com/hmny-toolchain/n2t/internal/asm"
	"github.com/hmny-toolchain/n2t/internal/diag"
)

// ----------------------------------------------------------------------------
// Vm Lowerer

// Lowerer drives a Writer across every Module in a Program, in lexicographic
// order by module name: this is what makes directory-mode translation
// deterministic, since 'static' addresses and generated labels would
// otherwise depend on map iteration order.
type Lowerer struct {
	program   Program
	bootstrap bool // whether to prepend 'SP=256; call Sys.init 0'
}

// NewLowerer initializes and returns to the caller a brand new 'Lowerer'.
// 'bootstrap' should be true only for directory-mode translation runs: a
// single '.vm' file translated on its own is never assumed to define
// 'Sys.init'.
func NewLowerer(p Program, bootstrap bool) Lowerer {
	return Lowerer{program: p, bootstrap: bootstrap}
}

// Lower writes every module's operations in turn, sharing one Writer (and
// so one set of monotonic counters) across the whole Program.
func (l Lowerer) Lower() (asm.Program, error) {
	names := make([]string, 0, len(l.program))
	for name := range l.program {
		names = append(names, name)
	}
	sort.Strings(names)

	writer := NewWriter()
	program := asm.Program{}

	if l.bootstrap {
		program = append(program, writer.WriteBootstrap()...)
	}

	for _, name := range names {
		writer.SetClass(name)
		for _, op := range l.program[name] {
			stmts, err := l.lowerOp(writer, op)
			if err != nil {
				return nil, err
			}
			program = append(program, stmts...)
		}
	}

	return program, nil
}

func (l Lowerer) lowerOp(writer *Writer, op Operation) ([]asm.Statement, error) {
	switch t := op.(type) {
	case MemoryOp:
		return writer.WriteMemoryOp(t)
	case ArithmeticOp:
		return writer.WriteArithmeticOp(t)
	case LabelDecl:
		return writer.WriteLabelDecl(t), nil
	case GotoOp:
		return writer.WriteGotoOp(t), nil
	case FuncDecl:
		return writer.WriteFuncDecl(t), nil
	case FuncCallOp:
		return writer.WriteFuncCallOp(t), nil
	case ReturnOp:
		return writer.WriteReturnOp(t)
	default:
		return nil, diag.New(diag.UsageError, 0, "", "unrecognized VM operation type '%T'", op)
	}
}
