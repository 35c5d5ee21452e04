package vm

import (
	"fmt"
	"strings"

	"github.com/hmny-toolchain/n2t/internal/asm"
	"github.com/hmny-toolchain/n2t/internal/diag"
	"github.com/hmny-toolchain/n2t/internal/utils"
)

// ----------------------------------------------------------------------------
// Code Writer

// segmentBase names the Hack register holding a pointer-backed segment's
// base address. Temp, pointer and static are not pointer-backed: their
// addresses are computable at translation time.
var segmentBase = map[SegmentType]string{
	Local:    "LCL",
	Argument: "ARG",
	This:     "THIS",
	That:     "THAT",
}

// Writer lowers a Module's operations straight to Hack assembly statements,
// skipping the VM-text round trip entirely: nothing downstream of this
// package ever needs to re-read generated VM commands. It tracks the
// function currently being defined on a Stack rather than a bare field so
// that 'label'/'goto'/'return' all query the same scope in one place, and so
// a 'return' with no enclosing 'function' is caught as a real error rather
// than silently scoped to the file.
type Writer struct {
	class       string // basename of the module currently being written, for 'static'
	functions   utils.Stack[string]
	cmpCounter  int // monotonic, never reset across files in one translation run
	callCounter int
}

// NewWriter initializes and returns to the caller a brand new 'Writer'.
func NewWriter() *Writer {
	return &Writer{}
}

// SetClass scopes subsequent 'static' segment accesses to 'name', which
// should be the basename (without extension) of the '.vm' file being
// written. Static variables are namespaced per file, not per function; the
// function-scope stack is reset here too, since 'current_function' does not
// carry over a file boundary even if the previous file never returned out of
// its last declared function.
func (w *Writer) SetClass(name string) {
	w.class = name
	w.functions = utils.Stack[string]{}
}

func (w *Writer) currentFunction() string {
	name, err := w.functions.Top()
	if err != nil {
		return ""
	}
	return name
}

// scope prefixes 'name' with the enclosing function, matching the
// '<function>$<label>' convention: two functions may declare a same-named
// label without colliding once translated to Hack assembly.
func (w *Writer) scope(name string) string {
	if fn := w.currentFunction(); fn != "" {
		return fn + "$" + name
	}
	return name
}

// ----------------------------------------------------------------------------
// Memory Op

// WriteMemoryOp lowers a 'push'/'pop' command to the instructions that move
// a value between the stack top and the addressed segment location.
func (w *Writer) WriteMemoryOp(op MemoryOp) ([]asm.Statement, error) {
	switch op.Operation {
	case Push:
		return w.writePush(op)
	case Pop:
		return w.writePop(op)
	default:
		return nil, diag.New(diag.UsageError, op.Line, op.Raw, "unrecognized memory operation '%s'", op.Operation)
	}
}

func (w *Writer) writePush(op MemoryOp) ([]asm.Statement, error) {
	var load []asm.Statement

	switch op.Segment {
	case Constant:
		load = []asm.Statement{
			w.a(fmt.Sprintf("%d", op.Offset), op),
			w.c("D", "A", "", op),
		}
	case Local, Argument, This, That:
		load = []asm.Statement{
			w.a(segmentBase[op.Segment], op),
			w.c("D", "M", "", op),
			w.a(fmt.Sprintf("%d", op.Offset), op),
			w.c("A", "D+A", "", op),
			w.c("D", "M", "", op),
		}
	case Temp:
		load = []asm.Statement{w.a(fmt.Sprintf("%d", 5+op.Offset), op), w.c("D", "M", "", op)}
	case Pointer:
		load = []asm.Statement{w.a(pointerName(op.Offset), op), w.c("D", "M", "", op)}
	case Static:
		load = []asm.Statement{w.a(w.staticName(op.Offset), op), w.c("D", "M", "", op)}
	default:
		return nil, diag.New(diag.UnknownSegment, op.Line, op.Raw, "unrecognized segment '%s'", op.Segment)
	}

	return append(load, w.pushD(op)...), nil
}

func (w *Writer) writePop(op MemoryOp) ([]asm.Statement, error) {
	switch op.Segment {
	case Local, Argument, This, That:
		stmts := []asm.Statement{
			w.a(segmentBase[op.Segment], op),
			w.c("D", "M", "", op),
			w.a(fmt.Sprintf("%d", op.Offset), op),
			w.c("D", "D+A", "", op),
			w.a("R13", op),
			w.c("M", "D", "", op),
		}
		stmts = append(stmts, w.popD(op)...)
		stmts = append(stmts, w.a("R13", op), w.c("A", "M", "", op), w.c("M", "D", "", op))
		return stmts, nil

	case Temp:
		stmts := w.popD(op)
		return append(stmts, w.a(fmt.Sprintf("%d", 5+op.Offset), op), w.c("M", "D", "", op)), nil

	case Pointer:
		stmts := w.popD(op)
		return append(stmts, w.a(pointerName(op.Offset), op), w.c("M", "D", "", op)), nil

	case Static:
		stmts := w.popD(op)
		return append(stmts, w.a(w.staticName(op.Offset), op), w.c("M", "D", "", op)), nil

	case Constant:
		return nil, diag.New(diag.UnknownSegment, op.Line, op.Raw, "'pop constant' is not a valid operation, 'constant' is a read-only virtual segment")

	default:
		return nil, diag.New(diag.UnknownSegment, op.Line, op.Raw, "unrecognized segment '%s'", op.Segment)
	}
}

func pointerName(offset uint16) string {
	if offset == 0 {
		return "THIS"
	}
	return "THAT"
}

func (w *Writer) staticName(offset uint16) string {
	return fmt.Sprintf("%s.%d", w.class, offset)
}

// ----------------------------------------------------------------------------
// Arithmetic Op

// WriteArithmeticOp lowers one of the 9 arithmetic/logic/comparison
// mnemonics to the instructions operating directly on the top one or two
// stack slots, leaving SP pointing one past the (possibly narrowed) result.
func (w *Writer) WriteArithmeticOp(op ArithmeticOp) ([]asm.Statement, error) {
	switch op.Operation {
	case Neg:
		return []asm.Statement{w.a("SP", op), w.c("A", "M-1", "", op), w.c("M", "-M", "", op)}, nil
	case Not:
		return []asm.Statement{w.a("SP", op), w.c("A", "M-1", "", op), w.c("M", "!M", "", op)}, nil
	case Add:
		return w.binary("D+M", op), nil
	case Sub:
		return w.binary("M-D", op), nil
	case And:
		return w.binary("D&M", op), nil
	case Or:
		return w.binary("D|M", op), nil
	case Eq, Gt, Lt:
		return w.compare(op), nil
	default:
		return nil, diag.New(diag.UnknownArithmeticOp, op.Line, op.Raw, "unrecognized arithmetic operator '%s'", op.Operation)
	}
}

// binary pops the two topmost values into M (the lower, 'x') and D (the
// upper, 'y'), stores 'comp' at x's slot and leaves SP unmoved from there:
// that slot is now the new stack top.
func (w *Writer) binary(comp string, op ArithmeticOp) []asm.Statement {
	return []asm.Statement{
		w.a("SP", op), w.c("AM", "M-1", "", op), w.c("D", "M", "", op),
		w.c("A", "A-1", "", op), w.c("M", comp, "", op),
	}
}

var compareJump = map[ArithOpType]string{Eq: "JEQ", Gt: "JGT", Lt: "JLT"}

// compare does the same pop-pop-subtract dance as 'binary', then branches on
// the comparison outcome to write -1 (true) or 0 (false) back to the new
// stack top. The branch labels only need to be unique within the run, not
// scoped to a function: they never appear in a 'goto'/'label' command. The
// prefix is the upper-cased mnemonic itself ('EQ'/'GT'/'LT'), using Go's
// 'strings.ToUpper' rather than the non-existent 'op.UPPER()' a prior
// translator mistakenly called here.
func (w *Writer) compare(op ArithmeticOp) []asm.Statement {
	id := w.cmpCounter
	w.cmpCounter++
	prefix := strings.ToUpper(string(op.Operation))
	jump := compareJump[op.Operation]
	trueLabel := fmt.Sprintf("%s_TRUE_%d", prefix, id)
	endLabel := fmt.Sprintf("%s_END_%d", prefix, id)

	return []asm.Statement{
		w.a("SP", op), w.c("AM", "M-1", "", op), w.c("D", "M", "", op),
		w.c("A", "A-1", "", op), w.c("D", "M-D", "", op),
		w.a(trueLabel, op), w.c("", "D", jump, op),
		w.a("SP", op), w.c("A", "M-1", "", op), w.c("M", "0", "", op),
		w.a(endLabel, op), w.c("", "0", "JMP", op),
		w.label(trueLabel, op),
		w.a("SP", op), w.c("A", "M-1", "", op), w.c("M", "-1", "", op),
		w.label(endLabel, op),
	}
}

// ----------------------------------------------------------------------------
// Control Flow

func (w *Writer) WriteLabelDecl(op LabelDecl) []asm.Statement {
	return []asm.Statement{w.label(w.scope(op.Name), op)}
}

func (w *Writer) WriteGotoOp(op GotoOp) []asm.Statement {
	target := w.scope(op.Label)
	if op.Jump == Unconditional {
		return []asm.Statement{w.a(target, op), w.c("", "0", "JMP", op)}
	}

	stmts := w.popD(op)
	return append(stmts, w.a(target, op), w.c("", "D", "JNE", op))
}

// ----------------------------------------------------------------------------
// Functions, Calls, Returns

// WriteFuncDecl opens 'op.Name' as the current function and zero-initializes
// its 'op.NLocal' locals by pushing a literal 0 that many times.
func (w *Writer) WriteFuncDecl(op FuncDecl) []asm.Statement {
	w.functions.Push(op.Name)

	stmts := []asm.Statement{w.label(op.Name, op)}
	if op.NLocal == 0 {
		return stmts
	}

	stmts = append(stmts, w.a("0", op), w.c("D", "A", "", op))
	for i := uint8(0); i < op.NLocal; i++ {
		stmts = append(stmts, w.pushD(op)...)
	}
	return stmts
}

// WriteFuncCallOp saves the caller's frame, repositions ARG/LCL for the
// callee and jumps to it, planting a uniquely-named return label right
// after the jump for the callee to resume at.
func (w *Writer) WriteFuncCallOp(op FuncCallOp) []asm.Statement {
	id := w.callCounter
	w.callCounter++
	retLabel := fmt.Sprintf("%s$ret.%d", op.Name, id)

	stmts := []asm.Statement{w.a(retLabel, op), w.c("D", "A", "", op)}
	stmts = append(stmts, w.pushD(op)...)
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		stmts = append(stmts, w.a(reg, op), w.c("D", "M", "", op))
		stmts = append(stmts, w.pushD(op)...)
	}

	stmts = append(stmts,
		w.a("SP", op), w.c("D", "M", "", op),
		w.a(fmt.Sprintf("%d", int(op.NArgs)+5), op), w.c("D", "D-A", "", op),
		w.a("ARG", op), w.c("M", "D", "", op),
		w.a("SP", op), w.c("D", "M", "", op),
		w.a("LCL", op), w.c("M", "D", "", op),
		w.a(op.Name, op), w.c("", "0", "JMP", op),
		w.label(retLabel, op),
	)
	return stmts
}

// WriteReturnOp tears down the current function's frame, restoring the
// caller's segment pointers and resuming at the saved return address.
func (w *Writer) WriteReturnOp(op ReturnOp) ([]asm.Statement, error) {
	if w.currentFunction() == "" {
		return nil, diag.New(diag.UsageError, op.Line, op.Raw, "'return' used outside of any function")
	}

	frameMinus := func(n int) []asm.Statement {
		return []asm.Statement{w.a("R13", op), w.c("D", "M", "", op), w.a(fmt.Sprintf("%d", n), op), w.c("A", "D-A", "", op), w.c("D", "M", "", op)}
	}

	stmts := []asm.Statement{w.a("LCL", op), w.c("D", "M", "", op), w.a("R13", op), w.c("M", "D", "", op)}
	stmts = append(stmts, frameMinus(5)...)
	stmts = append(stmts, w.a("R14", op), w.c("M", "D", "", op))

	stmts = append(stmts, w.popD(op)...)
	stmts = append(stmts, w.a("ARG", op), w.c("A", "M", "", op), w.c("M", "D", "", op))
	stmts = append(stmts, w.a("ARG", op), w.c("D", "M+1", "", op), w.a("SP", op), w.c("M", "D", "", op))

	restore := []struct {
		n   int
		reg string
	}{{1, "THAT"}, {2, "THIS"}, {3, "ARG"}, {4, "LCL"}}
	for _, r := range restore {
		stmts = append(stmts, frameMinus(r.n)...)
		stmts = append(stmts, w.a(r.reg, op), w.c("M", "D", "", op))
	}

	stmts = append(stmts, w.a("R14", op), w.c("A", "M", "", op), w.c("", "0", "JMP", op))
	return stmts, nil
}

// ----------------------------------------------------------------------------
// Bootstrap

// WriteBootstrap emits 'SP=256' followed by a proper 'call Sys.init 0', the
// preamble a multi-file (directory mode) translation run is contracted to
// prepend exactly once, ahead of any translated module.
func (w *Writer) WriteBootstrap() []asm.Statement {
	preamble := []asm.Statement{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Comp: "A", Dest: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "D", Dest: "M"},
	}
	return append(preamble, w.WriteFuncCallOp(FuncCallOp{Name: "Sys.init", NArgs: 0})...)
}

// ----------------------------------------------------------------------------
// Shared idioms

// pushD appends the value in D to the stack and advances SP.
func (w *Writer) pushD(op Operation) []asm.Statement {
	return []asm.Statement{
		w.a("SP", op), w.c("A", "M", "", op), w.c("M", "D", "", op),
		w.a("SP", op), w.c("M", "M+1", "", op),
	}
}

// popD retreats SP and loads the value it now points past into D.
func (w *Writer) popD(op Operation) []asm.Statement {
	return []asm.Statement{w.a("SP", op), w.c("AM", "M-1", "", op), w.c("D", "M", "", op)}
}

func (w *Writer) a(location string, op Operation) asm.Statement {
	line, raw := lineOf(op)
	return asm.AInstruction{Location: location, Line: line, Raw: raw}
}

func (w *Writer) c(dest, comp, jump string, op Operation) asm.Statement {
	line, raw := lineOf(op)
	return asm.CInstruction{Dest: dest, Comp: comp, Jump: jump, Line: line, Raw: raw}
}

func (w *Writer) label(name string, op Operation) asm.Statement {
	line, raw := lineOf(op)
	return asm.LabelDecl{Name: name, Line: line, Raw: raw}
}

// lineOf recovers the originating source position from whichever Operation
// variant is being lowered, so every generated instruction still points back
// at the VM command it came from.
func lineOf(op Operation) (int, string) {
	switch t := op.(type) {
	case MemoryOp:
		return t.Line, t.Raw
	case ArithmeticOp:
		return t.Line, t.Raw
	case LabelDecl:
		return t.Line, t.Raw
	case GotoOp:
		return t.Line, t.Raw
	case FuncDecl:
		return t.Line, t.Raw
	case FuncCallOp:
		return t.Line, t.Raw
	case ReturnOp:
		return t.Line, t.Raw
	default:
		return 0, ""
	}
}
