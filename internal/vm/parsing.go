package vm

import (
	"strconv"
	"strings"

	"github.com/hmny-toolchain/n2t/internal/diag"
	"github.com/hmny-toolchain/n2t/internal/source"
)

// ----------------------------------------------------------------------------
// Vm Parser

// Parser turns the normalized lines of a single '.vm' file into a flat
// Module. Each surviving line is whitespace-tokenized and classified by its
// leading keyword; the seven command shapes are different enough (bare
// keyword, keyword+label, keyword+name+count, keyword+segment+index) that a
// plain switch reads more directly than a parser-combinator grammar would.
type Parser struct{}

// Initializes and returns to the caller a brand new 'Parser' struct.
func NewParser() Parser {
	return Parser{}
}

// Parse splits 'text' into normalized lines and classifies each one in turn.
func (p Parser) Parse(text string) (Module, error) {
	lines := source.Normalize(text)
	module := make(Module, 0, len(lines))

	for _, line := range lines {
		op, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		module = append(module, op)
	}

	return module, nil
}

func (p Parser) parseLine(line source.Line) (Operation, error) {
	fields := strings.Fields(line.Text)
	keyword := fields[0]

	switch keyword {
	case "push", "pop":
		return p.parseMemoryOp(line, fields)
	case "add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not":
		return p.parseArithmeticOp(line, fields)
	case "label":
		return p.parseLabelDecl(line, fields)
	case "goto", "if-goto":
		return p.parseGotoOp(line, fields)
	case "function":
		return p.parseFuncDecl(line, fields)
	case "call":
		return p.parseFuncCallOp(line, fields)
	case "return":
		return p.parseReturnOp(line, fields)
	default:
		// Any keyword outside the reserved control words is treated as an
		// arithmetic op, and rejected right here with UnknownArithmeticOp if
		// it does not name one of the nine real operators.
		return p.parseArithmeticOp(line, fields)
	}
}

func (Parser) parseMemoryOp(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 3 {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected '%s <segment> <index>'", fields[0])
	}

	segment := isSegment(fields[1])
	if segment == "" {
		return nil, diag.New(diag.UnknownSegment, line.Number, line.Text, "unrecognized segment '%s'", fields[1])
	}

	index, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected a non-negative integer index, got '%s'", fields[2])
	}

	if segment == Pointer && index > 1 {
		return nil, diag.New(diag.InvalidPointerIndex, line.Number, line.Text, "'pointer' index must be 0 or 1, got %d", index)
	}

	op := OperationType(fields[0])
	// 'pop constant' tokenizes fine (constant is a real segment name) but is
	// semantically undefined: rejected at lowering time by the Writer, not
	// here, matching the permissive-parse/strict-lower split of spec.md.
	return MemoryOp{Operation: op, Segment: segment, Offset: uint16(index), Line: line.Number, Raw: line.Text}, nil
}

func (Parser) parseArithmeticOp(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 1 {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected a bare '%s' with no operands", fields[0])
	}

	op := isArithOp(fields[0])
	if op == "" {
		return nil, diag.New(diag.UnknownArithmeticOp, line.Number, line.Text, "unrecognized arithmetic operator '%s'", fields[0])
	}

	return ArithmeticOp{Operation: op, Line: line.Number, Raw: line.Text}, nil
}

func (Parser) parseLabelDecl(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 2 || !isIdent(fields[1]) {
		return nil, diag.New(diag.InvalidLabel, line.Number, line.Text, "expected 'label <name>'")
	}
	return LabelDecl{Name: fields[1], Line: line.Number, Raw: line.Text}, nil
}

func (Parser) parseGotoOp(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 2 || !isIdent(fields[1]) {
		return nil, diag.New(diag.InvalidLabel, line.Number, line.Text, "expected '%s <label>'", fields[0])
	}

	jump := Unconditional
	if fields[0] == "if-goto" {
		jump = Conditional
	}

	return GotoOp{Jump: jump, Label: fields[1], Line: line.Number, Raw: line.Text}, nil
}

func (Parser) parseFuncDecl(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 3 || !isIdent(fields[1]) {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected 'function <name> <n_locals>'")
	}

	n, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected a non-negative local count, got '%s'", fields[2])
	}

	return FuncDecl{Name: fields[1], NLocal: uint8(n), Line: line.Number, Raw: line.Text}, nil
}

func (Parser) parseFuncCallOp(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 3 || !isIdent(fields[1]) {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected 'call <name> <n_args>'")
	}

	n, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected a non-negative argument count, got '%s'", fields[2])
	}

	return FuncCallOp{Name: fields[1], NArgs: uint8(n), Line: line.Number, Raw: line.Text}, nil
}

func (Parser) parseReturnOp(line source.Line, fields []string) (Operation, error) {
	if len(fields) != 1 {
		return nil, diag.New(diag.UsageError, line.Number, line.Text, "expected a bare 'return' with no operands")
	}
	return ReturnOp{Line: line.Number, Raw: line.Text}, nil
}
