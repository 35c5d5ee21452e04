package asm

import (
	"strings"

	"github.com/hmny-toolchain/n2t/internal/diag"
	"github.com/hmny-toolchain/n2t/internal/source"
)

// ----------------------------------------------------------------------------
// Asm Parser

// Parser turns already-normalized source lines into a flat asm.Program, one
// Statement per line. The Line Normalizer has already stripped comments and
// blank lines, so classification here only has to tell apart the three
// remaining statement shapes: a label declaration, an A Instruction, or a
// C Instruction.
type Parser struct{}

// Initializes and returns to the caller a brand new 'Parser' struct.
func NewParser() Parser {
	return Parser{}
}

// Parse splits 'text' into normalized lines and classifies each one in turn,
// stopping at the first malformed line encountered.
func (p Parser) Parse(text string) (Program, error) {
	lines := source.Normalize(text)
	program := make(Program, 0, len(lines))

	for _, line := range lines {
		stmt, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		program = append(program, stmt)
	}

	return program, nil
}

func (p Parser) parseLine(line source.Line) (Statement, error) {
	switch {
	case strings.HasPrefix(line.Text, "("):
		return p.parseLabelDecl(line)
	case strings.HasPrefix(line.Text, "@"):
		return AInstruction{Location: strings.TrimSpace(line.Text[1:]), Line: line.Number, Raw: line.Text}, nil
	default:
		return p.parseCInst(line)
	}
}

func (Parser) parseLabelDecl(line source.Line) (Statement, error) {
	if !strings.HasSuffix(line.Text, ")") || len(line.Text) < 3 {
		return nil, diag.New(diag.InvalidLabel, line.Number, line.Text, "malformed label declaration")
	}

	name := line.Text[1 : len(line.Text)-1]
	if !isIdent(name) {
		return nil, diag.New(diag.InvalidLabel, line.Number, line.Text, "label name '%s' is empty or not a valid identifier", name)
	}

	return LabelDecl{Name: name, Line: line.Number, Raw: line.Text}, nil
}

// parseCInst splits a C Instruction line into its '[dest=]comp[;jump]' fields
// per the grammar, then validates each non-empty field against its closed
// mnemonic set.
func (Parser) parseCInst(line source.Line) (Statement, error) {
	rest := line.Text

	dest := ""
	if idx := strings.Index(rest, "="); idx >= 0 {
		dest, rest = strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:])
	}

	comp, jump := rest, ""
	if idx := strings.Index(rest, ";"); idx >= 0 {
		comp, jump = strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:])
	}

	if dest != "" && !isDest(dest) {
		return nil, diag.New(diag.InvalidDestField, line.Number, line.Text, "unknown 'dest' mnemonic '%s'", dest)
	}
	if !isComp(comp) {
		return nil, diag.New(diag.InvalidCompField, line.Number, line.Text, "unknown 'comp' mnemonic '%s'", comp)
	}
	if jump != "" && !isJump(jump) {
		return nil, diag.New(diag.InvalidJumpField, line.Number, line.Text, "unknown 'jump' mnemonic '%s'", jump)
	}

	return CInstruction{Comp: comp, Dest: dest, Jump: jump, Line: line.Number, Raw: line.Text}, nil
}
