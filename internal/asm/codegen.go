package asm

import (
	"fmt"
	"strings"

	"github.com/hmny-toolchain/n2t/internal/hack"
)

// ----------------------------------------------------------------------------
// Code Generator

// Takes a set of 'asm.Statement' and spits out their textual counterparts.
//
// This is the emitter the VM Translator drives: rather than encoding straight
// to Hack binary, it needs the intermediate '.asm' text representation, since
// that's the artifact the toolchain is contracted to produce for a VM input.
type CodeGenerator struct {
	program []Statement // The set of statements to convert to Asm textual format
}

// Initializes and returns to the caller a brand new 'CodeGenerator' struct.
func NewCodeGenerator(p []Statement) CodeGenerator {
	return CodeGenerator{program: p}
}

// Translate each statement in the 'program' field to the Asm textual format.
func (cg *CodeGenerator) Generate() ([]string, error) {
	asm := make([]string, 0, len(cg.program))

	for _, statement := range cg.program {
		var generated string
		var err error

		switch tStatement := statement.(type) {
		case AInstruction:
			generated, err = cg.GenerateAInst(tStatement)
		case CInstruction:
			generated, err = cg.GenerateCInst(tStatement)
		case LabelDecl:
			generated, err = cg.GenerateLabelDecl(tStatement)
		default:
			err = fmt.Errorf("unrecognized statement type '%T'", statement)
		}

		if err != nil {
			return nil, err
		}
		asm = append(asm, generated)
	}

	return asm, nil
}

// GenerateAInst converts an A Instruction to its '@location' textual form.
func (CodeGenerator) GenerateAInst(stmt AInstruction) (string, error) {
	if stmt.Location == "" {
		return "", fmt.Errorf("unable to produce an A Instruction with an empty location")
	}
	return fmt.Sprintf("@%s", stmt.Location), nil
}

// GenerateCInst converts a C Instruction to its '[dest=]comp[;jump]' textual
// form. 'Dest' and 'Jump' may be present together, either alone, or neither
// (a bare computation, e.g. a no-op used only for its side effects).
func (cg *CodeGenerator) GenerateCInst(stmt CInstruction) (string, error) {
	if stmt.Comp == "" {
		return "", fmt.Errorf("expected 'comp' directive in C Instruction")
	}

	var b strings.Builder
	if stmt.Dest != "" {
		fmt.Fprintf(&b, "%s=", stmt.Dest)
	}
	b.WriteString(stmt.Comp)
	if stmt.Jump != "" {
		fmt.Fprintf(&b, ";%s", stmt.Jump)
	}

	return b.String(), nil
}

// GenerateLabelDecl converts a label declaration to its '(name)' textual
// form, rejecting any attempt to shadow a predefined symbol.
func (cg *CodeGenerator) GenerateLabelDecl(stmt LabelDecl) (string, error) {
	if stmt.Name == "" {
		return "", fmt.Errorf("unable to produce a label declaration with an empty name")
	}
	if _, found := hack.BuiltInTable[stmt.Name]; found {
		return "", fmt.Errorf("unable to override built-in label '%s'", stmt.Name)
	}
	return fmt.Sprintf("(%s)", stmt.Name), nil
}
