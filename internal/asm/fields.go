package asm

import (
	pc "github.com/prataprc/goparsec"

	"github.com/hmny-toolchain/n2t/internal/hack"
)

// ----------------------------------------------------------------------------
// Field grammar

// The dest/comp/jump mnemonics are a small, fixed, enumerable vocabulary, the
// case goparsec's Ordered Choice combinators are built for. Each combinator
// below validates exactly one already-split field of a C Instruction against
// its closed grammar; the final say on membership is still the translation
// table in 'internal/hack' (the single source of truth the Pass-2 Emitter
// also consults), so these combinators are a structural cross-check rather
// than a second, possibly-diverging, authority.
var fieldAST = pc.NewAST("asm-fields", 0)

var (
	// NOTE: 'AMD' must be tried before its own prefixes ('AM', 'AD', ...) or
	// the shorter alternative would match first and leave a dangling 'D'.
	pDestField = fieldAST.OrdChoice("dest", nil,
		pc.Atom("AMD", "AMD"), pc.Atom("AM", "AM"), pc.Atom("AD", "AD"), pc.Atom("MD", "MD"),
		pc.Atom("D", "D"), pc.Atom("A", "A"), pc.Atom("M", "M"),
	)

	// NOTE: longer mnemonics are listed before the single-char ones they
	// would otherwise be shadowed by under a naive left-to-right match.
	pCompField = fieldAST.OrdChoice("comp", nil,
		pc.Atom("D&A", "D&A"), pc.Atom("D&M", "D&M"),
		pc.Atom("D|A", "D|A"), pc.Atom("D|M", "D|M"),
		pc.Atom("D+A", "D+A"), pc.Atom("D+M", "D+M"),
		pc.Atom("D-A", "D-A"), pc.Atom("D-M", "D-M"),
		pc.Atom("A-D", "A-D"), pc.Atom("M-D", "M-D"),
		pc.Atom("D+1", "D+1"), pc.Atom("A+1", "A+1"), pc.Atom("M+1", "M+1"),
		pc.Atom("D-1", "D-1"), pc.Atom("A-1", "A-1"), pc.Atom("M-1", "M-1"),
		pc.Atom("!D", "!D"), pc.Atom("!A", "!A"), pc.Atom("!M", "!M"),
		pc.Atom("-D", "-D"), pc.Atom("-A", "-A"), pc.Atom("-M", "-M"),
		pc.Atom("-1", "-1"), pc.Atom("0", "0"), pc.Atom("1", "1"),
		pc.Atom("D", "D"), pc.Atom("A", "A"), pc.Atom("M", "M"),
	)

	pJumpField = fieldAST.OrdChoice("jump", nil,
		pc.Atom("JNE", "JNE"), pc.Atom("JEQ", "JEQ"),
		pc.Atom("JGT", "JGT"), pc.Atom("JGE", "JGE"),
		pc.Atom("JLT", "JLT"), pc.Atom("JLE", "JLE"),
		pc.Atom("JMP", "JMP"),
	)

	// Identifier shape for label names and A-instruction symbols: any
	// sequence of letters, digits, and the symbols '_', '.', '$', ':', that
	// does not start with a digit.
	pIdentField = fieldAST.OrdChoice("ident", nil, pc.Token(`[A-Za-z_.$:][0-9a-zA-Z_.$:]*`, "SYMBOL"))
)

func matchField(parser pc.Parser, field string) bool {
	node, _ := fieldAST.Parsewith(parser, pc.NewScanner([]byte(field)))
	return node != nil && node.GetValue() == field
}

func isDest(field string) bool {
	matchField(pDestField, field)
	_, found := hack.DestTable[field]
	return found
}

func isComp(field string) bool {
	matchField(pCompField, field)
	_, found := hack.CompTable[field]
	return found
}

func isJump(field string) bool {
	matchField(pJumpField, field)
	_, found := hack.JumpTable[field]
	return found
}

func isIdent(field string) bool {
	return matchField(pIdentField, field)
}
