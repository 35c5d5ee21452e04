package vm

import (
	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Field grammar

// Segment names, arithmetic mnemonics, and label identifiers are each a small,
// fixed, enumerable vocabulary, validated with the same Ordered Choice style
// the Assembler package uses for its dest/comp/jump fields. The top-level VM
// command grammar itself stays a plain whitespace-token split (see
// parsing.go): it is open-ended across seven very differently shaped command
// forms, which goparsec's combinators buy nothing over a 'strings.Fields'
// switch for.
var fieldAST = pc.NewAST("vm-fields", 0)

var (
	pSegmentField = fieldAST.OrdChoice("segment", nil,
		pc.Atom("argument", "ARGUMENT"), pc.Atom("local", "LOCAL"),
		pc.Atom("static", "STATIC"), pc.Atom("constant", "CONSTANT"),
		pc.Atom("this", "THIS"), pc.Atom("that", "THAT"),
		pc.Atom("temp", "TEMP"), pc.Atom("pointer", "POINTER"),
	)

	pArithField = fieldAST.OrdChoice("arith", nil,
		pc.Atom("eq", "EQ"), pc.Atom("gt", "GT"), pc.Atom("lt", "LT"),
		pc.Atom("add", "ADD"), pc.Atom("sub", "SUB"), pc.Atom("neg", "NEG"),
		pc.Atom("not", "NOT"), pc.Atom("and", "AND"), pc.Atom("or", "OR"),
	)

	pIdentField = fieldAST.OrdChoice("ident", nil, pc.Token(`[A-Za-z_.$:][0-9a-zA-Z_.$:]*`, "SYMBOL"))
)

func matchField(parser pc.Parser, field string) bool {
	node, _ := fieldAST.Parsewith(parser, pc.NewScanner([]byte(field)))
	return node != nil && node.GetValue() == field
}

func isSegment(field string) SegmentType {
	matchField(pSegmentField, field)
	switch SegmentType(field) {
	case Argument, Local, Static, Constant, This, That, Temp, Pointer:
		return SegmentType(field)
	default:
		return ""
	}
}

func isArithOp(field string) ArithOpType {
	matchField(pArithField, field)
	switch ArithOpType(field) {
	case Eq, Gt, Lt, Add, Sub, Neg, Not, And, Or:
		return ArithOpType(field)
	default:
		return ""
	}
}

func isIdent(field string) bool {
	return matchField(pIdentField, field)
}
