// Package hack models the Hack machine ISA: A and C instructions, the
// predefined symbol table, and the binary encoding tables that translate
// both instruction kinds to their 16-bit machine code counterpart.
package hack

// Instruction puts together A and C instructions under a single type, use a
// type switch to disambiguate between the two in the codegen phase.
type Instruction interface{}

// Program is a flat, already-resolved sequence of Hack instructions, in the
// order they should be emitted.
type Program []Instruction

// SymbolTable maps a symbol name (predefined, label or variable) to its
// resolved address. All three strata share one namespace.
type SymbolTable map[string]uint16

// MaxAddressableMemory is the upper bound an A instruction can address: only
// 15 of its 16 bits are available once the leading opcode bit is reserved.
const MaxAddressableMemory uint16 = 1 << 15

// ----------------------------------------------------------------------------
// A Instructions

// AInstruction is the in-memory representation of a Hack A instruction.
//
// The A instruction has only one functionality in the Hack computer, it
// instructs the CPU to load a specific memory address from the computer
// memory (this includes both the RAM as well as the memory mapped I/O such
// as Keyboard and Screen).
//
// The location can be expressed in multiple ways:
//   - A raw memory address (e.g. 1, 2, 3)
//   - A user defined label (e.g. LOOP, ADD, TEMP)
//   - A built-in symbol from the Hack architecture spec (e.g. SP, THIS, THAT)
type AInstruction struct {
	LocType LocationType // The type of the location identified by 'LocName'
	LocName string       // The label/builtin/raw symbol itself
}

// LocationType enumerates the different kinds of location an AInstruction
// can reference.
type LocationType uint8

const (
	Raw     LocationType = iota // Raw address literal (e.g. @2345, @8989)
	Label                       // User-defined location (e.g. @MAIN, @LOOP)
	BuiltIn                     // Predefined association from the Hack spec (@SCREEN, @KBD, @R1)
)

// ----------------------------------------------------------------------------
// C Instructions

// CInstruction is the in-memory representation of a Hack C instruction.
//
// The C instruction handles the computation side of the Hack computer, it
// instructs the CPU on what operation to execute and which register to use,
// and optionally specifies a jump condition to alter the execution flow.
type CInstruction struct {
	Comp string // The 'computation' mnemonic, defines the calculation the CPU should perform
	Dest string // The 'destination' mnemonic, defines if/where the result should be saved
	Jump string // The 'jump' mnemonic, defines on what premise a jump should occur
}
