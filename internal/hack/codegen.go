package hack

import (
	"fmt"
	"strconv"
)

// ----------------------------------------------------------------------------
// Translation tables

// This section contains the translation tables cornerstone of the codegen
// phase. Each maps a mnemonic used in the source instructions to its bit
// pattern in the 16-bit encoded instruction:
//   - 'BuiltInTable': translates BuiltIn labels in A instructions to their address
//   - 'CompTable': translates the 'Comp' mnemonic in C instructions
//   - 'DestTable': translates the 'Dest' mnemonic in C instructions
//   - 'JumpTable': translates the 'Jump' mnemonic in C instructions
var (
	BuiltInTable = map[string]uint16{
		// Virtual Machine specific aliases (see project 7)
		"SP": 0, "LCL": 1, "ARG": 2, "THIS": 3, "THAT": 4,
		// Named general purpose registers
		"R0": 0, "R1": 1, "R2": 2, "R3": 3, "R4": 4, "R5": 5,
		"R6": 6, "R7": 7, "R8": 8, "R9": 9, "R10": 10, "R11": 11,
		"R12": 12, "R13": 13, "R14": 14, "R15": 15,
		// Memory mapped I/O locations
		"SCREEN": 16384, "KBD": 24576,
	}

	CompTable = map[string]uint16{
		// - Constants and identities
		"0": 0b0101010, "1": 0b0111111, "-1": 0b0111010,
		"D": 0b0001100, "A": 0b0110000, "M": 0b1110000,
		// - Binary and numerical negations
		"!D": 0b0001101, "!A": 0b0110001, "!M": 0b1110001,
		"-D": 0b0001111, "-A": 0b0110011, "-M": 0b1110011,
		// - Increment and decrement operations
		"D+1": 0b0011111, "A+1": 0b0110111, "M+1": 0b1110111,
		"D-1": 0b0001110, "A-1": 0b0110010, "M-1": 0b1110010,
		// - Register with register operations
		"D+A": 0b0000010, "D+M": 0b1000010,
		"D-A": 0b0010011, "D-M": 0b1010011,
		"A-D": 0b0000111, "M-D": 0b1000111,
		// - Bitwise register with register operations
		"D&A": 0b0000000, "D&M": 0b1000000,
		"D|A": 0b0010101, "D|M": 0b1010101,
	}

	DestTable = map[string]uint16{
		"": 0b000, "M": 0b001, "D": 0b010, "A": 0b100,
		"MD": 0b011, "AM": 0b101, "AD": 0b110, "AMD": 0b111,
	}

	JumpTable = map[string]uint16{
		"": 0b000, "JGT": 0b001, "JEQ": 0b010, "JGE": 0b011,
		"JLT": 0b100, "JNE": 0b101, "JLE": 0b110, "JMP": 0b111,
	}
)

// ----------------------------------------------------------------------------
// Code Generator

// CodeGenerator takes a set of 'hack.Instruction' and produces their binary
// counterpart (Pass-2 Emitter).
//
// User-defined labels are resolved through the injected SymbolTable; any
// A-instruction symbol not already bound (by predefined registers or by a
// prior label declaration) is treated as a new variable and allocated the
// next consecutive address starting from RAM[16].
type CodeGenerator struct {
	program    Program     // The set of instructions to convert to Hack binary format
	table      SymbolTable // Resolves user-defined labels/variables to their address
	nVarOffset uint16      // Offset used to allocate memory for new variables
}

// NewCodeGenerator initializes a CodeGenerator for the given Program 'p',
// resolving labels/variables against the (possibly pre-seeded) SymbolTable 'st'.
func NewCodeGenerator(p Program, st SymbolTable) CodeGenerator {
	if st == nil {
		st = SymbolTable{}
	}
	return CodeGenerator{program: p, table: st}
}

// Generate translates each instruction in the Program to its Hack binary
// representation, in program order.
func (cg *CodeGenerator) Generate() ([]string, error) {
	binary := make([]string, 0, len(cg.program))

	for _, instruction := range cg.program {
		var generated string
		var err error

		switch tInstruction := instruction.(type) {
		case AInstruction:
			generated, err = cg.GenerateAInst(tInstruction)
		case CInstruction:
			generated, err = cg.GenerateCInst(tInstruction)
		default:
			err = fmt.Errorf("unrecognized instruction type '%T'", instruction)
		}

		if err != nil {
			return nil, err
		}
		binary = append(binary, generated)
	}

	return binary, nil
}

// GenerateAInst converts a single A instruction to its Hack binary format.
//
// Labels not yet bound in the SymbolTable are lazily allocated as variables,
// starting from RAM[16] and growing by one for every distinct new symbol
// encountered, in order of first occurrence.
func (cg *CodeGenerator) GenerateAInst(inst AInstruction) (string, error) {
	found, address := false, uint16(0)

	switch inst.LocType {
	case Raw: // Translate the raw address from 'string' to 'int'
		num, err := strconv.ParseInt(inst.LocName, 10, 16)
		address, found = uint16(num), err == nil
	case Label: // Lookup the label name in the provided SymbolTable
		address, found = cg.table[inst.LocName]
		if !found {
			// Not bound yet: allocate a fresh variable location
			address, found = 16+cg.nVarOffset, true
			cg.table[inst.LocName] = address
			cg.nVarOffset++
		}
	case BuiltIn: // Lookup the registry name in the predefined table
		address, found = BuiltInTable[inst.LocName]
	}

	if !found {
		return "", fmt.Errorf("unable to resolve address for location '%s'", inst.LocName)
	}
	// An A instruction always has its first bit set to zero (the opcode bit), which
	// leaves only 15 bits to address the Hack memory: addresses at or above 2^15 are
	// out of bounds.
	if address >= MaxAddressableMemory {
		return "", fmt.Errorf("location '%s' resolved to an address not allowed", inst.LocName)
	}
	return fmt.Sprintf("%016b", address), nil
}

// GenerateCInst converts a single C instruction to its Hack binary format.
func (cg *CodeGenerator) GenerateCInst(inst CInstruction) (string, error) {
	command := uint16(0b111 << 13) // The leading '111' opcode

	opcode, found := CompTable[inst.Comp]
	if inst.Comp == "" || !found {
		return "", fmt.Errorf("unable to translate C instruction, unknown 'comp' mnemonic '%s'", inst.Comp)
	}
	command |= opcode << 6

	if opcode, found := DestTable[inst.Dest]; found {
		command |= opcode << 3
	} else {
		return "", fmt.Errorf("unable to translate C instruction, unknown 'dest' mnemonic '%s'", inst.Dest)
	}

	if opcode, found := JumpTable[inst.Jump]; found {
		command |= opcode
	} else {
		return "", fmt.Errorf("unable to translate C instruction, unknown 'jump' mnemonic '%s'", inst.Jump)
	}

	return fmt.Sprintf("%016b", command), nil
}
