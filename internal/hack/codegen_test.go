package hack_test

import (
	"fmt"
	"testing"

	"github.com/hmny-toolchain/n2t/internal/hack"
)

func TestGenerateAInst(t *testing.T) {
	table := hack.SymbolTable{"Test1": 0, "Test2": 67, "hmny": 9393, "n2t": 754, "JUMP": 90}
	codegen := hack.NewCodeGenerator(hack.Program{}, table)

	test := func(inst hack.AInstruction, expected string, fail bool) {
		res, err := codegen.GenerateAInst(inst)
		if !fail && res != expected {
			t.Errorf("GenerateAInst(%+v) = %q, want %q", inst, res, expected)
		}
		if (err != nil) != fail {
			t.Errorf("GenerateAInst(%+v) error = %v, wantErr %v", inst, err, fail)
		}
	}

	t.Run("Raw memory access", func(t *testing.T) {
		test(hack.AInstruction{LocType: hack.Raw, LocName: "38"}, fmt.Sprintf("%016b", 38), false)
		test(hack.AInstruction{LocType: hack.Raw, LocName: "32767"}, fmt.Sprintf("%016b", 32767), false)
		// Out of bounds: only 15 bits are available to address the Hack memory.
		test(hack.AInstruction{LocType: hack.Raw, LocName: "32768"}, "", true)
		test(hack.AInstruction{LocType: hack.Raw, LocName: "70000"}, "", true)
	})

	t.Run("Hack built-in labels", func(t *testing.T) {
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "SP"}, fmt.Sprintf("%016b", 0), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "LCL"}, fmt.Sprintf("%016b", 1), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "R13"}, fmt.Sprintf("%016b", 13), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "SCREEN"}, fmt.Sprintf("%016b", 16384), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "KBD"}, fmt.Sprintf("%016b", 24576), false)
	})

	t.Run("User-defined labels", func(t *testing.T) {
		test(hack.AInstruction{LocType: hack.Label, LocName: "Test1"}, fmt.Sprintf("%016b", table["Test1"]), false)
		test(hack.AInstruction{LocType: hack.Label, LocName: "JUMP"}, fmt.Sprintf("%016b", table["JUMP"]), false)
	})

	t.Run("Variable allocation starts at 16 and grows monotonically", func(t *testing.T) {
		fresh := hack.NewCodeGenerator(hack.Program{}, hack.SymbolTable{})
		first, err := fresh.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "i"})
		if err != nil || first != fmt.Sprintf("%016b", 16) {
			t.Fatalf("first unbound variable should resolve to 16, got %q (err=%v)", first, err)
		}
		second, err := fresh.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "sum"})
		if err != nil || second != fmt.Sprintf("%016b", 17) {
			t.Fatalf("second unbound variable should resolve to 17, got %q (err=%v)", second, err)
		}
		// Referencing 'i' again must resolve to the same address, not allocate a new one.
		again, err := fresh.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "i"})
		if err != nil || again != first {
			t.Fatalf("repeated reference to 'i' should resolve to the same address, got %q", again)
		}
	})
}

func TestGenerateCInst(t *testing.T) {
	codegen := hack.NewCodeGenerator(hack.Program{}, hack.SymbolTable{})

	test := func(inst hack.CInstruction, expected string, fail bool) {
		res, err := codegen.GenerateCInst(inst)
		if !fail && res != expected {
			t.Errorf("GenerateCInst(%+v) = %q, want %q", inst, res, expected)
		}
		if (err != nil) != fail {
			t.Errorf("GenerateCInst(%+v) error = %v, wantErr %v", inst, err, fail)
		}
	}

	t.Run("Concrete scenarios from the spec", func(t *testing.T) {
		test(hack.CInstruction{Comp: "A", Dest: "D"}, "1110110000010000", false)
		test(hack.CInstruction{Comp: "0", Jump: "JMP"}, "1110101010000111", false)
	})

	t.Run("Comps and jumps", func(t *testing.T) {
		test(hack.CInstruction{Comp: "M", Jump: ""}, "1111110000000000", false)
		test(hack.CInstruction{Comp: "A", Jump: ""}, "1110110000000000", false)
		test(hack.CInstruction{Comp: "0", Jump: "JGT"}, "1110101010000001", false)
		test(hack.CInstruction{Comp: "D+1", Jump: "JMP"}, "1110011111000111", false)
	})

	t.Run("Comps and dests", func(t *testing.T) {
		test(hack.CInstruction{Comp: "D+A", Dest: ""}, "1110000010000000", false)
		test(hack.CInstruction{Comp: "D&M", Dest: "A"}, "1111000000100000", false)
		test(hack.CInstruction{Comp: "-1", Dest: "AMD"}, "1110111010111000", false)
	})

	t.Run("Missing or unknown comp field", func(t *testing.T) {
		test(hack.CInstruction{Comp: "", Dest: "D"}, "", true)
		test(hack.CInstruction{Comp: "XYZ"}, "", true)
	})
}
