package vm_test

import (
	"testing"

	"github.com/hmny-toolchain/n2t/internal/asm"
	"github.com/hmny-toolchain/n2t/internal/vm"
)

func TestWriteMemoryOp(t *testing.T) {
	writer := vm.NewWriter()
	writer.SetClass("Main")

	t.Run("push constant", func(t *testing.T) {
		stmts, err := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 17})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stmts[0] != (asm.AInstruction{Location: "17"}) {
			t.Fatalf("expected first statement to load the constant, got %+v", stmts[0])
		}
	})

	t.Run("push and pop local round trip through LCL", func(t *testing.T) {
		push, err := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Push, Segment: vm.Local, Offset: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if push[0] != (asm.AInstruction{Location: "LCL"}) {
			t.Fatalf("expected push local to address LCL first, got %+v", push[0])
		}

		pop, err := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Pop, Segment: vm.Local, Offset: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pop[0] != (asm.AInstruction{Location: "LCL"}) {
			t.Fatalf("expected pop local to address LCL first, got %+v", pop[0])
		}
	})

	t.Run("pointer 0 and 1 address THIS and THAT directly", func(t *testing.T) {
		this, _ := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 0})
		if this[0] != (asm.AInstruction{Location: "THIS"}) {
			t.Fatalf("pointer 0 should address THIS, got %+v", this[0])
		}
		that, _ := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 1})
		if that[0] != (asm.AInstruction{Location: "THAT"}) {
			t.Fatalf("pointer 1 should address THAT, got %+v", that[0])
		}
	})

	t.Run("temp is namespaced to a direct register, not a pointer", func(t *testing.T) {
		stmts, _ := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Push, Segment: vm.Temp, Offset: 2})
		if stmts[0] != (asm.AInstruction{Location: "7"}) {
			t.Fatalf("temp 2 should address RAM[7], got %+v", stmts[0])
		}
	})

	t.Run("static is namespaced to the current module", func(t *testing.T) {
		stmts, _ := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Push, Segment: vm.Static, Offset: 3})
		if stmts[0] != (asm.AInstruction{Location: "Main.3"}) {
			t.Fatalf("expected static variable scoped to the module, got %+v", stmts[0])
		}
	})

	t.Run("pop constant is rejected", func(t *testing.T) {
		if _, err := writer.WriteMemoryOp(vm.MemoryOp{Operation: vm.Pop, Segment: vm.Constant, Offset: 0}); err == nil {
			t.Fatalf("expected an error for 'pop constant'")
		}
	})
}

func TestWriteArithmeticOp(t *testing.T) {
	writer := vm.NewWriter()

	t.Run("unary ops mutate the stack top in place", func(t *testing.T) {
		stmts, err := writer.WriteArithmeticOp(vm.ArithmeticOp{Operation: vm.Neg})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stmts) != 3 {
			t.Fatalf("expected a 3-instruction sequence for 'neg', got %d", len(stmts))
		}
	})

	t.Run("binary ops pop one operand and fold into the other", func(t *testing.T) {
		stmts, err := writer.WriteArithmeticOp(vm.ArithmeticOp{Operation: vm.Add})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stmts) != 5 {
			t.Fatalf("expected a 5-instruction sequence for 'add', got %d", len(stmts))
		}
	})

	t.Run("comparisons produce distinct, upper-cased labels each time", func(t *testing.T) {
		first, _ := writer.WriteArithmeticOp(vm.ArithmeticOp{Operation: vm.Eq})
		second, _ := writer.WriteArithmeticOp(vm.ArithmeticOp{Operation: vm.Eq})

		firstLabel := labelNamesOf(first)
		secondLabel := labelNamesOf(second)

		if len(firstLabel) != 2 || len(secondLabel) != 2 {
			t.Fatalf("expected exactly 2 label declarations per comparison, got %d and %d", len(firstLabel), len(secondLabel))
		}
		if firstLabel[0] == secondLabel[0] {
			t.Fatalf("two separate 'eq' ops must not reuse the same branch labels: %q", firstLabel[0])
		}
	})

	t.Run("unrecognized op is rejected", func(t *testing.T) {
		if _, err := writer.WriteArithmeticOp(vm.ArithmeticOp{Operation: vm.ArithOpType("xor")}); err == nil {
			t.Fatalf("expected an error for an unrecognized arithmetic operator")
		}
	})
}

func TestWriteControlFlow(t *testing.T) {
	writer := vm.NewWriter()

	t.Run("label is scoped to the current function", func(t *testing.T) {
		writer.WriteFuncDecl(vm.FuncDecl{Name: "Main.run", NLocal: 0})
		stmts := writer.WriteLabelDecl(vm.LabelDecl{Name: "LOOP"})
		if stmts[0] != (asm.LabelDecl{Name: "Main.run$LOOP"}) {
			t.Fatalf("expected a function-scoped label, got %+v", stmts[0])
		}
	})

	t.Run("unconditional goto needs no pop", func(t *testing.T) {
		stmts := writer.WriteGotoOp(vm.GotoOp{Jump: vm.Unconditional, Label: "LOOP"})
		if len(stmts) != 2 {
			t.Fatalf("expected a bare '@label; 0;JMP' pair, got %d statements", len(stmts))
		}
	})

	t.Run("conditional goto pops the branch condition first", func(t *testing.T) {
		stmts := writer.WriteGotoOp(vm.GotoOp{Jump: vm.Conditional, Label: "LOOP"})
		if len(stmts) <= 2 {
			t.Fatalf("expected the pop sequence ahead of the jump, got %d statements", len(stmts))
		}
	})
}

func TestWriteFunctionsAndCalls(t *testing.T) {
	t.Run("function zero-initializes its locals", func(t *testing.T) {
		writer := vm.NewWriter()
		stmts := writer.WriteFuncDecl(vm.FuncDecl{Name: "Main.sum", NLocal: 3})
		if stmts[0] != (asm.LabelDecl{Name: "Main.sum"}) {
			t.Fatalf("expected the function label first, got %+v", stmts[0])
		}
		pushes := 0
		for _, s := range stmts {
			if c, ok := s.(asm.CInstruction); ok && c.Dest == "M" && c.Comp == "D" {
				pushes++
			}
		}
		if pushes != 3 {
			t.Fatalf("expected 3 locals pushed as zero, got %d", pushes)
		}
	})

	t.Run("call plants a unique return label", func(t *testing.T) {
		writer := vm.NewWriter()
		first := writer.WriteFuncCallOp(vm.FuncCallOp{Name: "Main.helper", NArgs: 1})
		second := writer.WriteFuncCallOp(vm.FuncCallOp{Name: "Main.helper", NArgs: 1})

		if labelNamesOf(first)[0] == labelNamesOf(second)[0] {
			t.Fatalf("two calls to the same function must not share a return label")
		}
	})

	t.Run("return outside any function is rejected", func(t *testing.T) {
		writer := vm.NewWriter()
		if _, err := writer.WriteReturnOp(vm.ReturnOp{}); err == nil {
			t.Fatalf("expected an error for a 'return' with no enclosing function")
		}
	})

	t.Run("return inside a function succeeds", func(t *testing.T) {
		writer := vm.NewWriter()
		writer.WriteFuncDecl(vm.FuncDecl{Name: "Main.sum", NLocal: 0})
		if _, err := writer.WriteReturnOp(vm.ReturnOp{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestWriteBootstrap(t *testing.T) {
	writer := vm.NewWriter()
	stmts := writer.WriteBootstrap()

	if stmts[0] != (asm.AInstruction{Location: "256"}) {
		t.Fatalf("expected the bootstrap to load 256 first, got %+v", stmts[0])
	}
	if stmts[1] != (asm.CInstruction{Dest: "D", Comp: "A"}) {
		t.Fatalf("expected 'D=A' right after loading 256, got %+v", stmts[1])
	}

	foundCall := false
	for _, s := range stmts {
		if a, ok := s.(asm.AInstruction); ok && a.Location == "Sys.init" {
			foundCall = true
		}
	}
	if !foundCall {
		t.Fatalf("expected the bootstrap to call Sys.init, got %+v", stmts)
	}
}

func labelNamesOf(stmts []asm.Statement) []string {
	var names []string
	for _, s := range stmts {
		if l, ok := s.(asm.LabelDecl); ok {
			names = append(names, l.Name)
		}
	}
	return names
}
