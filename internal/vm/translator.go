package vm

import "github.com/hmny-toolchain/n2t/internal/asm"

// ----------------------------------------------------------------------------
// Translator

// Translate runs the full pipeline over 'program': lowering every module to
// Hack assembly statements (prepending the bootstrap preamble when
// 'bootstrap' is set) and rendering the result to '.asm' text lines. It is
// the single entrypoint 'cmd/vmtranslate' drives.
func Translate(program Program, bootstrap bool) ([]string, error) {
	lowered, err := NewLowerer(program, bootstrap).Lower()
	if err != nil {
		return nil, err
	}

	codegen := asm.NewCodeGenerator(lowered)
	return codegen.Generate()
}
