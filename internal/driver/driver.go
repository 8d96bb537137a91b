// Package driver wires the Wave code generator to the ELF64 writer into
// the one-shot compile lifetime named in spec §2/§4.6: input -> scan ->
// codegen -> ELF-write, with a single owner for the whole run.
package driver

import (
	"os"

	"github.com/joulyman/wavec/internal/wave"
	"github.com/joulyman/wavec/pkg/elf"
	"github.com/xyproto/env/v2"
)

// entryBase resolves the PT_LOAD virtual address: the fixed
// elf.BaseAddr (0x400000) from spec §4.6, unless WAVEC_ENTRY_BASE is set —
// an opt-in override so tests can probe alternate link addresses without
// touching argv. Unset in normal use, so normal builds always get
// elf.BaseAddr.
func entryBase() uint64 {
	return uint64(env.Int("WAVEC_ENTRY_BASE", int(elf.BaseAddr)))
}

// BuildELF compiles Wave source into a complete ELF64 executable image.
func BuildELF(src []byte) ([]byte, error) {
	c, err := wave.NewCompiler(src)
	if err != nil {
		return nil, err
	}
	code, err := c.Compile()
	if err != nil {
		return nil, err
	}
	return elf.WriteAtBase(code, entryBase()), nil
}

// CompileFile reads input, compiles it, and writes the resulting
// executable to output with mode 0755 (spec §6).
func CompileFile(input, output string) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return wave.Fail("could not read input file")
	}
	out, err := BuildELF(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0755); err != nil {
		return wave.Fail("could not write output file")
	}
	return nil
}
