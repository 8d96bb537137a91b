// Package elf builds the minimal ELF64 executable wavec emits: one ELF
// header, one PT_LOAD program header, and the raw generated code — no
// section headers, no BSS, no dynamic linking. This package has no
// dependency on the compiler internals and can be used standalone.
package elf

import "encoding/binary"

// ELF64 constants
const (
	// ELF identification
	ELFMAG0       = 0x7f
	ELFMAG1       = 'E'
	ELFMAG2       = 'L'
	ELFMAG3       = 'F'
	ELFCLASS64    = 2
	ELFDATA2LSB   = 1 // Little endian
	EV_CURRENT    = 1
	ELFOSABI_NONE = 0

	// ELF types
	ET_EXEC = 2 // Executable file

	// Machine types
	EM_X86_64 = 62

	// Program header types
	PT_LOAD = 1

	// Program header flags
	PF_X = 0x1 // Execute
	PF_W = 0x2 // Write
	PF_R = 0x4 // Read

	// Sizes
	ELF64HeaderSize = 64
	ELF64PhdrSize   = 56
	PageAlign       = 0x1000

	// BaseAddr is the fixed virtual address the single PT_LOAD segment is
	// mapped at. The segment covers the ELF header, the program header,
	// and the code in one contiguous file region, so the entry point
	// always sits at BaseAddr + ELF64HeaderSize + ELF64PhdrSize.
	BaseAddr = 0x400000

	// EntryOffset is the fixed distance from BaseAddr to the first
	// generated instruction (the global prologue).
	EntryOffset = ELF64HeaderSize + ELF64PhdrSize // 0x78
)

// Header64 represents the ELF64 file header.
type Header64 struct {
	Ident     [16]byte // ELF identification
	Type      uint16   // Object file type
	Machine   uint16   // Machine type
	Version   uint32   // Object file version
	Entry     uint64   // Entry point address
	PhOff     uint64   // Program header offset
	ShOff     uint64   // Section header offset
	Flags     uint32   // Processor-specific flags
	EhSize    uint16   // ELF header size
	PhEntSize uint16   // Program header entry size
	PhNum     uint16   // Number of program headers
	ShEntSize uint16   // Section header entry size
	ShNum     uint16   // Number of section headers
	ShStrNdx  uint16   // Section name string table index
}

// Phdr64 represents an ELF64 program header.
type Phdr64 struct {
	Type   uint32 // Segment type
	Flags  uint32 // Segment flags
	Off    uint64 // File offset
	VAddr  uint64 // Virtual address
	PAddr  uint64 // Physical address
	FileSz uint64 // Size in file
	MemSz  uint64 // Size in memory
	Align  uint64 // Alignment
}

// Write produces the complete ELF64 executable image for the given code
// buffer at the standard BaseAddr load address — see spec §4.6 for the
// exact field layout.
func Write(code []byte) []byte {
	return WriteAtBase(code, BaseAddr)
}

// WriteAtBase is Write with the PT_LOAD virtual address overridden. This
// package has no dependency on the compiler internals or on wavec's own
// configuration plumbing; callers that want an env/flag-driven override
// (internal/driver does, via WAVEC_ENTRY_BASE) resolve the address
// themselves and pass it in here.
func WriteAtBase(code []byte, base uint64) []byte {
	total := uint64(ELF64HeaderSize + ELF64PhdrSize + len(code))

	hdr := Header64{
		Type:      ET_EXEC,
		Machine:   EM_X86_64,
		Version:   EV_CURRENT,
		Entry:     base + EntryOffset,
		PhOff:     ELF64HeaderSize,
		ShOff:     0,
		Flags:     0,
		EhSize:    ELF64HeaderSize,
		PhEntSize: ELF64PhdrSize,
		PhNum:     1,
		ShEntSize: ELF64HeaderSize, // spec pins e_shentsize=64 even with e_shnum=0
		ShNum:     0,
		ShStrNdx:  0,
	}
	hdr.Ident[0] = ELFMAG0
	hdr.Ident[1] = ELFMAG1
	hdr.Ident[2] = ELFMAG2
	hdr.Ident[3] = ELFMAG3
	hdr.Ident[4] = ELFCLASS64
	hdr.Ident[5] = ELFDATA2LSB
	hdr.Ident[6] = EV_CURRENT
	hdr.Ident[7] = ELFOSABI_NONE
	// Ident[8..15] are padding (already zero)

	phdr := Phdr64{
		Type:   PT_LOAD,
		Flags:  PF_R | PF_W | PF_X,
		Off:    0,
		VAddr:  base,
		PAddr:  base,
		FileSz: total,
		MemSz:  total,
		Align:  PageAlign,
	}

	out := make([]byte, 0, total)
	out = writeHeader(out, &hdr)
	out = writePhdr(out, &phdr)
	out = append(out, code...)
	return out
}

func writeHeader(out []byte, hdr *Header64) []byte {
	out = append(out, hdr.Ident[:]...)
	out = appendLE16(out, hdr.Type)
	out = appendLE16(out, hdr.Machine)
	out = appendLE32(out, hdr.Version)
	out = appendLE64(out, hdr.Entry)
	out = appendLE64(out, hdr.PhOff)
	out = appendLE64(out, hdr.ShOff)
	out = appendLE32(out, hdr.Flags)
	out = appendLE16(out, hdr.EhSize)
	out = appendLE16(out, hdr.PhEntSize)
	out = appendLE16(out, hdr.PhNum)
	out = appendLE16(out, hdr.ShEntSize)
	out = appendLE16(out, hdr.ShNum)
	out = appendLE16(out, hdr.ShStrNdx)
	return out
}

func writePhdr(out []byte, phdr *Phdr64) []byte {
	out = appendLE32(out, phdr.Type)
	out = appendLE32(out, phdr.Flags)
	out = appendLE64(out, phdr.Off)
	out = appendLE64(out, phdr.VAddr)
	out = appendLE64(out, phdr.PAddr)
	out = appendLE64(out, phdr.FileSz)
	out = appendLE64(out, phdr.MemSz)
	out = appendLE64(out, phdr.Align)
	return out
}

// Little-endian append helpers
func appendLE16(out []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(out, buf[:]...)
}

func appendLE32(out []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(out, buf[:]...)
}

func appendLE64(out []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(out, buf[:]...)
}
