package wave

import "encoding/binary"

// maxCodeSize bounds the code buffer at 4 MiB (spec §5 resource budget).
const maxCodeSize = 4 << 20

// CodeBuffer is an append-only byte sequence. Its current length doubles
// as the "current code offset" used for branch targets; no byte once
// written is removed, only zero-filled 4-byte slots reserved by
// ReserveU32 may later be overwritten, via PatchU32, before end of
// compile.
type CodeBuffer struct {
	data       []byte
	overflowed bool
}

// NewCodeBuffer returns an empty buffer.
func NewCodeBuffer() *CodeBuffer {
	return &CodeBuffer{data: make([]byte, 0, 4096)}
}

// Len returns the current code offset.
func (b *CodeBuffer) Len() int { return len(b.data) }

// CurrentOffset is an alias for Len, named to match spec terminology.
func (b *CodeBuffer) CurrentOffset() int { return len(b.data) }

// Bytes returns the accumulated code.
func (b *CodeBuffer) Bytes() []byte { return b.data }

// Overflowed reports whether any emit since construction exceeded the
// 4 MiB capacity; once true, further emits are silently dropped and the
// caller must treat the compile as failed.
func (b *CodeBuffer) Overflowed() bool { return b.overflowed }

func (b *CodeBuffer) reserve(n int) bool {
	if b.overflowed {
		return false
	}
	if len(b.data)+n > maxCodeSize {
		b.overflowed = true
		return false
	}
	return true
}

// EmitU8 appends a single byte.
func (b *CodeBuffer) EmitU8(v byte) {
	if !b.reserve(1) {
		return
	}
	b.data = append(b.data, v)
}

// EmitBytes appends an arbitrary byte sequence (instruction encodings,
// decoded string literals, raw `emit` payloads).
func (b *CodeBuffer) EmitBytes(bs []byte) {
	if !b.reserve(len(bs)) {
		return
	}
	b.data = append(b.data, bs...)
}

// EmitU24 appends a little-endian 3-byte value.
func (b *CodeBuffer) EmitU24(v uint32) {
	if !b.reserve(3) {
		return
	}
	b.data = append(b.data, byte(v), byte(v>>8), byte(v>>16))
}

// EmitU32 appends a little-endian 4-byte value.
func (b *CodeBuffer) EmitU32(v uint32) {
	if !b.reserve(4) {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.data = append(b.data, buf[:]...)
}

// EmitU64 appends a little-endian 8-byte value.
func (b *CodeBuffer) EmitU64(v uint64) {
	if !b.reserve(8) {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.data = append(b.data, buf[:]...)
}

// ReserveU32 appends a zero-filled 4-byte slot and returns its offset, to
// be patched later once its target is known.
func (b *CodeBuffer) ReserveU32() int {
	off := len(b.data)
	b.EmitU32(0)
	return off
}

// PatchU32 overwrites the 4-byte slot at off (previously returned by
// ReserveU32) with v, little-endian.
func (b *CodeBuffer) PatchU32(off int, v uint32) {
	if off+4 > len(b.data) {
		return
	}
	binary.LittleEndian.PutUint32(b.data[off:off+4], v)
}
