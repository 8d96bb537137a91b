package amd64

// This file contains x86_64 instruction encoders for the general-purpose
// register set wavec's codegen needs (rax, rcx, rdx, rbx, rsp, rbp, rsi,
// rdi). Each function returns the machine code bytes for one instruction.
// Variable-length jumps and calls whose target isn't known yet at emit time
// are split into a fixed opcode prefix (returned here) plus a 4-byte rel32
// slot the caller reserves and patches separately.
//
// For details on x86-64 instruction encoding (REX prefixes, ModRM, SIB
// bytes), see: https://wiki.osdev.org/X86-64_Instruction_Encoding

// PushReg encodes: push reg (50+r)
func PushReg(r Register) []byte {
	return []byte{0x50 + byte(r)&7}
}

// PopReg encodes: pop reg (58+r)
func PopReg(r Register) []byte {
	return []byte{0x58 + byte(r)&7}
}

// Ret encodes: ret (C3)
func Ret() []byte {
	return []byte{0xC3}
}

// Syscall encodes: syscall (0F 05)
func Syscall() []byte {
	return []byte{0x0F, 0x05}
}

// MovRegReg encodes: mov dst, src (REX.W 89 /r)
// MOV r/m64, r64 — ModRM reg field carries the source, rm carries dest.
func MovRegReg(dst, src Register) []byte {
	return []byte{rexW, 0x89, modrmDirect(src, dst)}
}

// MovRegImm32 encodes: mov dst, imm32 (REX.W C7 /0 id)
// The immediate is sign-extended to 64 bits by the CPU.
func MovRegImm32(dst Register, imm32 int32) []byte {
	buf := make([]byte, 7)
	buf[0] = rexW
	buf[1] = 0xC7
	buf[2] = 0xC0 | byte(dst)&7
	writeLE32(buf[3:], uint32(imm32))
	return buf
}

// MovRegImm64 encodes: mov dst, imm64 (REX.W (B8+r) io)
func MovRegImm64(dst Register, imm64 uint64) []byte {
	buf := make([]byte, 10)
	buf[0] = rexW
	buf[1] = 0xB8 + byte(dst)&7
	writeLE64(buf[2:], imm64)
	return buf
}

// StoreRbpDisp encodes: mov [rbp+disp32], src (REX.W 89 /r)
// ModRM mod=10 (disp32), rm=101 selects [rbp+disp32] addressing; rbp's rm
// encoding of 101 can never use the mod=00 short form, so disp32 is always
// written explicitly here even when it is zero.
func StoreRbpDisp(disp32 int32, src Register) []byte {
	buf := make([]byte, 7)
	buf[0] = rexW
	buf[1] = 0x89
	buf[2] = 0x80 | (byte(src)&7)<<3 | byte(RBP)
	writeLE32(buf[3:], uint32(disp32))
	return buf
}

// LoadRbpDisp encodes: mov dst, [rbp+disp32] (REX.W 8B /r)
func LoadRbpDisp(dst Register, disp32 int32) []byte {
	buf := make([]byte, 7)
	buf[0] = rexW
	buf[1] = 0x8B
	buf[2] = 0x80 | (byte(dst)&7)<<3 | byte(RBP)
	writeLE32(buf[3:], uint32(disp32))
	return buf
}

// SubRspImm32 encodes: sub rsp, imm32 (REX.W 81 /5 id)
func SubRspImm32(imm32 int32) []byte {
	buf := make([]byte, 7)
	buf[0] = rexW
	buf[1] = 0x81
	buf[2] = 0xEC // mod=11 reg=101(/5) rm=100(rsp)
	writeLE32(buf[3:], uint32(imm32))
	return buf
}

// AddRspImm32 encodes: add rsp, imm32 (REX.W 81 /0 id)
func AddRspImm32(imm32 int32) []byte {
	buf := make([]byte, 7)
	buf[0] = rexW
	buf[1] = 0x81
	buf[2] = 0xC4 // mod=11 reg=000(/0) rm=100(rsp)
	writeLE32(buf[3:], uint32(imm32))
	return buf
}

// AddRegReg encodes: add dst, src (REX.W 01 /r)
func AddRegReg(dst, src Register) []byte {
	return []byte{rexW, 0x01, modrmDirect(src, dst)}
}

// SubRegReg encodes: sub dst, src (REX.W 29 /r)
func SubRegReg(dst, src Register) []byte {
	return []byte{rexW, 0x29, modrmDirect(src, dst)}
}

// ImulRegReg encodes: imul dst, src (REX.W 0F AF /r)
// Unlike the other two-operand ALU ops, IMUL's ModRM reg field carries the
// destination and rm carries the source.
func ImulRegReg(dst, src Register) []byte {
	return []byte{rexW, 0x0F, 0xAF, modrmDirect(dst, src)}
}

// XorRegReg encodes: xor dst, src (REX.W 31 /r)
func XorRegReg(dst, src Register) []byte {
	return []byte{rexW, 0x31, modrmDirect(src, dst)}
}

// IdivReg encodes: idiv divisor (REX.W F7 /7)
// Divides the 128-bit value rdx:rax by divisor; quotient lands in rax,
// remainder in rdx. Caller primes rdx beforehand.
func IdivReg(divisor Register) []byte {
	return []byte{rexW, 0xF7, 0xF8 | byte(divisor)&7}
}

// CmpRegReg encodes: cmp dst, src (REX.W 39 /r)
// Computes dst - src and sets flags; dst is unmodified.
func CmpRegReg(dst, src Register) []byte {
	return []byte{rexW, 0x39, modrmDirect(src, dst)}
}

// TestRegReg encodes: test a, b (REX.W 85 /r)
func TestRegReg(a, b Register) []byte {
	return []byte{rexW, 0x85, modrmDirect(b, a)}
}

// Condition identifies a SETcc condition code.
type Condition uint8

const (
	CondE  Condition = 0x94 // equal / zero
	CondNE Condition = 0x95 // not equal / not zero
	CondG  Condition = 0x9F // signed greater
	CondGE Condition = 0x9D // signed greater or equal
	CondL  Condition = 0x9C // signed less
	CondLE Condition = 0x9E // signed less or equal
)

// SetCC encodes: setCC al (0F <cc> C0)
// SETcc's ModRM reg field is an unused opcode extension; al is register 0,
// so no REX prefix is needed.
func SetCC(cc Condition) []byte {
	return []byte{0x0F, byte(cc), 0xC0}
}

// MovzxRaxAl encodes: movzx rax, al (REX.W 0F B6 /r)
func MovzxRaxAl() []byte {
	return []byte{rexW, 0x0F, 0xB6, 0xC0}
}

// JzOpcode returns the fixed opcode prefix for `jz rel32` (0F 84); the
// caller reserves and later patches the trailing 4-byte displacement.
func JzOpcode() []byte {
	return []byte{0x0F, 0x84}
}

// JmpOpcode returns the fixed opcode prefix for `jmp rel32` (E9).
func JmpOpcode() []byte {
	return []byte{0xE9}
}

// CallOpcode returns the fixed opcode prefix for `call rel32` (E8).
func CallOpcode() []byte {
	return []byte{0xE8}
}

// LeaRipRel encodes: lea dst, [rip+disp32] (REX.W 8D /r)
// ModRM mod=00, rm=101 is the RIP-relative addressing form in 64-bit mode.
func LeaRipRel(dst Register, disp32 int32) []byte {
	buf := make([]byte, 7)
	buf[0] = rexW
	buf[1] = 0x8D
	buf[2] = (byte(dst)&7)<<3 | 0x05
	writeLE32(buf[3:], uint32(disp32))
	return buf
}

// MovzxRaxByteRsp encodes: movzx rax, byte [rsp] (REX.W 0F B6 04 24)
// [rsp] always needs a SIB byte since rm=100 can't be expressed without one.
func MovzxRaxByteRsp() []byte {
	return []byte{rexW, 0x0F, 0xB6, 0x04, 0x24}
}

// MovRspAl encodes: mov [rsp], al (88 04 24)
// 8-bit al needs no REX prefix.
func MovRspAl() []byte {
	return []byte{0x88, 0x04, 0x24}
}
