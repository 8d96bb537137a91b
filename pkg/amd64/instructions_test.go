package amd64

import (
	"bytes"
	"testing"
)

func TestPushPopReg(t *testing.T) {
	cases := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"push rax", PushReg(RAX), []byte{0x50}},
		{"push rsp", PushReg(RSP), []byte{0x54}},
		{"pop rdi", PopReg(RDI), []byte{0x5F}},
		{"ret", Ret(), []byte{0xC3}},
		{"syscall", Syscall(), []byte{0x0F, 0x05}},
	}
	for _, c := range cases {
		if !bytes.Equal(c.got, c.want) {
			t.Errorf("%s: got % x, want % x", c.name, c.got, c.want)
		}
	}
}

func TestPrologueEpilogueSequence(t *testing.T) {
	// push rbp; mov rbp, rsp; sub rsp, 0x2000 — the global prologue, which
	// the ELF writer relies on being the very first bytes of the code
	// region (the entry point, right after the headers).
	if got, want := PushReg(RBP), []byte{0x55}; !bytes.Equal(got, want) {
		t.Fatalf("push rbp: got % x, want % x", got, want)
	}
	if got, want := MovRegReg(RBP, RSP), []byte{0x48, 0x89, 0xE5}; !bytes.Equal(got, want) {
		t.Fatalf("mov rbp, rsp: got % x, want % x", got, want)
	}
	// Famous prologue bytes: 48 81 EC <imm32>.
	got := SubRspImm32(0x2000)
	want := []byte{0x48, 0x81, 0xEC, 0x00, 0x20, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("sub rsp, 0x2000: got % x, want % x", got, want)
	}
	// Epilogue tail after add rsp, imm32: pop rbp; ret.
	if got, want := PopReg(RBP), []byte{0x5D}; !bytes.Equal(got, want) {
		t.Fatalf("pop rbp: got % x, want % x", got, want)
	}
	if got, want := Ret(), []byte{0xC3}; !bytes.Equal(got, want) {
		t.Fatalf("ret: got % x, want % x", got, want)
	}
}

func TestAddRspImm32(t *testing.T) {
	got := AddRspImm32(0x400)
	want := []byte{0x48, 0x81, 0xC4, 0x00, 0x04, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("add rsp, 0x400: got % x, want % x", got, want)
	}
}

func TestMovRegImm64(t *testing.T) {
	got := MovRegImm64(RAX, 42)
	want := []byte{0x48, 0xB8, 42, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("mov rax, imm64: got % x, want % x", got, want)
	}
}

func TestLoadStoreRbpDisp(t *testing.T) {
	store := StoreRbpDisp(-8, RAX)
	want := []byte{0x48, 0x89, 0x85, 0xF8, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(store, want) {
		t.Fatalf("mov [rbp-8], rax: got % x, want % x", store, want)
	}

	load := LoadRbpDisp(RAX, -8)
	want2 := []byte{0x48, 0x8B, 0x85, 0xF8, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(load, want2) {
		t.Fatalf("mov rax, [rbp-8]: got % x, want % x", load, want2)
	}
}

func TestArithRegReg(t *testing.T) {
	if got, want := AddRegReg(RAX, RCX), []byte{0x48, 0x01, 0xC8}; !bytes.Equal(got, want) {
		t.Errorf("add rax, rcx: got % x, want % x", got, want)
	}
	if got, want := SubRegReg(RCX, RAX), []byte{0x48, 0x29, 0xC1}; !bytes.Equal(got, want) {
		t.Errorf("sub rcx, rax: got % x, want % x", got, want)
	}
	if got, want := ImulRegReg(RAX, RCX), []byte{0x48, 0x0F, 0xAF, 0xC1}; !bytes.Equal(got, want) {
		t.Errorf("imul rax, rcx: got % x, want % x", got, want)
	}
	if got, want := XorRegReg(RDX, RDX), []byte{0x48, 0x31, 0xD2}; !bytes.Equal(got, want) {
		t.Errorf("xor rdx, rdx: got % x, want % x", got, want)
	}
	if got, want := CmpRegReg(RCX, RAX), []byte{0x48, 0x39, 0xC1}; !bytes.Equal(got, want) {
		t.Errorf("cmp rcx, rax: got % x, want % x", got, want)
	}
}

func TestSetCCAndMovzx(t *testing.T) {
	if got, want := SetCC(CondE), []byte{0x0F, 0x94, 0xC0}; !bytes.Equal(got, want) {
		t.Errorf("sete al: got % x, want % x", got, want)
	}
	if got, want := MovzxRaxAl(), []byte{0x48, 0x0F, 0xB6, 0xC0}; !bytes.Equal(got, want) {
		t.Errorf("movzx rax, al: got % x, want % x", got, want)
	}
}

func TestBranchOpcodePrefixes(t *testing.T) {
	if got, want := JzOpcode(), []byte{0x0F, 0x84}; !bytes.Equal(got, want) {
		t.Errorf("jz opcode: got % x, want % x", got, want)
	}
	if got, want := JmpOpcode(), []byte{0xE9}; !bytes.Equal(got, want) {
		t.Errorf("jmp opcode: got % x, want % x", got, want)
	}
	if got, want := CallOpcode(), []byte{0xE8}; !bytes.Equal(got, want) {
		t.Errorf("call opcode: got % x, want % x", got, want)
	}
}

func TestStackByteHelpers(t *testing.T) {
	if got, want := MovzxRaxByteRsp(), []byte{0x48, 0x0F, 0xB6, 0x04, 0x24}; !bytes.Equal(got, want) {
		t.Errorf("movzx rax, byte [rsp]: got % x, want % x", got, want)
	}
	if got, want := MovRspAl(), []byte{0x88, 0x04, 0x24}; !bytes.Equal(got, want) {
		t.Errorf("mov [rsp], al: got % x, want % x", got, want)
	}
}

func TestArgRegister(t *testing.T) {
	want := []Register{RDI, RSI, RDX, RCX}
	for i, w := range want {
		got, ok := ArgRegister(i)
		if !ok || got != w {
			t.Errorf("ArgRegister(%d) = %v, %v; want %v, true", i, got, ok, w)
		}
	}
	if _, ok := ArgRegister(4); ok {
		t.Error("ArgRegister(4) should be out of range")
	}
}
