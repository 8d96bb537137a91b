package wave

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/joulyman/wavec/pkg/amd64"
)

// globalPrologue is the fixed byte sequence every Compile() output begins
// with: push rbp; mov rbp, rsp; sub rsp, 0x2000.
func globalPrologue() []byte {
	var b []byte
	b = append(b, amd64.PushReg(amd64.RBP)...)
	b = append(b, amd64.MovRegReg(amd64.RBP, amd64.RSP)...)
	b = append(b, amd64.SubRspImm32(frameSizeTop)...)
	return b
}

func compileSrc(t *testing.T, src string) []byte {
	t.Helper()
	c, err := NewCompiler([]byte(src))
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	code, err := c.Compile()
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return code
}

func TestCompileEmptyProgramIsJustThePrologue(t *testing.T) {
	code := compileSrc(t, "")
	want := globalPrologue()
	if !bytes.Equal(code, want) {
		t.Errorf("Compile(\"\") = % x, want % x", code, want)
	}
}

func TestCompileOutEmitsJmpSkipAndWrite(t *testing.T) {
	code := compileSrc(t, `out "hi"`)
	prologue := globalPrologue()
	if !bytes.HasPrefix(code, prologue) {
		t.Fatal("generated code does not start with the global prologue")
	}
	rest := code[len(prologue):]
	if rest[0] != 0xE9 {
		t.Fatalf("first byte after prologue = %#x, want jmp opcode 0xE9", rest[0])
	}
	disp := int32(binary.LittleEndian.Uint32(rest[1:5]))
	// jmp's rel32 is relative to the end of the 5-byte jmp instruction; the
	// literal starts right there and the jmp lands just past it.
	jmpTarget := 5 + disp
	if int(jmpTarget) != 5+2 || !bytes.Equal(rest[5:5+2], []byte("hi")) {
		t.Errorf("jmp does not skip the literal at offset 5: rest=% x disp=%d", rest, disp)
	}
}

func TestCompileWhenPatchesJzToEndOfBlock(t *testing.T) {
	code := compileSrc(t, "when 1 { byte(65) }")
	prologue := globalPrologue()
	rest := code[len(prologue):]

	// mov rax, imm64 (10 bytes: 1 literal) then test rax,rax; jz rel32.
	movLen := len(amd64.MovRegImm64(amd64.RAX, 1))
	testLen := len(amd64.TestRegReg(amd64.RAX, amd64.RAX))
	jzOff := movLen + testLen
	if !bytes.Equal(rest[jzOff:jzOff+2], amd64.JzOpcode()) {
		t.Fatalf("expected jz opcode at offset %d, got % x", jzOff, rest[jzOff:jzOff+2])
	}
	slot := jzOff + 2
	disp := int32(binary.LittleEndian.Uint32(rest[slot : slot+4]))
	target := slot + 4 + int(disp)
	if target != len(rest) {
		t.Errorf("jz target = %d, want end of generated block %d", target, len(rest))
	}
}

func TestCompileLoopBreakPatchesPastBackedge(t *testing.T) {
	code := compileSrc(t, "loop { break }")
	prologue := globalPrologue()
	rest := code[len(prologue):]

	// loop body: break -> jmp rel32 (5 bytes); then back-edge jmp rel32 (5 bytes).
	if len(rest) != 10 {
		t.Fatalf("generated loop body length = %d, want 10", len(rest))
	}
	breakDisp := int32(binary.LittleEndian.Uint32(rest[1:5]))
	breakTarget := 5 + int(breakDisp)
	if breakTarget != len(rest) {
		t.Errorf("break target = %d, want %d (past the back-edge jmp)", breakTarget, len(rest))
	}

	backDisp := int32(binary.LittleEndian.Uint32(rest[6:10]))
	backTarget := 10 + int(backDisp)
	if backTarget != 0 {
		t.Errorf("back-edge target = %d, want 0 (loop start)", backTarget)
	}
}

func TestCompileBreakOutsideLoopFails(t *testing.T) {
	c, err := NewCompiler([]byte("break"))
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	if _, err := c.Compile(); err == nil {
		t.Error("Compile() with a top-level break should fail")
	}
}

func TestCompileVariableFrameOffsets(t *testing.T) {
	code := compileSrc(t, "a = 1\nb = 2\na = 3")
	prologue := globalPrologue()
	rest := code[len(prologue):]

	movLen := len(amd64.MovRegImm64(amd64.RAX, 1))
	storeLen := len(amd64.StoreRbpDisp(-8, amd64.RAX))

	// First assignment: mov rax,1; mov [rbp-8], rax  (offset for 1st var = 8).
	off := movLen
	store1 := rest[off : off+storeLen]
	want1 := amd64.StoreRbpDisp(-8, amd64.RAX)
	if !bytes.Equal(store1, want1) {
		t.Errorf("first store = % x, want % x", store1, want1)
	}

	// Second assignment: mov [rbp-16], rax (2nd unique var).
	off += storeLen + movLen
	store2 := rest[off : off+storeLen]
	want2 := amd64.StoreRbpDisp(-16, amd64.RAX)
	if !bytes.Equal(store2, want2) {
		t.Errorf("second store = % x, want % x", store2, want2)
	}

	// Third assignment re-uses "a" -> offset -8 again.
	off += storeLen + movLen
	store3 := rest[off : off+storeLen]
	if !bytes.Equal(store3, want1) {
		t.Errorf("third store (redefine a) = % x, want % x", store3, want1)
	}
}

func TestCompileForwardCallIsPatched(t *testing.T) {
	code := compileSrc(t, "greet()\nfn greet { -> 1 }")
	prologue := globalPrologue()
	rest := code[len(prologue):]

	if rest[0] != 0xE8 {
		t.Fatalf("first byte = %#x, want call opcode 0xE8", rest[0])
	}
	disp := int32(binary.LittleEndian.Uint32(rest[1:5]))
	callSiteEnd := 5
	target := callSiteEnd + int(disp)

	// fn's entry is the jmp-skip (5 bytes) past the call site.
	wantEntry := callSiteEnd + 5
	if target != wantEntry {
		t.Errorf("forward call target = %d, want %d", target, wantEntry)
	}
}

func TestCompileUndeclaredCallPatchesZero(t *testing.T) {
	code := compileSrc(t, "mystery()")
	prologue := globalPrologue()
	rest := code[len(prologue):]
	disp := int32(binary.LittleEndian.Uint32(rest[1:5]))
	if disp != 0 {
		t.Errorf("call to undeclared function: disp = %d, want 0", disp)
	}
}

func TestCompileFnDefaultZeroEpilogue(t *testing.T) {
	code := compileSrc(t, "fn noop { byte(65) }")
	prologue := globalPrologue()
	rest := code[len(prologue):]

	xorRax := amd64.XorRegReg(amd64.RAX, amd64.RAX)
	if !bytes.Contains(rest, append(append([]byte{}, xorRax...), amd64.AddRspImm32(frameSizeFn)...)) {
		t.Error("expected default-zero epilogue (xor rax,rax; add rsp,0x400) before ret")
	}
	if !bytes.HasSuffix(rest, amd64.Ret()) {
		t.Error("function body should end in ret (before the outer jmp-skip target)")
	}
}

func TestPreScanDeclaresFunctionsAndResetsCursor(t *testing.T) {
	c, err := NewCompiler([]byte("fn add a b { -> a + b }\nadd(1, 2)"))
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	if err := c.PreScan(); err != nil {
		t.Fatalf("PreScan: %v", err)
	}
	if c.cur.Pos() != 0 {
		t.Errorf("cursor after PreScan at %d, want 0", c.cur.Pos())
	}
	fn, ok := c.funcs.Lookup("add")
	if !ok {
		t.Fatal("PreScan did not declare \"add\"")
	}
	if fn.paramCount != 2 {
		t.Errorf("paramCount = %d, want 2", fn.paramCount)
	}
}

func TestCompileSourceTooLarge(t *testing.T) {
	big := make([]byte, maxSourceSize+1)
	if _, err := NewCompiler(big); err == nil {
		t.Error("NewCompiler should fail past the 1 MiB source limit")
	}
}
