package wave

import "github.com/joulyman/wavec/pkg/amd64"

// maxSourceSize bounds source input at 1 MiB (spec §6).
const maxSourceSize = 1 << 20

// Frame sizes from spec §4.4/§9: every function reserves a fixed 0x400
// bytes, the top-level program reserves 0x2000.
const (
	frameSizeFn  = 0x400
	frameSizeTop = 0x2000
)

// Compiler holds all per-compile state: the source cursor, the code
// buffer it emits into, the current variable scope, the function and
// loop-fixup tables, and the unified/fate configuration knobs. One
// Compiler handles exactly one source buffer, start to finish.
type Compiler struct {
	cur   *Cursor
	buf   *CodeBuffer
	vars  *VarTable
	funcs *FuncTable
	loops *LoopStack
	state *ConfigState
	ident identScratch
}

// NewCompiler constructs a Compiler over src, ready for PreScan then
// Compile. Fails if src exceeds the 1 MiB source limit.
func NewCompiler(src []byte) (*Compiler, error) {
	if len(src) > maxSourceSize {
		return nil, Fail("source exceeds 1 MiB limit")
	}
	return &Compiler{
		cur:   NewCursor(src),
		buf:   NewCodeBuffer(),
		vars:  NewVarTable(),
		funcs: NewFuncTable(),
		loops: NewLoopStack(),
		state: NewConfigState(),
	}, nil
}

// Funcs exposes the function table, read-only use by the `wavec funcs`
// debug subcommand.
func (c *Compiler) Funcs() *FuncTable { return c.funcs }

// Compile runs the full two-pass pipeline — pre-scan, then code
// generation — and returns the generated machine code. The global
// prologue (`push rbp; mov rbp, rsp; sub rsp, 0x2000`) is emitted first,
// so it is always the ELF entry point (spec §4.6).
func (c *Compiler) Compile() ([]byte, error) {
	if err := c.PreScan(); err != nil {
		return nil, err
	}

	c.emit(amd64.PushReg(amd64.RBP))
	c.emit(amd64.MovRegReg(amd64.RBP, amd64.RSP))
	c.emit(amd64.SubRspImm32(frameSizeTop))

	if err := c.CompileProgram(); err != nil {
		return nil, err
	}
	if c.buf.Overflowed() {
		return nil, Fail("code buffer capacity exhausted")
	}
	return c.buf.Bytes(), nil
}

// emit appends an instruction's encoded bytes to the code buffer and
// traces it when -v/WAVEC_VERBOSE is set.
func (c *Compiler) emit(b []byte) {
	c.buf.EmitBytes(b)
	Trace("% x", b)
}
