package wave

import "github.com/joulyman/wavec/pkg/amd64"

// CompileProgram compiles statements from the current cursor position to
// end of input — the top-level body.
func (c *Compiler) CompileProgram() error {
	for {
		c.cur.SkipWSAndComments()
		if c.cur.Eof() {
			return nil
		}
		if err := c.CompileStatement(); err != nil {
			return err
		}
	}
}

// CompileBlock compiles statements up to, and consuming, a closing `}`.
func (c *Compiler) CompileBlock() error {
	for {
		c.cur.SkipWSAndComments()
		if c.cur.Peek() == '}' {
			c.cur.Advance()
			return nil
		}
		if c.cur.Eof() {
			return Fail("missing } before end of input")
		}
		if err := c.CompileStatement(); err != nil {
			return err
		}
	}
}

// CompileStatement dispatches one statement by its leading keyword; an
// identifier falls through to assignment or call-as-statement; anything
// else is silently skipped a line at a time (spec §4.4, §7).
func (c *Compiler) CompileStatement() error {
	c.cur.SkipWSAndComments()

	switch {
	case c.isOut():
		return c.compileOut()
	case c.isEmit():
		return c.compileEmit()
	case c.isByte():
		return c.compileByteOrPutchar("byte")
	case c.isPutchar():
		return c.compileByteOrPutchar("putchar")
	case c.isGetchar():
		return c.compileGetcharStmt()
	case c.isSyscallExit():
		return c.compileSyscallExit()
	case c.isWhen():
		return c.compileWhen()
	case c.isLoop():
		return c.compileLoop()
	case c.isBreak():
		return c.compileBreak()
	case c.isFn():
		return c.compileFn()
	case c.isReturnArrow():
		return c.compileReturn()
	case c.isUnified():
		return c.compileUnified()
	case c.isFate():
		return c.compileFate()
	}

	if isIdentStart(c.cur.Peek()) {
		return c.compileIdentStatement()
	}

	c.cur.SkipLine()
	return nil
}

// compileOut compiles `out "STR"`: the decoded literal is embedded in the
// code stream past a jmp that skips it, then write(STDOUT, &lit, len)
// addresses it RIP-relative.
func (c *Compiler) compileOut() error {
	c.consumeKeyword("out")
	c.cur.SkipWSAndComments()
	lit, ok := c.ParseString()
	if !ok {
		return Fail("malformed or unterminated string literal")
	}
	c.emitLiteralWrite(lit)
	return nil
}

// compileEmit compiles `emit "RAW"`: the same escape decoding as `out`,
// but the decoded bytes are spliced directly into the instruction stream
// with no wrapping jmp or syscall — they are meant to execute, not be
// printed.
func (c *Compiler) compileEmit() error {
	c.consumeKeyword("emit")
	c.cur.SkipWSAndComments()
	raw, ok := c.ParseString()
	if !ok {
		return Fail("malformed or unterminated string literal")
	}
	c.buf.EmitBytes(raw)
	return nil
}

// emitLiteralWrite embeds lit past a jmp that skips it, then emits
// write(STDOUT, &lit, len(lit)) via a RIP-relative lea.
func (c *Compiler) emitLiteralWrite(lit []byte) {
	c.emit(amd64.JmpOpcode())
	jmpSlot := c.buf.ReserveU32()

	litStart := c.buf.CurrentOffset()
	c.buf.EmitBytes(lit)
	afterLit := c.buf.CurrentOffset()
	c.buf.PatchU32(jmpSlot, uint32(int32(afterLit-(jmpSlot+4))))

	// lea rsi, [rip+disp32] is 7 bytes (REX.W, opcode, ModRM, disp32); the
	// RIP-relative base is the address of the instruction following it.
	leaEnd := afterLit + 7
	disp := int32(litStart - leaEnd)
	c.emit(amd64.LeaRipRel(amd64.RSI, disp))
	c.emit(amd64.MovRegImm32(amd64.RAX, 1)) // sys_write
	c.emit(amd64.MovRegImm32(amd64.RDI, 1)) // fd 1 (stdout)
	c.emit(amd64.MovRegImm32(amd64.RDX, int32(len(lit))))
	c.emit(amd64.Syscall())
}

// compileByteOrPutchar compiles `byte(expr)` / `putchar(expr)`: evaluate
// expr into rax, push it, write(STDOUT, rsp, 1), pop. The two keywords
// are semantically identical.
func (c *Compiler) compileByteOrPutchar(kw string) error {
	c.consumeKeyword(kw)
	if err := c.compileParenExpr(kw); err != nil {
		return err
	}

	c.emit(amd64.PushReg(amd64.RAX))
	c.emit(amd64.MovRegImm32(amd64.RAX, 1)) // sys_write
	c.emit(amd64.MovRegImm32(amd64.RDI, 1)) // fd 1
	c.emit(amd64.MovRegReg(amd64.RSI, amd64.RSP))
	c.emit(amd64.MovRegImm32(amd64.RDX, 1))
	c.emit(amd64.Syscall())
	c.emit(amd64.PopReg(amd64.RAX))
	return nil
}

// compileGetcharStmt compiles `getchar()` as a statement: identical to the
// expression form but the returned byte is discarded.
func (c *Compiler) compileGetcharStmt() error {
	c.consumeKeyword("getchar")
	if err := c.expectCall0("getchar"); err != nil {
		return err
	}
	c.emitInlineGetchar()
	return nil
}

// compileSyscallExit compiles `syscall.exit(expr)`.
func (c *Compiler) compileSyscallExit() error {
	c.consumeKeyword("syscall.exit")
	if err := c.compileParenExpr("syscall.exit"); err != nil {
		return err
	}
	c.emit(amd64.MovRegReg(amd64.RDI, amd64.RAX))
	c.emit(amd64.MovRegImm32(amd64.RAX, 60))
	c.emit(amd64.Syscall())
	return nil
}

// compileParenExpr parses `(EXPR)` and compiles EXPR, used by the several
// single-argument statement forms.
func (c *Compiler) compileParenExpr(name string) error {
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != '(' {
		return Fail(name + " expects (")
	}
	c.cur.Advance()
	c.cur.SkipWSAndComments()
	if err := c.CompileExpr(); err != nil {
		return err
	}
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != ')' {
		return Fail(name + " expects )")
	}
	c.cur.Advance()
	return nil
}

// compileWhen compiles `when EXPR { body }`: evaluate EXPR, test + jz past
// the body (no else).
func (c *Compiler) compileWhen() error {
	c.consumeKeyword("when")
	c.cur.SkipWSAndComments()
	if err := c.CompileExpr(); err != nil {
		return err
	}
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != '{' {
		return Fail("when expects {")
	}
	c.cur.Advance()

	c.emit(amd64.TestRegReg(amd64.RAX, amd64.RAX))
	c.emit(amd64.JzOpcode())
	slot := c.buf.ReserveU32()

	if err := c.CompileBlock(); err != nil {
		return err
	}

	end := c.buf.CurrentOffset()
	c.buf.PatchU32(slot, uint32(int32(end-(slot+4))))
	return nil
}

// compileLoop compiles `loop { body }`: back-edge jmp to the loop start,
// every break inside patched to the instruction after that jmp.
func (c *Compiler) compileLoop() error {
	c.consumeKeyword("loop")
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != '{' {
		return Fail("loop expects {")
	}
	c.cur.Advance()

	start := c.buf.CurrentOffset()
	if !c.loops.Push(start) {
		return Fail("loop nesting too deep")
	}

	if err := c.CompileBlock(); err != nil {
		return err
	}

	c.emit(amd64.JmpOpcode())
	slot := c.buf.ReserveU32()
	c.buf.PatchU32(slot, uint32(int32(start-(slot+4))))

	after := c.buf.CurrentOffset()
	frame := c.loops.Pop()
	for _, fixSlot := range frame.breakFixups {
		c.buf.PatchU32(fixSlot, uint32(int32(after-(fixSlot+4))))
	}
	return nil
}

// compileBreak compiles `break`: emits a reserved jmp registered against
// the innermost open loop. Break outside any loop is a fixed compile
// error (spec §9 open question, resolved this way — see DESIGN.md).
func (c *Compiler) compileBreak() error {
	c.consumeKeyword("break")
	frame := c.loops.Innermost()
	if frame == nil {
		return Fail("break outside loop")
	}
	c.emit(amd64.JmpOpcode())
	slot := c.buf.ReserveU32()
	if !frame.AddBreakFixup(slot) {
		return Fail("too many break fixups in loop")
	}
	return nil
}

// compileFn compiles `fn NAME PARAM… { body }`: a jmp skips the body at
// runtime; the function's code_offset is set to the post-jmp offset,
// resolving any pending forward-call fixups; a prologue spills up to 4
// parameters into a fresh per-function variable table; the body compiles
// against that table; a default-zero epilogue closes the function if the
// body falls through without `->`.
func (c *Compiler) compileFn() error {
	c.consumeKeyword("fn")
	c.cur.SkipWSAndComments()
	name := c.ParseIdent()
	if name == "" {
		return Fail("expected function name after fn")
	}

	var params []string
	for {
		c.cur.SkipWSAndComments()
		if c.cur.Peek() == '{' || !isIdentStart(c.cur.Peek()) {
			break
		}
		params = append(params, c.ParseIdent())
	}
	if c.cur.Peek() != '{' {
		return Fail("fn " + name + " expects {")
	}
	c.cur.Advance()

	c.emit(amd64.JmpOpcode())
	skipSlot := c.buf.ReserveU32()

	entry := c.buf.CurrentOffset()
	fn := c.funcs.SetEntry(name, entry)
	if fn == nil {
		return Fail("fn " + name + " was not found by pre-scan")
	}
	for _, slot := range fn.pendingCalls {
		c.buf.PatchU32(slot, uint32(int32(entry-(slot+4))))
	}
	fn.pendingCalls = nil

	c.emit(amd64.PushReg(amd64.RBP))
	c.emit(amd64.MovRegReg(amd64.RBP, amd64.RSP))
	c.emit(amd64.SubRspImm32(frameSizeFn))

	prevVars := c.vars
	c.vars = NewVarTable()
	for i, p := range params {
		reg, ok := amd64.ArgRegister(i)
		if !ok {
			c.vars = prevVars
			return Fail("too many parameters in fn " + name)
		}
		off, ok := c.vars.Define(p)
		if !ok {
			c.vars = prevVars
			return Fail("too many variables in fn " + name)
		}
		c.emit(amd64.StoreRbpDisp(-int32(off), reg))
	}

	bodyErr := c.CompileBlock()
	c.vars = prevVars
	if bodyErr != nil {
		return bodyErr
	}

	c.emit(amd64.XorRegReg(amd64.RAX, amd64.RAX))
	c.emit(amd64.AddRspImm32(frameSizeFn))
	c.emit(amd64.PopReg(amd64.RBP))
	c.emit(amd64.Ret())

	after := c.buf.CurrentOffset()
	c.buf.PatchU32(skipSlot, uint32(int32(after-(skipSlot+4))))
	return nil
}

// compileReturn compiles `-> EXPR`: evaluate EXPR into rax, emit the
// function epilogue.
func (c *Compiler) compileReturn() error {
	c.cur.Advance()
	c.cur.Advance() // "->"
	c.cur.SkipWSAndComments()
	if err := c.CompileExpr(); err != nil {
		return err
	}
	c.emit(amd64.AddRspImm32(frameSizeFn))
	c.emit(amd64.PopReg(amd64.RBP))
	c.emit(amd64.Ret())
	return nil
}

// compileIdentStatement handles `NAME = EXPR` (assignment, defining NAME
// on first use) and `NAME(args…)` (call as statement); any other shape
// following an identifier falls through to skipping the line.
func (c *Compiler) compileIdentStatement() error {
	name := c.ParseIdent()
	c.cur.SkipWSAndComments()

	switch c.cur.Peek() {
	case '=':
		c.cur.Advance()
		c.cur.SkipWSAndComments()
		if err := c.CompileExpr(); err != nil {
			return err
		}
		off, ok := c.vars.Define(name)
		if !ok {
			return Fail("too many variables (capacity exhausted)")
		}
		c.emit(amd64.StoreRbpDisp(-int32(off), amd64.RAX))
		return nil
	case '(':
		return c.compileCall(name)
	default:
		c.cur.SkipLine()
		return nil
	}
}

// compileUnified parses `unified { i: FLOAT, e: FLOAT, r: FLOAT }` and
// updates compile-time fixed-point state; no code is emitted.
func (c *Compiler) compileUnified() error {
	c.consumeKeyword("unified")
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != '{' {
		return Fail("unified expects {")
	}
	c.cur.Advance()

	for {
		c.cur.SkipWSAndComments()
		if c.cur.Peek() == '}' {
			c.cur.Advance()
			return nil
		}
		field := c.ParseIdent()
		if field == "" {
			return Fail("malformed unified field")
		}
		c.cur.SkipWSAndComments()
		if c.cur.Peek() != ':' {
			return Fail("unified field expects :")
		}
		c.cur.Advance()
		c.cur.SkipWSAndComments()
		v, ok := c.ParseFixedPoint()
		if !ok {
			return Fail("malformed unified field value")
		}
		switch field {
		case "i":
			c.state.UnifiedI = v
		case "e":
			c.state.UnifiedE = v
		case "r":
			c.state.UnifiedR = v
		}
		c.cur.SkipWSAndComments()
		if c.cur.Peek() == ',' {
			c.cur.Advance()
		}
	}
}

// compileFate parses `fate on|off`; no code is emitted.
func (c *Compiler) compileFate() error {
	c.consumeKeyword("fate")
	c.cur.SkipWSAndComments()
	name := c.ParseIdent()
	switch name {
	case "on":
		c.state.FateMode = true
	case "off":
		c.state.FateMode = false
	default:
		return Fail("fate expects on or off")
	}
	return nil
}
