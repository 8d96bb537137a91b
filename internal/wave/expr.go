package wave

import "github.com/joulyman/wavec/pkg/amd64"

// operator identifies one of the flat-precedence binary operators
// `+ - * / == != > >= < <=`.
type operator int

const (
	opAdd operator = iota
	opSub
	opMul
	opDiv
	opEq
	opNe
	opGt
	opGe
	opLt
	opLe
)

func (c *Compiler) peekOperator() (operator, bool) {
	a, b := c.cur.PeekAt(0), c.cur.PeekAt(1)
	switch {
	case a == '=' && b == '=':
		return opEq, true
	case a == '!' && b == '=':
		return opNe, true
	case a == '>' && b == '=':
		return opGe, true
	case a == '<' && b == '=':
		return opLe, true
	case a == '+':
		return opAdd, true
	case a == '-':
		return opSub, true
	case a == '*':
		return opMul, true
	case a == '/':
		return opDiv, true
	case a == '>':
		return opGt, true
	case a == '<':
		return opLt, true
	}
	return 0, false
}

func (c *Compiler) consumeOperator(op operator) {
	c.cur.Advance()
	switch op {
	case opEq, opNe, opGe, opLe:
		c.cur.Advance()
	}
}

func condFor(op operator) amd64.Condition {
	switch op {
	case opEq:
		return amd64.CondE
	case opNe:
		return amd64.CondNE
	case opGt:
		return amd64.CondG
	case opGe:
		return amd64.CondGE
	case opLt:
		return amd64.CondL
	default:
		return amd64.CondLE
	}
}

// applyOperator combines the stashed left operand (rcx) with the just-
// compiled right operand (rax), per spec §4.3: commutative ops (+, *) run
// directly; non-commutative ops (-, /) and comparisons name operands as
// `cmp rcx, rax` / reversed-subtract so the left-hand side reads naturally
// on the left. Result always lands in rax.
func (c *Compiler) applyOperator(op operator) {
	switch op {
	case opAdd:
		c.emit(amd64.AddRegReg(amd64.RAX, amd64.RCX))
	case opSub:
		c.emit(amd64.SubRegReg(amd64.RCX, amd64.RAX))
		c.emit(amd64.MovRegReg(amd64.RAX, amd64.RCX))
	case opMul:
		c.emit(amd64.ImulRegReg(amd64.RAX, amd64.RCX))
	case opDiv:
		c.emit(amd64.MovRegReg(amd64.RBX, amd64.RAX))
		c.emit(amd64.MovRegReg(amd64.RAX, amd64.RCX))
		c.emit(amd64.XorRegReg(amd64.RDX, amd64.RDX))
		c.emit(amd64.IdivReg(amd64.RBX))
	default:
		c.emit(amd64.CmpRegReg(amd64.RCX, amd64.RAX))
		c.emit(amd64.SetCC(condFor(op)))
		c.emit(amd64.MovzxRaxAl())
	}
}

// CompileExpr compiles a flat, left-to-right expression: term (operator
// term)*, all operators at the same precedence, leaving the result in
// rax. No parenthesized grouping — see spec §9.
func (c *Compiler) CompileExpr() error {
	if err := c.compileTerm(); err != nil {
		return err
	}
	for {
		c.cur.SkipWSAndComments()
		op, ok := c.peekOperator()
		if !ok {
			return nil
		}
		c.consumeOperator(op)
		c.cur.SkipWSAndComments()

		c.emit(amd64.PushReg(amd64.RAX))
		if err := c.compileTerm(); err != nil {
			return err
		}
		c.emit(amd64.PopReg(amd64.RCX))
		c.applyOperator(op)
	}
}

// compileTerm compiles one term: a (possibly negative) decimal integer
// literal, `getchar()`, a call `ident(args)`, or a variable reference. An
// unknown identifier emits `xor rax, rax` per spec §4.3 rather than
// erroring.
func (c *Compiler) compileTerm() error {
	c.cur.SkipWSAndComments()

	b := c.cur.Peek()
	if isDigit(b) || (b == '-' && isDigit(c.cur.PeekAt(1))) {
		v, ok := c.ParseInt()
		if !ok {
			return Fail("malformed integer literal")
		}
		c.emit(amd64.MovRegImm64(amd64.RAX, uint64(v)))
		return nil
	}

	if c.isGetchar() {
		c.consumeKeyword("getchar")
		if err := c.expectCall0("getchar"); err != nil {
			return err
		}
		c.emitInlineGetchar()
		return nil
	}

	if isIdentStart(b) {
		name := c.ParseIdent()
		c.cur.SkipWSAndComments()
		if c.cur.Peek() == '(' {
			return c.compileCall(name)
		}
		if off, ok := c.vars.Lookup(name); ok {
			c.emit(amd64.LoadRbpDisp(amd64.RAX, -int32(off)))
		} else {
			c.emit(amd64.XorRegReg(amd64.RAX, amd64.RAX))
		}
		return nil
	}

	return Fail("expected expression term")
}

// expectCall0 consumes `()` with no arguments, for zero-arg forms like
// getchar().
func (c *Compiler) expectCall0(name string) error {
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != '(' {
		return Fail(name + " expects (")
	}
	c.cur.Advance()
	c.cur.SkipWSAndComments()
	if c.cur.Peek() != ')' {
		return Fail(name + " expects )")
	}
	c.cur.Advance()
	return nil
}

// emitInlineGetchar emits a single-byte read(0, &scratch, 1): the scratch
// stack slot is zeroed immediately before the syscall, so a zero-length
// read (EOF) deterministically yields 0 in rax (spec §9 open question,
// resolved this way — see DESIGN.md).
func (c *Compiler) emitInlineGetchar() {
	c.emit(amd64.XorRegReg(amd64.RAX, amd64.RAX))
	c.emit(amd64.PushReg(amd64.RAX))
	c.emit(amd64.MovRegImm32(amd64.RAX, 0)) // sys_read
	c.emit(amd64.MovRegImm32(amd64.RDI, 0)) // fd 0
	c.emit(amd64.MovRegReg(amd64.RSI, amd64.RSP))
	c.emit(amd64.MovRegImm32(amd64.RDX, 1))
	c.emit(amd64.Syscall())
	c.emit(amd64.MovzxRaxByteRsp())
	c.emit(amd64.PopReg(amd64.RCX))
}

// compileCall compiles `name(args…)`: each argument is evaluated left to
// right into rax and moved into the next SysV argument register (rdi,
// rsi, rdx, rcx — up to 4), then a call is emitted to the function's
// entry offset, deferred into a per-callee fixup list if the callee's
// body hasn't started emitting yet (spec §9, option (a)).
func (c *Compiler) compileCall(name string) error {
	c.cur.Advance() // '('
	c.cur.SkipWSAndComments()

	argc := 0
	if c.cur.Peek() != ')' {
		for {
			if err := c.CompileExpr(); err != nil {
				return err
			}
			reg, ok := amd64.ArgRegister(argc)
			if !ok {
				return Fail("too many arguments in call to " + name)
			}
			c.emit(amd64.MovRegReg(reg, amd64.RAX))
			argc++

			c.cur.SkipWSAndComments()
			if c.cur.Peek() == ',' {
				c.cur.Advance()
				c.cur.SkipWSAndComments()
				continue
			}
			break
		}
	}
	if c.cur.Peek() != ')' {
		return Fail("expected ) in call to " + name)
	}
	c.cur.Advance()

	return c.emitCall(name)
}

// emitCall emits `call rel32` to name's entry offset. A call to a name
// never declared by pre-scan is tolerated per spec §7 (zero displacement,
// runtime-undefined); a call to a declared-but-not-yet-emitted function is
// deferred into that function's pending-call list.
func (c *Compiler) emitCall(name string) error {
	c.emit(amd64.CallOpcode())
	slot := c.buf.ReserveU32()

	fn, ok := c.funcs.Lookup(name)
	switch {
	case !ok:
		c.buf.PatchU32(slot, 0)
	case fn.codeOffset != 0:
		c.buf.PatchU32(slot, uint32(int32(fn.codeOffset-(slot+4))))
	default:
		if !fn.AddPendingCall(slot) {
			return Fail("too many forward references to function " + name)
		}
	}
	return nil
}
