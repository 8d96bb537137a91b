package wave

// probeKeyword reports whether kw appears at the cursor as a full,
// identifier-delimited word rather than a prefix of a longer identifier
// (e.g. "out" must not match inside "outline"). Applying the delimiter
// check uniformly, rather than only to the keywords spec §4.1 calls out as
// ambiguous, costs nothing and never rejects a legitimate match.
func (c *Compiler) probeKeyword(kw string) bool {
	for i := 0; i < len(kw); i++ {
		if c.cur.PeekAt(i) != kw[i] {
			return false
		}
	}
	return !isIdentCont(c.cur.PeekAt(len(kw)))
}

// consumeKeyword advances the cursor past a keyword already confirmed by
// probeKeyword at the current position.
func (c *Compiler) consumeKeyword(kw string) {
	for i := 0; i < len(kw); i++ {
		c.cur.Advance()
	}
}

func (c *Compiler) isOut() bool         { return c.probeKeyword("out") }
func (c *Compiler) isEmit() bool        { return c.probeKeyword("emit") }
func (c *Compiler) isByte() bool        { return c.probeKeyword("byte") }
func (c *Compiler) isPutchar() bool     { return c.probeKeyword("putchar") }
func (c *Compiler) isGetchar() bool     { return c.probeKeyword("getchar") }
func (c *Compiler) isSyscallExit() bool { return c.probeKeyword("syscall.exit") }
func (c *Compiler) isWhen() bool        { return c.probeKeyword("when") }
func (c *Compiler) isLoop() bool        { return c.probeKeyword("loop") }
func (c *Compiler) isBreak() bool       { return c.probeKeyword("break") }
func (c *Compiler) isFn() bool          { return c.probeKeyword("fn") }
func (c *Compiler) isUnified() bool     { return c.probeKeyword("unified") }
func (c *Compiler) isFate() bool        { return c.probeKeyword("fate") }

// isReturnArrow reports whether the cursor is positioned at `->`.
func (c *Compiler) isReturnArrow() bool {
	return c.cur.PeekAt(0) == '-' && c.cur.PeekAt(1) == '>'
}
