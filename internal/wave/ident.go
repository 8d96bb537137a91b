package wave

// identCap is the number of meaningful identifier bytes kept; anything
// past it is silently truncated. Load-bearing for equality comparisons
// elsewhere (variable and function name matching) — never narrow it.
const identCap = 31

// identScratch holds the most recently parsed identifier lexeme. Callers
// must consume it (copy its text out) before the next call to ParseIdent.
type identScratch struct {
	buf [identCap]byte
	n   int
}

func (s *identScratch) String() string { return string(s.buf[:s.n]) }

// ParseIdent reads an identifier at the cursor ([A-Za-z_][A-Za-z0-9_.]*)
// into the shared scratch slot and returns its text, truncated to 31
// bytes. Returns "" without advancing if the cursor isn't at an
// identifier start.
func (c *Compiler) ParseIdent() string {
	if !isIdentStart(c.cur.Peek()) {
		return ""
	}
	c.ident.n = 0
	for isIdentCont(c.cur.Peek()) {
		b := c.cur.Advance()
		if c.ident.n < identCap {
			c.ident.buf[c.ident.n] = b
			c.ident.n++
		}
	}
	return c.ident.String()
}
