package wave

// Cursor is a byte-level scanner over an immutable source buffer: peek,
// advance, skip whitespace, skip to end of line, classify bytes.
type Cursor struct {
	src []byte
	pos int
}

// NewCursor wraps src for scanning from position 0.
func NewCursor(src []byte) *Cursor {
	return &Cursor{src: src}
}

// Peek returns the byte at the current position, or 0 at end of input.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

// PeekAt returns the byte `offset` bytes ahead of the current position, or
// 0 past end of input.
func (c *Cursor) PeekAt(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

// Advance returns the current byte and moves the cursor forward by one; at
// EOF it returns 0 and does not move.
func (c *Cursor) Advance() byte {
	b := c.Peek()
	if c.pos < len(c.src) {
		c.pos++
	}
	return b
}

// SkipWS consumes any run of space, tab, CR, or LF.
func (c *Cursor) SkipWS() {
	for {
		switch c.Peek() {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

// SkipLine consumes through the next LF (inclusive), or to EOF.
func (c *Cursor) SkipLine() {
	for c.Peek() != 0 {
		if c.Advance() == '\n' {
			return
		}
	}
}

// SkipComment consumes a `#`-to-end-of-line comment, including the
// terminating newline.
func (c *Cursor) SkipComment() {
	if c.Peek() == '#' {
		c.SkipLine()
	}
}

// SkipWSAndComments alternates whitespace and comment skipping until
// neither makes further progress.
func (c *Cursor) SkipWSAndComments() {
	for {
		start := c.pos
		c.SkipWS()
		c.SkipComment()
		if c.pos == start {
			return
		}
	}
}

// Pos returns the current cursor offset.
func (c *Cursor) Pos() int { return c.pos }

// SetPos repositions the cursor, used to rewind after a failed probe and to
// reset to 0 after pre-scan.
func (c *Cursor) SetPos(p int) { c.pos = p }

// Eof reports whether the cursor has consumed the entire source.
func (c *Cursor) Eof() bool { return c.pos >= len(c.src) }

// Slice returns the raw source bytes in [a, b) for lexeme extraction.
func (c *Cursor) Slice(a, b int) []byte { return c.src[a:b] }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9') || b == '.'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
