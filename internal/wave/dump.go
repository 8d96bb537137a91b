package wave

import "fmt"

// dumpKeywords lists every fixed keyword DumpTokens recognizes, longest
// first where one is a prefix of another so "syscall.exit" doesn't get
// shadowed — not actually needed here since none collide, but keeping the
// declaration order explicit avoids a future footgun if one is added.
var dumpKeywords = []string{
	"syscall.exit", "putchar", "getchar", "unified",
	"out", "emit", "byte", "when", "loop", "break", "fn", "fate",
}

// TokenInfo describes one lexical element recognized by DumpTokens, used
// only by the `wavec tokens` debug subcommand — the compiler itself never
// builds a token stream; it re-scans source directly against the grammar.
type TokenInfo struct {
	Kind string
	Text string
}

func (t TokenInfo) String() string { return fmt.Sprintf("%s\t%s", t.Kind, t.Text) }

func matchKeywordAt(cur *Cursor, kw string) bool {
	for i := 0; i < len(kw); i++ {
		if cur.PeekAt(i) != kw[i] {
			return false
		}
	}
	return !isIdentCont(cur.PeekAt(len(kw)))
}

// DumpTokens performs a best-effort lexical scan of src for the `wavec
// tokens` debug subcommand: keywords, identifiers, integer literals,
// string literals, and punctuation, skipping whitespace and comments.
func DumpTokens(src []byte) []TokenInfo {
	cur := NewCursor(src)
	var out []TokenInfo

	for {
		cur.SkipWSAndComments()
		if cur.Eof() {
			return out
		}
		start := cur.Pos()

		kwMatched := ""
		for _, kw := range dumpKeywords {
			if matchKeywordAt(cur, kw) {
				kwMatched = kw
				break
			}
		}
		if kwMatched != "" {
			for i := 0; i < len(kwMatched); i++ {
				cur.Advance()
			}
			out = append(out, TokenInfo{Kind: "keyword", Text: kwMatched})
			continue
		}

		b := cur.Peek()
		switch {
		case isDigit(b) || (b == '-' && isDigit(cur.PeekAt(1))):
			if b == '-' {
				cur.Advance()
			}
			for isDigit(cur.Peek()) {
				cur.Advance()
			}
			out = append(out, TokenInfo{Kind: "number", Text: string(cur.Slice(start, cur.Pos()))})
		case isIdentStart(b):
			for isIdentCont(cur.Peek()) {
				cur.Advance()
			}
			out = append(out, TokenInfo{Kind: "ident", Text: string(cur.Slice(start, cur.Pos()))})
		case b == '"':
			cur.Advance()
			for cur.Peek() != '"' && cur.Peek() != 0 {
				if cur.Peek() == '\\' {
					cur.Advance()
				}
				cur.Advance()
			}
			cur.Advance()
			out = append(out, TokenInfo{Kind: "string", Text: string(cur.Slice(start, cur.Pos()))})
		case b == '-' && cur.PeekAt(1) == '>':
			cur.Advance()
			cur.Advance()
			out = append(out, TokenInfo{Kind: "arrow", Text: "->"})
		default:
			cur.Advance()
			out = append(out, TokenInfo{Kind: "punct", Text: string(b)})
		}
	}
}
