package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// directiveLexer tokenizes single directive lines and global declarations.
// Function bodies never go through it.
var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|(?s:/\*.*?\*/)`},
	{Name: "Directive", Pattern: `\.[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `0[xX][0-9A-Fa-f]+|\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_$%][A-Za-z0-9_$]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Punct", Pattern: `[^\sA-Za-z0-9_$%.]`},
})

var (
	tokComment   = directiveLexer.Symbols()["Comment"]
	tokDirective = directiveLexer.Symbols()["Directive"]
	tokNumber    = directiveLexer.Symbols()["Number"]
	tokIdent     = directiveLexer.Symbols()["Ident"]
	tokWS        = directiveLexer.Symbols()["Whitespace"]
	tokPunct     = directiveLexer.Symbols()["Punct"]
)

// token is a lexed token whose Value is a view into the lexed text
type token struct {
	Type   lexer.TokenType
	Value  string
	Offset int
}

// tokenize lexes text and drops whitespace. Comments are kept so callers can
// stop at them.
func tokenize(text string) ([]token, error) {
	lex, err := directiveLexer.LexString("", text)
	if err != nil {
		return nil, err
	}

	var tokens []token
	for {
		t, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if t.EOF() {
			break
		}
		if t.Type == tokWS {
			continue
		}
		off := t.Pos.Offset
		tokens = append(tokens, token{
			Type:   t.Type,
			Value:  text[off : off+len(t.Value)],
			Offset: off,
		})
	}
	return tokens, nil
}

// tokenStream walks a token slice
type tokenStream struct {
	tokens   []token
	position int
}

func (ts *tokenStream) peek() (token, bool) {
	if ts.position >= len(ts.tokens) {
		return token{}, false
	}
	return ts.tokens[ts.position], true
}

func (ts *tokenStream) next() (token, bool) {
	t, ok := ts.peek()
	if ok {
		ts.position++
	}
	return t, ok
}

// accept consumes the next token if it has the given type and value; an
// empty value matches any token of that type.
func (ts *tokenStream) accept(tt lexer.TokenType, value string) (token, bool) {
	t, ok := ts.peek()
	if !ok || t.Type != tt || (value != "" && t.Value != value) {
		return token{}, false
	}
	ts.position++
	return t, true
}

func tokenTypeName(tt lexer.TokenType) string {
	for name, t := range directiveLexer.Symbols() {
		if t == tt {
			return name
		}
	}
	return fmt.Sprintf("%d", tt)
}
