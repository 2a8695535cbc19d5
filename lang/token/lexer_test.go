package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(src string) []Token {
	var l Lexer
	l.Init(src)
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == EMPTY {
			return toks
		}
	}
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexerPunctuationAndKeywords(t *testing.T) {
	toks := scanAll("let mut = fn() { if x <= 2 { } else { } }")
	require.Equal(t, []Kind{
		LET, IDENT, ASSIGN, FN, LPAREN, RPAREN, LBRACE,
		IF, IDENT, LE, INT, LBRACE, RBRACE, ELSE, LBRACE, RBRACE, RBRACE, EMPTY,
	}, kinds(toks))
}

func TestLexerCompoundOperators(t *testing.T) {
	toks := scanAll("x += 1 ?? 2 ..= 3 .. 4 ?.y")
	require.Equal(t, []Kind{
		IDENT, PLUS_EQ, INT, QQ, INT, DOTDOTEQ, INT, DOTDOT, INT, QDOT, IDENT, EMPTY,
	}, kinds(toks))
}

func TestLexerNumbers(t *testing.T) {
	toks := scanAll("1 2.5 10 3.14e2")
	require.Equal(t, int64(1), toks[0].Int)
	require.Equal(t, FLOAT, toks[1].Kind)
	require.InDelta(t, 2.5, toks[1].Float, 0.0001)
	require.Equal(t, int64(10), toks[2].Int)
	require.InDelta(t, 314.0, toks[3].Float, 0.0001)
}

func TestLexerString(t *testing.T) {
	toks := scanAll(`"hello \"world\""`)
	require.Equal(t, STRING, toks[0].Kind)
	require.Equal(t, `hello "world"`, toks[0].Str)
}

func TestLexerComment(t *testing.T) {
	toks := scanAll("1 // a comment\n2")
	require.Equal(t, []Kind{INT, INT, EMPTY}, kinds(toks))
}

func TestLexerIllegal(t *testing.T) {
	toks := scanAll("@")
	require.Equal(t, ILLEGAL, toks[0].Kind)
}

func TestLexerSpans(t *testing.T) {
	toks := scanAll("let x")
	require.Equal(t, 0, toks[0].Span.Start)
	require.Equal(t, 3, toks[0].Span.End)
	require.Equal(t, 4, toks[1].Span.Start)
	require.Equal(t, 5, toks[1].Span.End)
}

func TestLexerDiceKeyword(t *testing.T) {
	toks := scanAll("3 d 6")
	require.Equal(t, []Kind{INT, D, INT, EMPTY}, kinds(toks))
}

func TestLexerDiceKeywordNoSpace(t *testing.T) {
	toks := scanAll("3d6")
	require.Equal(t, []Kind{INT, D, INT, EMPTY}, kinds(toks))
	require.Equal(t, int64(3), toks[0].Int)
	require.Equal(t, int64(6), toks[2].Int)
}

func TestLexerDiceKeywordUnaryNoSpace(t *testing.T) {
	toks := scanAll("d20")
	require.Equal(t, []Kind{D, INT, EMPTY}, kinds(toks))
	require.Equal(t, int64(20), toks[1].Int)
}

func TestLexerIdentStartingWithDNotDiceKeyword(t *testing.T) {
	toks := scanAll("damage")
	require.Equal(t, []Kind{IDENT, EMPTY}, kinds(toks))
	require.Equal(t, "damage", toks[0].Slice)
}
