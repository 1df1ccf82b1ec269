package scanner_test

import (
	"testing"

	"github.com/mna/elk/lang/scanner"
	"github.com/mna/elk/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test", len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src))

	var toks []token.Token
	var val token.Value
	for {
		tok, err := s.Scan(&val)
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	toks := scanAll(t, "type Point main -> == != <= >= && || xor")
	require.Equal(t, []token.Token{
		token.TYPE, token.IDENT, token.MAIN, token.ARROW,
		token.EQL, token.NEQ, token.LE, token.GE, token.AMPAMP, token.PIPEPIPE, token.XOR,
		token.EOF,
	}, toks)
}

func TestScanIntegerLiterals(t *testing.T) {
	fs := token.NewFileSet()
	src := "0 42 0b101 0o17 0xFF"
	f := fs.AddFile("test", len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src))

	var val token.Value
	want := []uint64{0, 42, 5, 15, 255}
	for _, w := range want {
		tok, err := s.Scan(&val)
		require.NoError(t, err)
		require.Equal(t, token.INT, tok)
		require.Equal(t, w, val.Int)
	}
}

func TestScanFloatLiteral(t *testing.T) {
	fs := token.NewFileSet()
	src := "1.5"
	f := fs.AddFile("test", len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src))

	var val token.Value
	tok, err := s.Scan(&val)
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, tok)
	require.Equal(t, 1.5, val.Float)
}

func TestScanString(t *testing.T) {
	fs := token.NewFileSet()
	src := `"a \"quoted\" \\ string"`
	f := fs.AddFile("test", len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src))

	var val token.Value
	tok, err := s.Scan(&val)
	require.NoError(t, err)
	require.Equal(t, token.STRING, tok)
	require.Equal(t, `a "quoted" \ string`, val.Str)
}

func TestScanUnterminatedString(t *testing.T) {
	fs := token.NewFileSet()
	src := `"unterminated`
	f := fs.AddFile("test", len(src))

	var s scanner.Scanner
	s.Init(f, []byte(src))

	var val token.Value
	_, err := s.Scan(&val)
	require.Error(t, err)
}

func TestScanLineComment(t *testing.T) {
	toks := scanAll(t, "x // a comment\ny")
	require.Equal(t, []token.Token{token.IDENT, token.IDENT, token.EOF}, toks)
}

func TestIdentifierClassification(t *testing.T) {
	require.True(t, scanner.IsUpperInitial("Point"))
	require.False(t, scanner.IsUpperInitial("point"))
	require.True(t, scanner.IsLowerInitial("point"))
	require.True(t, scanner.IsLowerInitial("_point"))
	require.False(t, scanner.IsLowerInitial("Point"))
}
