package slabJSON

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(src string) []Token {
	tok := NewTokenizer([]byte(src))
	var tokens []Token
	for {
		t := tok.Next()
		tokens = append(tokens, t)
		if t == TokenEOF || t == TokenUnknown {
			return tokens
		}
	}
}

func TestTokenizer_Next(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "empty",
			src:  "",
			want: []Token{TokenEOF},
		},
		{
			name: "whitespace-only",
			src:  " \t\r\n",
			want: []Token{TokenEOF},
		},
		{
			name: "punctuation",
			src:  "{ } [ ] : ,",
			want: []Token{TokenBeginObject, TokenEndObject, TokenBeginArray, TokenEndArray, TokenNameSeparator, TokenValueSeparator, TokenEOF},
		},
		{
			name: "literals",
			src:  "true false null",
			want: []Token{TokenTrue, TokenFalse, TokenNull, TokenEOF},
		},
		{
			name: "partial-literal",
			src:  "tru",
			want: []Token{TokenUnknown},
		},
		{
			name: "misspelled-literal",
			src:  "nul1",
			want: []Token{TokenUnknown},
		},
		{
			name: "member",
			src:  `{"a":1}`,
			want: []Token{TokenBeginObject, TokenString, TokenNameSeparator, TokenNumber, TokenEndObject, TokenEOF},
		},
		{
			name: "bare-word",
			src:  "string without quotes",
			want: []Token{TokenUnknown},
		},
		{
			name: "vertical-tab-is-not-whitespace",
			src:  "\v1",
			want: []Token{TokenUnknown},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.src))
		})
	}
}

func TestTokenizer_String(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   Token
		lexeme string
		offset int
	}{
		{name: "plain", src: `"abc"`, want: TokenString, lexeme: "abc", offset: 5},
		{name: "empty", src: `""`, want: TokenString, lexeme: "", offset: 2},
		{name: "escaped-quote", src: `"a\"b"`, want: TokenString, lexeme: `a\"b`, offset: 6},
		{name: "short-escapes", src: `"\/\\\b\f\n\r\t"`, want: TokenString, lexeme: `\/\\\b\f\n\r\t`, offset: 16},
		{name: "unicode-escape", src: `"\u00e9x"`, want: TokenString, lexeme: `\u00e9x`, offset: 9},
		{name: "utf8", src: `"строка"`, want: TokenString, lexeme: "строка", offset: 14},
		{name: "unterminated", src: `"abc`, want: TokenUnknown},
		{name: "raw-newline", src: "\"a\nb\"", want: TokenUnknown},
		{name: "raw-tab", src: "\"a\tb\"", want: TokenUnknown},
		{name: "raw-nul", src: "\"a\x00b\"", want: TokenUnknown},
		{name: "bad-escape", src: `"\x"`, want: TokenUnknown},
		{name: "short-unicode", src: `"\u12"`, want: TokenUnknown},
		{name: "bad-hex", src: `"\u12G4"`, want: TokenUnknown},
		{name: "trailing-backslash", src: `"\`, want: TokenUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizer([]byte(tt.src))
			require.Equal(t, tt.want, tok.Next())
			if tt.want == TokenString {
				assert.Equal(t, tt.lexeme, string(tok.Lexeme()))
				assert.Equal(t, len(tt.lexeme), tok.LexemeLen())
				assert.Equal(t, tt.offset, tok.Offset())
			} else {
				assert.Nil(t, tok.Lexeme())
			}
		})
	}
}

func TestTokenizer_Number(t *testing.T) {
	valid := []string{"0", "-0", "1", "10", "-123", "1.5", "0.25", "-1.0e-1", "-1.0e+2", "-1.0E3", "1e10", "0E0"}
	for _, src := range valid {
		t.Run(src, func(t *testing.T) {
			tok := NewTokenizer([]byte(src))
			require.Equal(t, TokenNumber, tok.Next())
			assert.Equal(t, src, string(tok.Lexeme()))
			assert.Equal(t, TokenEOF, tok.Next())
		})
	}

	invalid := []string{"-", "1.", "1.e5", "1e", "1e+", "-x", ".5"}
	for _, src := range invalid {
		t.Run(src, func(t *testing.T) {
			tok := NewTokenizer([]byte(src))
			assert.Equal(t, TokenUnknown, tok.Next())
		})
	}
}

func TestTokenizer_LeadingZero(t *testing.T) {
	// A zero ends the integer part, so "01" is two numbers.
	assert.Equal(t, []Token{TokenNumber, TokenNumber, TokenEOF}, tokenize("01"))
}

func TestTokenizer_LexemeLen(t *testing.T) {
	tok := NewTokenizer([]byte(`12 , "ab" true`))
	require.Equal(t, TokenNumber, tok.Next())
	assert.Equal(t, 2, tok.LexemeLen())
	require.Equal(t, TokenValueSeparator, tok.Next())
	assert.Equal(t, 0, tok.LexemeLen())
	require.Equal(t, TokenString, tok.Next())
	assert.Equal(t, 2, tok.LexemeLen())
	require.Equal(t, TokenTrue, tok.Next())
	assert.Equal(t, 0, tok.LexemeLen())

	partial := NewTokenizer([]byte("-12."))
	require.Equal(t, TokenUnknown, partial.Next())
	assert.Equal(t, 4, partial.LexemeLen())
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber("42"))
	assert.True(t, IsNumber("-1.5e3"))
	assert.False(t, IsNumber(""))
	assert.False(t, IsNumber(" 42"))
	assert.False(t, IsNumber("42 "))
	assert.False(t, IsNumber("0x1F"))
	assert.False(t, IsNumber("+1"))
	assert.False(t, IsNumber("01"))
	assert.False(t, IsNumber(".inf"))
}
