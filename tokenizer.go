package slabJSON

// NewTokenizer returns a Tokenizer positioned at the start of data.
func NewTokenizer(data []byte) *Tokenizer {
	t := &Tokenizer{}
	t.Reset(data)
	return t
}

// Reset rewinds the tokenizer onto a new buffer.
func (t *Tokenizer) Reset(data []byte) {
	t.data = data
	t.pos = 0
	t.lexStart = 0
	t.lexLen = 0
	t.hasLex = false
}

// Offset is the byte position of the cursor.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// Lexeme returns the raw source text of the last String or Number token:
// the bytes between the quotes for strings, escapes still in place. It
// aliases the input buffer.
func (t *Tokenizer) Lexeme() []byte {
	if !t.hasLex {
		return nil
	}
	return t.data[t.lexStart : t.lexStart+t.lexLen]
}

// LexemeLen is the number of lexeme bytes consumed by the last scan. A
// String or Number scan that ended in TokenUnknown still reports what it had
// consumed; punctuation and literals report zero.
func (t *Tokenizer) LexemeLen() int {
	return t.lexLen
}

// Next scans and returns the next token, advancing the cursor past it.
func (t *Tokenizer) Next() Token {
	t.lexLen = 0
	t.hasLex = false

	t.skipWhitespace()
	if t.pos >= len(t.data) {
		return TokenEOF
	}

	switch t.data[t.pos] {
	case '{':
		t.pos++
		return TokenBeginObject
	case '}':
		t.pos++
		return TokenEndObject
	case '[':
		t.pos++
		return TokenBeginArray
	case ']':
		t.pos++
		return TokenEndArray
	case ':':
		t.pos++
		return TokenNameSeparator
	case ',':
		t.pos++
		return TokenValueSeparator
	case '"':
		return t.scanString()
	case 't':
		if t.matchLiteral(literalTrue) {
			return TokenTrue
		}
	case 'f':
		if t.matchLiteral(literalFalse) {
			return TokenFalse
		}
	case 'n':
		if t.matchLiteral(literalNull) {
			return TokenNull
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return t.scanNumber()
	}

	return TokenUnknown
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.data) && isWhitespace(t.data[t.pos]) {
		t.pos++
	}
}

// peek returns the byte under the cursor, or 0 past the end of input.
func (t *Tokenizer) peek() byte {
	if t.pos < len(t.data) {
		return t.data[t.pos]
	}
	return 0
}

// advance consumes one lexeme byte.
func (t *Tokenizer) advance() {
	t.pos++
	t.lexLen++
}

func (t *Tokenizer) matchLiteral(literal string) bool {
	if len(t.data)-t.pos < len(literal) {
		return false
	}
	if GetString(t.data[t.pos:t.pos+len(literal)]) != literal {
		return false
	}
	t.pos += len(literal)
	return true
}

func (t *Tokenizer) scanString() Token {
	t.pos++ // opening quote
	t.lexStart = t.pos

	for t.pos < len(t.data) {
		switch t.data[t.pos] {
		case '\n', '\t', 0:
			return TokenUnknown

		case '\\':
			if len(t.data)-t.pos < 2 {
				return TokenUnknown
			}
			t.pos++
			switch t.data[t.pos] {
			case '"', '/', '\\', 'b', 'f', 'n', 'r', 't':
				t.pos++
				t.lexLen += 2
			case 'u':
				// u plus four hex digits
				if len(t.data)-t.pos < 5 {
					return TokenUnknown
				}
				for i := 0; i < 4; i++ {
					t.pos++
					if !isHex(t.data[t.pos]) {
						return TokenUnknown
					}
				}
				t.pos++
				t.lexLen += 6
			default:
				return TokenUnknown
			}

		case '"':
			t.pos++ // closing quote
			t.hasLex = true
			return TokenString

		default:
			t.advance()
		}
	}

	// unterminated
	return TokenUnknown
}

func (t *Tokenizer) scanNumber() Token {
	t.lexStart = t.pos

	if t.peek() == '-' {
		t.advance()
	}

	// Integer part: a lone zero or a run of digits without a leading zero
	switch c := t.peek(); {
	case c == '0':
		t.advance()
	case isDigit(c):
		for isDigit(t.peek()) {
			t.advance()
		}
	default:
		return TokenUnknown
	}

	if t.peek() == '.' {
		t.advance()
		if !isDigit(t.peek()) {
			return TokenUnknown
		}
		for isDigit(t.peek()) {
			t.advance()
		}
	}

	if c := t.peek(); c == 'e' || c == 'E' {
		t.advance()
		if c := t.peek(); c == '+' || c == '-' {
			t.advance()
		}
		if !isDigit(t.peek()) {
			return TokenUnknown
		}
		for isDigit(t.peek()) {
			t.advance()
		}
	}

	t.hasLex = true
	return TokenNumber
}

// IsNumber reports whether s is exactly one JSON number lexeme.
func IsNumber(s string) bool {
	var t Tokenizer
	t.Reset([]byte(s))
	if len(s) == 0 || isWhitespace(s[0]) {
		return false
	}
	return t.Next() == TokenNumber && t.pos == len(s)
}
