package slabJSON

import "unsafe"

// Boolean and null texts. Boolean nodes point at these instead of owning a
// copy, so releasing a boolean never touches its text.
const (
	literalTrue  = "true"
	literalFalse = "false"
	literalNull  = "null"
)

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isWhitespace reports the four JSON whitespace bytes: space, tab, LF, CR.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// GetString converts b to a string without copying. The caller must not
// modify b while the string is in use.
func GetString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// chunkCeil returns the smallest multiple of chunk that is >= n.
func chunkCeil(n, chunk int) int {
	return (n + chunk - 1) / chunk * chunk
}

// growSlots makes room for one more element. Capacity moves in whole
// chunks, so it is always chunkCeil(len, chunk) and never shrinks.
func growSlots[T any](s []T, chunk int) []T {
	if len(s) < cap(s) {
		return s
	}
	grown := make([]T, len(s), chunkCeil(len(s)+1, chunk))
	copy(grown, s)
	return grown
}

// Escape prefixes every double quote in text with a backslash and leaves
// everything else alone, control characters included. It is meant for
// embedding an already serialized document as a string leaf.
func Escape(text string) string {
	if len(text) == 0 {
		return ""
	}
	buf := getBufferSize(len(text))
	defer putBuffer(buf)

	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '"' {
			continue
		}
		buf.WriteString(text[start:i])
		buf.WriteString(`\"`)
		start = i + 1
	}
	buf.WriteString(text[start:])
	return string(buf.Bytes())
}
