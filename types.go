package slabJSON

// ### Type Definitions ###

// Kind tags the payload carried by a Value.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is one node of a document tree.
//
// Number and String nodes hold the raw source lexeme: numbers are never
// converted and string escapes are never decoded, so stringifying a parsed
// tree reproduces canonical input byte for byte.
type Value struct {
	text   string      // Boolean singleton, Number or String lexeme
	array  *arrayBody  // Array payload
	object *objectBody // Object payload
	alloc  *Allocator  // pool the node returns to on Release
	kind   Kind
	live   bool
}

// Member is a single name/value pair of an Object. Name is kept exactly as
// written in the source, escapes included.
type Member struct {
	Name  string
	Value *Value
}

// arrayBody and objectBody are the container headers. Their backing slices
// grow in fixed chunks and never shrink.
type arrayBody struct {
	values []*Value
}

type objectBody struct {
	members []*Member
}

// ErrorCode classifies a failed parse.
type ErrorCode uint8

const (
	ErrNone ErrorCode = iota
	ErrEmptyFile
	ErrUnexpectedToken
	ErrDepthExceeded
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "none"
	case ErrEmptyFile:
		return "empty file"
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrDepthExceeded:
		return "nesting depth exceeded"
	}
	return "unknown error"
}

// ParseResult bundles the outcome of a parse. Value is set iff Code is
// ErrNone; Offset is only meaningful when Code is not ErrNone.
type ParseResult struct {
	Value  *Value
	Offset int64
	Code   ErrorCode
	alloc  *Allocator
}

// SyntaxError optimized for 8-byte alignment
type SyntaxError struct {
	Msg    string    // 16 bytes (ptr + len)
	Offset int64     // 8 bytes
	Code   ErrorCode // 1 byte (padded to 8)
}

// Token is the kind of lexeme produced by the Tokenizer.
type Token uint8

const (
	TokenEOF Token = iota
	TokenBeginObject
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenNameSeparator
	TokenValueSeparator
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull
	TokenUnknown
)

var tokenNames = [...]string{
	TokenEOF:            "EOF",
	TokenBeginObject:    "{",
	TokenEndObject:      "}",
	TokenBeginArray:     "[",
	TokenEndArray:       "]",
	TokenNameSeparator:  ":",
	TokenValueSeparator: ",",
	TokenString:         "string",
	TokenNumber:         "number",
	TokenTrue:           "true",
	TokenFalse:          "false",
	TokenNull:           "null",
	TokenUnknown:        "<unknown>",
}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "<invalid>"
}

// ParserState is the position of a Parser in its parse state machine.
type ParserState uint8

const (
	StateFresh ParserState = iota
	StateInValue
	StateInArray
	StateInObject
	StateDone
	StateFailed
)

func (s ParserState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateInValue:
		return "in-value"
	case StateInArray:
		return "in-array"
	case StateInObject:
		return "in-object"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Tokenizer with slice first for better alignment
type Tokenizer struct {
	data     []byte // 24 bytes (ptr + len + cap)
	pos      int    // 8 bytes
	lexStart int    // 8 bytes
	lexLen   int    // 8 bytes
	hasLex   bool   // 1 byte (padded to 8)
}

// Parser keeps all cursor and lookahead state of one parse, so separate
// Parsers can run on separate goroutines.
type Parser struct {
	tok   Tokenizer   // cursor state
	alloc *Allocator  // 8 bytes (ptr)
	opts  *Options    // 8 bytes (ptr)
	depth int         // 8 bytes
	err   SyntaxError // last failure
	next  Token       // one-token lookahead
	state ParserState
}

// Serializer owns the output buffer of one stringify at a time.
type Serializer struct {
	buf *Buffer // 8 bytes (ptr)
}

// Buffer with largest field first
type Buffer struct {
	buf []byte // 24 bytes (ptr + len + cap)
	off int    // 8 bytes
}
