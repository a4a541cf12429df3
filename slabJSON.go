// Package slabJSON is a document-oriented JSON engine. Parsed trees keep
// number and string lexemes exactly as written, so a parse followed by a
// stringify is byte-exact for canonical input. Tree nodes come from pooled
// slabs owned by an Allocator and go back to it on Release.
package slabJSON

import (
	"strconv"
)

// Sentinels for errors.Is; they match any *SyntaxError with the same code.
var (
	ErrEmptyFileError       = &SyntaxError{Code: ErrEmptyFile, Msg: ErrEmptyFile.String()}
	ErrUnexpectedTokenError = &SyntaxError{Code: ErrUnexpectedToken, Msg: ErrUnexpectedToken.String()}
	ErrDepthExceededError   = &SyntaxError{Code: ErrDepthExceeded, Msg: ErrDepthExceeded.String()}
)

func newSyntaxError(code ErrorCode, offset int64) *SyntaxError {
	return &SyntaxError{Code: code, Offset: offset, Msg: code.String()}
}

func (e *SyntaxError) Error() string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString("json syntax error at offset ")
	b.WriteString(strconv.FormatInt(e.Offset, 10))
	b.WriteString(": ")
	b.WriteString(e.Msg)

	return b.String()
}

// Is matches on the error code only.
func (e *SyntaxError) Is(target error) bool {
	t, ok := target.(*SyntaxError)
	return ok && t.Code == e.Code
}

// ### Parse Results ###

// Err returns the failure as a *SyntaxError, or nil on success.
func (r *ParseResult) Err() error {
	if r.Code == ErrNone {
		return nil
	}
	return newSyntaxError(r.Code, r.Offset)
}

// Detach hands the parsed tree over to the caller, who then owns it.
func (r *ParseResult) Detach() *Value {
	v := r.Value
	r.Value = nil
	return v
}

// Release returns the result wrapper to its pool. The tree is not touched;
// Detach it first or release it separately.
func (r *ParseResult) Release() {
	if r == nil {
		return
	}
	if r.alloc == nil {
		panic("slabJSON: parse result released twice")
	}
	r.alloc.releaseResult(r)
}

// ### Core Functions ###

// Parse parses data with a pooled parser and the default allocator.
func Parse(data []byte) *ParseResult {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Parse(data)
}

// ParseValue parses data and returns the tree, or a *SyntaxError.
func ParseValue(data []byte) (*Value, error) {
	r := Parse(data)
	defer r.Release()
	if err := r.Err(); err != nil {
		return nil, err
	}
	return r.Detach(), nil
}

// Valid reports whether data is a document Parse would accept.
func Valid(data []byte) bool {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Valid(data)
}

// Stringify renders v as compact JSON with a pooled serializer.
func Stringify(v *Value) string {
	s := AcquireSerializer()
	defer ReleaseSerializer(s)
	return s.Stringify(v)
}

// AppendStringify appends the rendering of v to dst.
func AppendStringify(dst []byte, v *Value) []byte {
	s := AcquireSerializer()
	defer ReleaseSerializer(s)
	return s.AppendStringify(dst, v)
}
