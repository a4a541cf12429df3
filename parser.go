package slabJSON

import (
	"go.uber.org/zap"
)

// NewParser returns a Parser configured by setters. Its nodes come from
// the Allocator named in the options, or the default one.
func NewParser(setters ...Option) *Parser {
	p := &Parser{}
	p.configure(ParseOptions(setters...))
	return p
}

func (p *Parser) configure(opts *Options) {
	p.opts = opts
	p.alloc = opts.Allocator
	if p.alloc == nil {
		p.alloc = defaultAllocator
	}
}

// Reset puts the parser back in StateFresh, dropping any cursor state.
func (p *Parser) Reset() {
	p.tok.Reset(nil)
	p.depth = 0
	p.err = SyntaxError{}
	p.next = TokenEOF
	p.state = StateFresh
}

// State reports where the parser is in its state machine. StateDone and
// StateFailed hold until the next Parse or Reset.
func (p *Parser) State() ParserState {
	return p.state
}

// Parse builds a tree from data. The result is never nil: on success its
// Value is set and Code is ErrNone, otherwise Value is nil and Code and
// Offset say what went wrong and where. Nothing built before a failure
// survives it.
func (p *Parser) Parse(data []byte) *ParseResult {
	p.Reset()
	result := p.alloc.newResult()

	if len(data) == 0 {
		p.fail(ErrEmptyFile, 0)
	} else {
		p.tok.Reset(data)
		p.advance()
		result.Value = p.parseFile()
	}

	if result.Value == nil {
		result.Code = p.err.Code
		result.Offset = p.err.Offset
		p.logFailure(len(data))
		return result
	}

	p.state = StateDone
	return result
}

// Err returns the failure of the last Parse as a *SyntaxError, or nil.
func (p *Parser) Err() error {
	if p.state != StateFailed || p.err.Code == ErrNone {
		return nil
	}
	return newSyntaxError(p.err.Code, p.err.Offset)
}

func (p *Parser) advance() {
	p.next = p.tok.Next()
}

// fail records the first failure of a parse; later calls while unwinding
// keep it.
func (p *Parser) fail(code ErrorCode, offset int) {
	if p.state == StateFailed {
		return
	}
	p.err.Code = code
	p.err.Offset = int64(offset)
	p.err.Msg = code.String()
	p.state = StateFailed
}

func (p *Parser) logFailure(size int) {
	logger := p.opts.Logger
	if logger == nil {
		logger = Logger().Named("parser")
	}
	logger.Debug("parse failed",
		zap.Stringer("code", p.err.Code),
		zap.Int64("offset", p.err.Offset),
		zap.Int("size", size))
}

func (p *Parser) parseFile() *Value {
	v := p.parseValue()
	if v == nil {
		return nil
	}
	if p.next != TokenEOF {
		v.Release()
		p.fail(ErrUnexpectedToken, p.tok.Offset())
		return nil
	}
	return v
}

func (p *Parser) parseValue() *Value {
	p.state = StateInValue

	var v *Value
	switch p.next {
	case TokenString:
		v = p.alloc.newValue(String)
		v.text = string(p.tok.Lexeme())
	case TokenNumber:
		v = p.alloc.newValue(Number)
		v.text = string(p.tok.Lexeme())
	case TokenTrue:
		v = p.alloc.Boolean(true)
	case TokenFalse:
		v = p.alloc.Boolean(false)
	case TokenNull:
		v = p.alloc.Null()
	case TokenBeginArray:
		return p.parseArray()
	case TokenBeginObject:
		return p.parseObject()
	default:
		p.fail(ErrUnexpectedToken, p.tok.Offset())
		return nil
	}

	p.advance()
	return v
}

// enter opens one nesting level, failing once MaxDepth is reached.
func (p *Parser) enter() bool {
	if p.depth >= p.opts.MaxDepth {
		p.fail(ErrDepthExceeded, p.tok.Offset())
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) parseArray() *Value {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	p.state = StateInArray
	arr := p.alloc.Array()
	p.advance() // [

	if p.next == TokenEndArray {
		p.advance()
		return arr
	}

	for {
		v := p.parseValue()
		if v == nil {
			arr.Release()
			return nil
		}
		arr.Push(v)
		p.state = StateInArray

		if p.next != TokenValueSeparator {
			break
		}
		p.advance()
	}

	if p.next != TokenEndArray {
		arr.Release()
		p.fail(ErrUnexpectedToken, p.tok.Offset())
		return nil
	}
	p.advance()
	return arr
}

func (p *Parser) parseObject() *Value {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	p.state = StateInObject
	obj := p.alloc.Object()
	p.advance() // {

	if p.next == TokenEndObject {
		p.advance()
		return obj
	}

	for {
		if !p.parseObjectMember(obj) {
			obj.Release()
			return nil
		}
		p.state = StateInObject

		if p.next != TokenValueSeparator {
			break
		}
		p.advance()
	}

	if p.next != TokenEndObject {
		obj.Release()
		p.fail(ErrUnexpectedToken, p.tok.Offset())
		return nil
	}
	p.advance()
	return obj
}

// parseObjectMember reads `"name" : value` into obj. Failures on the name
// or the separator are reported at the start of the offending lexeme.
func (p *Parser) parseObjectMember(obj *Value) bool {
	if p.next != TokenString {
		p.fail(ErrUnexpectedToken, p.lexemeOffset())
		return false
	}
	name := string(p.tok.Lexeme())
	p.advance()

	if p.next != TokenNameSeparator {
		p.fail(ErrUnexpectedToken, p.lexemeOffset())
		return false
	}
	p.advance()

	v := p.parseValue()
	if v == nil {
		return false
	}
	obj.pushMember(name, v)
	return true
}

func (p *Parser) lexemeOffset() int {
	return p.tok.Offset() - p.tok.LexemeLen()
}

// ### Validation ###

// Valid reports whether data parses, without building a tree. A failure
// is recorded with the same code and offset Parse would report.
func (p *Parser) Valid(data []byte) bool {
	p.Reset()
	if len(data) == 0 {
		p.fail(ErrEmptyFile, 0)
		return false
	}
	p.tok.Reset(data)
	p.advance()
	if !p.skipValue() {
		return false
	}
	if p.next != TokenEOF {
		p.fail(ErrUnexpectedToken, p.tok.Offset())
		return false
	}
	p.state = StateDone
	return true
}

func (p *Parser) skipValue() bool {
	switch p.next {
	case TokenString, TokenNumber, TokenTrue, TokenFalse, TokenNull:
		p.advance()
		return true
	case TokenBeginArray:
		return p.skipContainer(TokenEndArray, false)
	case TokenBeginObject:
		return p.skipContainer(TokenEndObject, true)
	}
	p.fail(ErrUnexpectedToken, p.tok.Offset())
	return false
}

func (p *Parser) skipContainer(end Token, members bool) bool {
	if !p.enter() {
		return false
	}
	defer p.leave()

	p.advance() // opening bracket
	if p.next == end {
		p.advance()
		return true
	}

	for {
		if members {
			if p.next != TokenString {
				p.fail(ErrUnexpectedToken, p.lexemeOffset())
				return false
			}
			p.advance()
			if p.next != TokenNameSeparator {
				p.fail(ErrUnexpectedToken, p.lexemeOffset())
				return false
			}
			p.advance()
		}
		if !p.skipValue() {
			return false
		}
		if p.next != TokenValueSeparator {
			break
		}
		p.advance()
	}

	if p.next != end {
		p.fail(ErrUnexpectedToken, p.tok.Offset())
		return false
	}
	p.advance()
	return true
}
