package slabJSON

import "github.com/emirpasic/gods/stacks/arraystack"

// NewSerializer returns a Serializer whose buffer starts at one output
// chunk.
func NewSerializer() *Serializer {
	return &Serializer{buf: &Buffer{buf: make([]byte, 0, outputChunk)}}
}

// Stringify renders v as compact JSON. Number and String text is written
// exactly as stored.
func (s *Serializer) Stringify(v *Value) string {
	s.render(v)
	return string(s.buf.Bytes())
}

// AppendStringify appends the rendering of v to dst.
func (s *Serializer) AppendStringify(dst []byte, v *Value) []byte {
	s.render(v)
	return append(dst, s.buf.Bytes()...)
}

// Buffer exposes the output of the last call. It is overwritten by the
// next one.
func (s *Serializer) Buffer() *Buffer {
	return s.buf
}

// render replaces the buffer content with the rendering of v. The buffer
// is sized once from renderedLen, so writing never reallocates.
func (s *Serializer) render(v *Value) {
	s.buf.Reset()
	s.buf.reserve(renderedLen(v))
	s.writeValue(v)
}

// renderedLen is the exact byte length of the rendering of v.
func renderedLen(root *Value) int {
	n := 0
	stack := arraystack.New()
	stack.Push(root)
	for !stack.Empty() {
		top, _ := stack.Pop()
		v := top.(*Value)
		switch v.kind {
		case Null:
			n += len(literalNull)
		case Boolean, Number:
			n += len(v.text)
		case String:
			n += len(v.text) + 2
		case Array:
			n += 2 + separators(len(v.array.values))
			for _, child := range v.array.values {
				stack.Push(child)
			}
		case Object:
			n += 2 + separators(len(v.object.members))
			for _, m := range v.object.members {
				n += len(m.Name) + 3 // quotes and colon
				stack.Push(m.Value)
			}
		}
	}
	return n
}

func separators(count int) int {
	if count == 0 {
		return 0
	}
	return count - 1
}

// writeFrame is an open container and the index of its next child.
type writeFrame struct {
	value *Value
	next  int
}

// writeValue renders v depth first with an explicit stack, so deep trees
// built by hand do not grow the goroutine stack.
func (s *Serializer) writeValue(v *Value) {
	stack := arraystack.New()
	s.open(stack, v)
	for !stack.Empty() {
		top, _ := stack.Peek()
		frame := top.(*writeFrame)
		container := frame.value

		if frame.next == container.Len() {
			if container.kind == Array {
				s.buf.WriteByte(']')
			} else {
				s.buf.WriteByte('}')
			}
			stack.Pop()
			continue
		}

		if frame.next > 0 {
			s.buf.WriteByte(',')
		}
		var child *Value
		if container.kind == Array {
			child = container.array.values[frame.next]
		} else {
			m := container.object.members[frame.next]
			s.buf.WriteByte('"')
			s.buf.WriteString(m.Name)
			s.buf.WriteString(`":`)
			child = m.Value
		}
		frame.next++
		s.open(stack, child)
	}
}

// open writes a scalar in full, or the opening bracket of a container and
// pushes its frame.
func (s *Serializer) open(stack *arraystack.Stack, v *Value) {
	switch v.kind {
	case Null:
		s.buf.WriteString(literalNull)
	case Boolean, Number:
		s.buf.WriteString(v.text)
	case String:
		s.buf.WriteByte('"')
		s.buf.WriteString(v.text)
		s.buf.WriteByte('"')
	case Array:
		s.buf.WriteByte('[')
		stack.Push(&writeFrame{value: v})
	case Object:
		s.buf.WriteByte('{')
		stack.Push(&writeFrame{value: v})
	}
}
