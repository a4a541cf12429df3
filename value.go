package slabJSON

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// ### Constructors ###

// Null returns a new null node.
func (a *Allocator) Null() *Value {
	return a.newValue(Null)
}

// Boolean returns a new boolean node pointing at the shared literal text.
func (a *Allocator) Boolean(b bool) *Value {
	v := a.newValue(Boolean)
	if b {
		v.text = literalTrue
	} else {
		v.text = literalFalse
	}
	return v
}

// Number returns a number node holding a copy of lexeme. The lexeme is
// taken as is; IsNumber checks it against the JSON number grammar.
func (a *Allocator) Number(lexeme string) *Value {
	v := a.newValue(Number)
	v.text = strings.Clone(lexeme)
	return v
}

// String returns a string node holding a copy of text. Text is stored and
// later written between quotes without any escaping.
func (a *Allocator) String(text string) *Value {
	v := a.newValue(String)
	v.text = strings.Clone(text)
	return v
}

func (a *Allocator) Array() *Value {
	return a.newValue(Array)
}

func (a *Allocator) Object() *Value {
	return a.newValue(Object)
}

func NewNull() *Value { return defaultAllocator.Null() }
func NewBoolean(b bool) *Value { return defaultAllocator.Boolean(b) }
func NewNumber(lexeme string) *Value { return defaultAllocator.Number(lexeme) }
func NewString(text string) *Value { return defaultAllocator.String(text) }
func NewArray() *Value { return defaultAllocator.Array() }
func NewObject() *Value { return defaultAllocator.Object() }

// ### Accessors ###

func (v *Value) Kind() Kind {
	return v.kind
}

// Allocator returns the allocator the node was created from.
func (v *Value) Allocator() *Allocator {
	return v.alloc
}

// Text returns the raw text of a Boolean, Number or String node and "" for
// the other kinds. String text keeps its escapes.
func (v *Value) Text() string {
	return v.text
}

// Bool reports whether v is the boolean true.
func (v *Value) Bool() bool {
	return v.kind == Boolean && v.text == literalTrue
}

// Len is the element count of an array or the member count of an object.
func (v *Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.array.values)
	case Object:
		return len(v.object.members)
	case Null, Boolean, Number, String:
	}
	return 0
}

// Index returns the i-th array element, or nil when v is not an array or i
// is out of range.
func (v *Value) Index(i int) *Value {
	if v.kind != Array || i < 0 || i >= len(v.array.values) {
		return nil
	}
	return v.array.values[i]
}

// Members returns a copy of the member list of an object, in insertion
// order.
func (v *Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	members := make([]Member, len(v.object.members))
	for i, m := range v.object.members {
		members[i] = *m
	}
	return members
}

// Range calls fn for each member of an object in insertion order until fn
// returns false.
func (v *Value) Range(fn func(name string, value *Value) bool) {
	if v.kind != Object {
		return
	}
	for _, m := range v.object.members {
		if !fn(m.Name, m.Value) {
			return
		}
	}
}

// Has reports whether an object has a member with the given name.
func (v *Value) Has(name string) bool {
	return v.Get(name) != nil
}

// Get returns the value of the first member named name, or nil. Names are
// compared byte for byte as stored, escapes included.
func (v *Value) Get(name string) *Value {
	if v.kind != Object {
		return nil
	}
	for _, m := range v.object.members {
		if m.Name == name {
			return m.Value
		}
	}
	return nil
}

// ### Mutation ###

func (v *Value) mustBe(kind Kind, op string) {
	if v.kind != kind {
		panic("slabJSON: " + op + " on " + v.kind.String() + " value")
	}
}

// Push appends child to an array; the array takes ownership of it.
//
// Element slots grow by a fixed chunk of 8 and each growth copies the
// slots, so building an array of n elements costs O(n²/8) slot copies.
// Parsing goes through the same path, as does PushMember for objects.
func (v *Value) Push(child *Value) {
	v.mustBe(Array, "Push")
	if child == nil {
		panic("slabJSON: Push of nil value")
	}
	v.array.values = growSlots(v.array.values, slotChunk)
	v.array.values = append(v.array.values, child)
}

// PushMember appends a member to an object, copying name. Duplicate names
// are kept; the object takes ownership of child.
func (v *Value) PushMember(name string, child *Value) {
	v.mustBe(Object, "PushMember")
	if child == nil {
		panic("slabJSON: PushMember of nil value")
	}
	v.pushMember(strings.Clone(name), child)
}

// pushMember takes name as is.
func (v *Value) pushMember(name string, child *Value) {
	m := v.alloc.newMember(name, child)
	v.object.members = growSlots(v.object.members, slotChunk)
	v.object.members = append(v.object.members, m)
}

// ### Copy and Release ###

// Clone returns an independent deep copy of v built from v's allocator.
func (v *Value) Clone() *Value {
	return v.alloc.Clone(v)
}

type clonePair struct {
	src, dst *Value
}

// Clone deep-copies src into nodes owned by a. The walk uses an explicit
// stack, so trees of any depth can be copied.
func (a *Allocator) Clone(src *Value) *Value {
	root := a.cloneNode(src)
	stack := arraystack.New()
	stack.Push(clonePair{src: src, dst: root})
	for !stack.Empty() {
		top, _ := stack.Pop()
		pair := top.(clonePair)
		switch pair.src.kind {
		case Array:
			for _, child := range pair.src.array.values {
				dst := a.cloneNode(child)
				pair.dst.Push(dst)
				stack.Push(clonePair{src: child, dst: dst})
			}
		case Object:
			for _, m := range pair.src.object.members {
				dst := a.cloneNode(m.Value)
				pair.dst.PushMember(m.Name, dst)
				stack.Push(clonePair{src: m.Value, dst: dst})
			}
		case Null, Boolean, Number, String:
		}
	}
	return root
}

// cloneNode copies a scalar, or returns an empty container of the same
// kind.
func (a *Allocator) cloneNode(src *Value) *Value {
	switch src.kind {
	case Null:
		return a.Null()
	case Boolean:
		return a.Boolean(src.Bool())
	case Number:
		return a.Number(src.text)
	case String:
		return a.String(src.text)
	case Array:
		return a.Array()
	case Object:
		return a.Object()
	}
	panic("slabJSON: clone of unknown kind " + src.kind.String())
}

// Release frees v and everything it owns. v must be a root: releasing a
// node that is still held by a parent corrupts the parent.
//
// Released nodes are recycled, so v must not be used afterwards. A second
// Release panics only while v's slot is still free; once the Allocator has
// handed the slot out again, a stale Release frees the new owner's node.
// The check is best effort and does not replace correct ownership.
func (v *Value) Release() {
	if v == nil {
		return
	}
	releaseTree(v)
}

// String renders v as compact JSON.
func (v *Value) String() string {
	return Stringify(v)
}
