package slabJSON

import (
	"strings"
	"sync"

	"github.com/emirpasic/gods/stacks/arraystack"
)

const (
	// poolBatchSize is how many nodes a slab pool adds when its free list
	// runs dry.
	poolBatchSize = 16
	// slotChunk is the growth step for array elements and object members.
	slotChunk = 8
	// outputChunk is the growth step for serializer output.
	outputChunk = 64
	// maxPooledBuffer caps the buffers put back into the pools.
	maxPooledBuffer = 64 * 1024
)

var (
	builderPool = sync.Pool{
		New: func() interface{} {
			return &strings.Builder{}
		},
	}
	bufferPool = sync.Pool{
		New: func() interface{} {
			return &Buffer{buf: make([]byte, 0, outputChunk)}
		},
	}
	parserPool = sync.Pool{
		New: func() interface{} {
			return NewParser()
		},
	}
	serializerPool = sync.Pool{
		New: func() interface{} {
			return NewSerializer()
		},
	}

	defaultAllocator = NewAllocator()
)

// ### Slab Pools ###

// slab hands out nodes of one type. Nodes are carved from blocks of
// poolBatchSize and recycled through a free list; blocks are never given
// back to the runtime while the slab is reachable.
type slab[T any] struct {
	free      []*T
	allocated int
	live      int
	batches   int
}

func (s *slab[T]) get() *T {
	if len(s.free) == 0 {
		block := make([]T, poolBatchSize)
		for i := range block {
			s.free = append(s.free, &block[i])
		}
		s.allocated += poolBatchSize
		s.batches++
	}
	n := len(s.free) - 1
	x := s.free[n]
	s.free[n] = nil
	s.free = s.free[:n]
	s.live++
	return x
}

func (s *slab[T]) put(x *T) {
	var zero T
	*x = zero
	s.free = append(s.free, x)
	s.live--
}

func (s *slab[T]) stats() PoolStats {
	return PoolStats{Live: s.live, Allocated: s.allocated, Batches: s.batches}
}

// PoolStats describes one slab pool.
type PoolStats struct {
	Live      int // nodes handed out and not yet released
	Allocated int // nodes ever carved, live or free
	Batches   int
}

// AllocatorStats is a snapshot of every pool of an Allocator.
type AllocatorStats struct {
	Values  PoolStats
	Arrays  PoolStats
	Objects PoolStats
	Members PoolStats
	Results PoolStats
}

// Live is the total number of nodes not yet released, across all pools.
func (s AllocatorStats) Live() int {
	return s.Values.Live + s.Arrays.Live + s.Objects.Live + s.Members.Live + s.Results.Live
}

// Allocator owns the node pools a tree is built from. It is safe for
// concurrent use; every pool operation runs under its mutex.
type Allocator struct {
	mu      sync.Mutex
	values  slab[Value]
	arrays  slab[arrayBody]
	objects slab[objectBody]
	members slab[Member]
	results slab[ParseResult]
}

// NewAllocator returns an empty Allocator. Pools fill lazily.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// DefaultAllocator is the process-wide Allocator behind the package-level
// helpers.
func DefaultAllocator() *Allocator {
	return defaultAllocator
}

// Stats returns a consistent snapshot of the pool counters.
func (a *Allocator) Stats() AllocatorStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AllocatorStats{
		Values:  a.values.stats(),
		Arrays:  a.arrays.stats(),
		Objects: a.objects.stats(),
		Members: a.members.stats(),
		Results: a.results.stats(),
	}
}

func (a *Allocator) newValue(kind Kind) *Value {
	a.mu.Lock()
	v := a.values.get()
	switch kind {
	case Array:
		v.array = a.arrays.get()
	case Object:
		v.object = a.objects.get()
	case Null, Boolean, Number, String:
	}
	a.mu.Unlock()

	v.kind = kind
	v.alloc = a
	v.live = true
	return v
}

func (a *Allocator) newMember(name string, value *Value) *Member {
	a.mu.Lock()
	m := a.members.get()
	a.mu.Unlock()
	m.Name = name
	m.Value = value
	return m
}

func (a *Allocator) newResult() *ParseResult {
	a.mu.Lock()
	r := a.results.get()
	a.mu.Unlock()
	r.alloc = a
	return r
}

func (a *Allocator) releaseResult(r *ParseResult) {
	a.mu.Lock()
	a.results.put(r)
	a.mu.Unlock()
}

// ### Tree Release ###

type releaseFrame struct {
	value    *Value
	expanded bool
}

// releaseTree frees root and all of its descendants in post-order: children
// first, then the container's backing slice and body, then the node itself.
// Each node goes back to the Allocator that created it.
func releaseTree(root *Value) {
	var held *Allocator
	defer func() {
		if held != nil {
			held.mu.Unlock()
		}
	}()

	stack := arraystack.New()
	stack.Push(releaseFrame{value: root})
	for !stack.Empty() {
		top, _ := stack.Pop()
		frame := top.(releaseFrame)
		v := frame.value
		if !v.live {
			panic("slabJSON: value released twice")
		}

		if !frame.expanded && (v.kind == Array || v.kind == Object) {
			stack.Push(releaseFrame{value: v, expanded: true})
			pushChildren(stack, v)
			continue
		}

		if held != v.alloc {
			if held != nil {
				held.mu.Unlock()
			}
			held = v.alloc
			held.mu.Lock()
		}
		held.freeNode(v)
	}
}

// pushChildren stacks the children of v in reverse, so they are freed in
// document order.
func pushChildren(stack *arraystack.Stack, v *Value) {
	switch v.kind {
	case Array:
		values := v.array.values
		for i := len(values) - 1; i >= 0; i-- {
			stack.Push(releaseFrame{value: values[i]})
		}
	case Object:
		members := v.object.members
		for i := len(members) - 1; i >= 0; i-- {
			stack.Push(releaseFrame{value: members[i].Value})
		}
	case Null, Boolean, Number, String:
	}
}

// freeNode returns a node whose children are already gone. a.mu is held.
func (a *Allocator) freeNode(v *Value) {
	switch v.kind {
	case Array:
		v.array.values = nil
		a.arrays.put(v.array)
	case Object:
		for _, m := range v.object.members {
			// members always come from the object's own allocator
			m.Value = nil
			a.members.put(m)
		}
		v.object.members = nil
		a.objects.put(v.object)
	case Null, Boolean, Number, String:
		// Text is dropped with the node; booleans only reference literals.
	}
	a.values.put(v)
}

// ### Buffer Pool Management ###

func getBuffer() *Buffer {
	buf := bufferPool.Get().(*Buffer)
	buf.Reset()
	return buf
}

// getBufferSize returns a pooled buffer already grown to hold sizeHint
// bytes.
func getBufferSize(sizeHint int) *Buffer {
	buf := getBuffer()
	if cap(buf.buf) < sizeHint {
		buf.buf = make([]byte, 0, chunkCeil(sizeHint, outputChunk))
	}
	return buf
}

func putBuffer(buf *Buffer) {
	if buf == nil || cap(buf.buf) > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// ### Builder Management ###

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	builderPool.Put(b)
}

// ### Parser and Serializer Pools ###

// AcquireParser returns a pooled Parser with default options. Return it
// with ReleaseParser once its results are no longer read through it.
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.Reset()
	return p
}

func ReleaseParser(p *Parser) {
	if p == nil {
		return
	}
	p.Reset()
	parserPool.Put(p)
}

func AcquireSerializer() *Serializer {
	return serializerPool.Get().(*Serializer)
}

func ReleaseSerializer(s *Serializer) {
	if s == nil || cap(s.buf.buf) > maxPooledBuffer {
		return
	}
	s.buf.Reset()
	serializerPool.Put(s)
}

// ### Buffer ###

// Write appends p, growing in whole output chunks.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.grow(len(p))
	n = copy(b.buf[b.off:], p)
	b.off += n
	return n, nil
}

func (b *Buffer) WriteByte(c byte) error {
	b.grow(1)
	b.buf[b.off] = c
	b.off++
	return nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	b.grow(len(s))
	n := copy(b.buf[b.off:], s)
	b.off += n
	return n, nil
}

// grow makes room for n more bytes. The capacity is the smallest multiple
// of outputChunk covering the content, so growth is linear, and it never
// shrinks.
func (b *Buffer) grow(n int) {
	needed := b.off + n
	if needed <= cap(b.buf) {
		b.buf = b.buf[:needed]
		return
	}

	newBuf := make([]byte, needed, chunkCeil(needed, outputChunk))
	copy(newBuf, b.buf[:b.off])
	b.buf = newBuf
}

// reserve makes room for n more bytes in a single allocation, using the
// same chunk ceiling as grow.
func (b *Buffer) reserve(n int) {
	needed := b.off + n
	if needed <= cap(b.buf) {
		return
	}
	newBuf := make([]byte, b.off, chunkCeil(needed, outputChunk))
	copy(newBuf, b.buf[:b.off])
	b.buf = newBuf
}

func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// Bytes returns the written content. It aliases the buffer until the next
// write or Reset.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.off]
}

func (b *Buffer) Len() int {
	return b.off
}

func (b *Buffer) Cap() int {
	return cap(b.buf)
}
