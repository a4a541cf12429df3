// Package search evaluates dotted and bracketed paths such as
// "store.books[2].title" against slabJSON trees.
//
// A path is a leading bare member name or a sequence of ".name" and
// "[index]" steps. Names run up to the next '.' or '[' and are compared
// byte for byte with the stored (still escaped) member names. When an
// object repeats a name, the last member with that name is selected.
package search

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"slabJSON"
)

// ErrMalformedPath is wrapped by every *PathError.
var ErrMalformedPath = errors.New("malformed search path")

// PathError reports a path that does not follow the grammar.
type PathError struct {
	Path   string
	Offset int
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid JSON search path %q at offset %d", e.Path, e.Offset)
}

func (e *PathError) Unwrap() error {
	return ErrMalformedPath
}

type stepKind uint8

const (
	stepMember stepKind = iota
	stepIndex
)

type step struct {
	kind  stepKind
	name  string
	index int
}

// Path is a compiled search path. It is immutable and safe for concurrent
// use.
type Path struct {
	expr  string
	steps []step
}

// Compile checks expr against the path grammar and returns the compiled
// path. The empty path selects the root.
func Compile(expr string) (*Path, error) {
	p := &Path{expr: expr}
	pos := 0
	for pos < len(expr) {
		switch {
		case expr[pos] == '[':
			pos++
			start := pos
			for pos < len(expr) && isDigit(expr[pos]) {
				pos++
			}
			if pos == start || pos >= len(expr) || expr[pos] != ']' {
				return nil, &PathError{Path: expr, Offset: pos}
			}
			p.steps = append(p.steps, step{kind: stepIndex, index: parseIndex(expr[start:pos])})
			pos++

		case pos == 0 || expr[pos] == '.':
			if expr[pos] == '.' {
				if pos == 0 {
					return nil, &PathError{Path: expr, Offset: 0}
				}
				pos++
			}
			start := pos
			for pos < len(expr) && expr[pos] != '.' && expr[pos] != '[' {
				pos++
			}
			if pos == start {
				return nil, &PathError{Path: expr, Offset: pos}
			}
			p.steps = append(p.steps, step{kind: stepMember, name: expr[start:pos]})

		default:
			return nil, &PathError{Path: expr, Offset: pos}
		}
	}
	return p, nil
}

// MustCompile is like Compile but panics with the *PathError.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Path) String() string {
	return p.expr
}

// Find returns the node the path selects under root, or nil when a step
// has nothing to select: a missing member, an index out of range or a
// step of the wrong kind for the node it meets. The result is borrowed
// from root.
func (p *Path) Find(root *slabJSON.Value) *slabJSON.Value {
	current := root
	for _, s := range p.steps {
		if current == nil {
			return nil
		}
		switch s.kind {
		case stepMember:
			current = lastMember(current, s.name)
		case stepIndex:
			current = current.Index(s.index)
		}
	}
	return current
}

func lastMember(v *slabJSON.Value, name string) *slabJSON.Value {
	var found *slabJSON.Value
	v.Range(func(member string, value *slabJSON.Value) bool {
		if member == name {
			found = value
		}
		return true
	})
	return found
}

// Search compiles expr and evaluates it against root. A malformed expr is
// logged and returned as a *PathError.
func Search(root *slabJSON.Value, expr string) (*slabJSON.Value, error) {
	p, err := Compile(expr)
	if err != nil {
		slabJSON.NewSugar("search").Warnw("malformed path", "path", expr, "error", err)
		return nil, err
	}
	return p.Find(root), nil
}

// MustSearch is Search with the fail-fast policy: a malformed expr panics.
func MustSearch(root *slabJSON.Value, expr string) *slabJSON.Value {
	return MustCompile(expr).Find(root)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseIndex reads a run of digits. Indexes too large for an int can never
// be in range and saturate.
func parseIndex(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}
