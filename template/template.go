// Package template builds new documents out of data trees, driven by a
// template tree of instructions.
//
// An instruction is an object. With a "properties" member (an object) it
// compiles to an object holding the compiled value of each property;
// properties that compile to nothing are left out. Otherwise, with a "path"
// member (a string) it compiles to a copy of the node the path selects in
// the data, or to nothing when the path selects nothing. An extra
// "stringify": true turns that copy into a string leaf holding its
// serialized text with quotes backslash-escaped. Anything else compiles to
// nothing.
package template

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"slabJSON"
	"slabJSON/search"
)

// ErrInvalidInstruction is wrapped by errors about instruction members of
// the wrong kind.
var ErrInvalidInstruction = errors.New("invalid template instruction")

const (
	keyProperties = "properties"
	keyPath       = "path"
	keyStringify  = "stringify"
	keySources    = "srcs"
)

// Options configures Compile.
type Options struct {
	// StrictPaths panics on a malformed path instead of returning its
	// *search.PathError.
	StrictPaths bool
	Logger      *zap.Logger
}

// Option is the functional option type.
type Option func(*Options)

// WithStrictPaths sets the malformed path policy.
func WithStrictPaths(strict bool) Option {
	return func(opts *Options) {
		opts.StrictPaths = strict
	}
}

// WithLogger sets the logger dropped properties are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// ParseOptions parses functional options and merge them to default Options.
func ParseOptions(setters ...Option) *Options {
	opts := &Options{}
	for _, setter := range setters {
		setter(opts)
	}
	return opts
}

type compiler struct {
	data  *slabJSON.Value
	alloc *slabJSON.Allocator
	opts  *Options
	log   *zap.SugaredLogger
}

func newCompiler(data *slabJSON.Value, opts *Options) *compiler {
	c := &compiler{data: data, opts: opts, alloc: slabJSON.DefaultAllocator()}
	if data != nil {
		c.alloc = data.Allocator()
	}
	if opts.Logger != nil {
		c.log = opts.Logger.Named("template").Sugar()
	} else {
		c.log = slabJSON.NewSugar("template")
	}
	return c
}

// Compile evaluates tmpl against data. The result is a new tree owned by
// the caller and built from data's allocator; it is nil, with a nil error,
// when the template compiles to nothing. Neither input is modified.
func Compile(tmpl, data *slabJSON.Value, setters ...Option) (*slabJSON.Value, error) {
	return newCompiler(data, ParseOptions(setters...)).compileInstruction(tmpl, "$")
}

func (c *compiler) compileInstruction(instr *slabJSON.Value, at string) (*slabJSON.Value, error) {
	if instr == nil || instr.Kind() != slabJSON.Object {
		return nil, nil
	}
	if instr.Has(keyProperties) {
		return c.compileObject(instr, at)
	}
	if instr.Has(keyPath) {
		return c.compilePath(instr, at)
	}
	return nil, nil
}

func (c *compiler) compileObject(instr *slabJSON.Value, at string) (*slabJSON.Value, error) {
	props := instr.Get(keyProperties)
	if props.Kind() != slabJSON.Object {
		return nil, errors.Wrapf(ErrInvalidInstruction, "%s: %q must be an object, got %s", at, keyProperties, props.Kind())
	}

	result := c.alloc.Object()
	var err error
	props.Range(func(name string, sub *slabJSON.Value) bool {
		var compiled *slabJSON.Value
		compiled, err = c.compileInstruction(sub, at+"."+name)
		if err != nil {
			return false
		}
		if compiled == nil {
			c.log.Debugw("property dropped", "at", at, "name", name)
			return true
		}
		result.PushMember(name, compiled)
		return true
	})
	if err != nil {
		result.Release()
		return nil, err
	}
	return result, nil
}

func (c *compiler) compilePath(instr *slabJSON.Value, at string) (*slabJSON.Value, error) {
	pathValue := instr.Get(keyPath)
	if pathValue.Kind() != slabJSON.String {
		return nil, errors.Wrapf(ErrInvalidInstruction, "%s: %q must be a string, got %s", at, keyPath, pathValue.Kind())
	}

	stringify := false
	if instr.Has(keyStringify) {
		flag := instr.Get(keyStringify)
		if flag.Kind() != slabJSON.Boolean {
			return nil, errors.Wrapf(ErrInvalidInstruction, "%s: %q must be a boolean, got %s", at, keyStringify, flag.Kind())
		}
		stringify = flag.Bool()
	}

	found, err := c.search(pathValue.Text())
	if err != nil {
		return nil, errors.WithMessage(err, at)
	}
	if found == nil {
		return nil, nil
	}

	if stringify {
		return c.alloc.String(slabJSON.Escape(slabJSON.Stringify(found))), nil
	}
	return c.alloc.Clone(found), nil
}

func (c *compiler) search(expr string) (*slabJSON.Value, error) {
	if c.opts.StrictPaths {
		return search.MustSearch(c.data, expr), nil
	}
	path, err := search.Compile(expr)
	if err != nil {
		return nil, err
	}
	if c.data == nil {
		return nil, nil
	}
	return path.Find(c.data), nil
}

// Combine wraps values in {"srcs":[...]}. The result takes ownership of
// the values; it is built from the first value's allocator.
func Combine(values ...*slabJSON.Value) *slabJSON.Value {
	alloc := slabJSON.DefaultAllocator()
	if len(values) > 0 && values[0] != nil {
		alloc = values[0].Allocator()
	}

	srcs := alloc.Array()
	for _, v := range values {
		srcs.Push(v)
	}
	obj := alloc.Object()
	obj.PushMember(keySources, srcs)
	return obj
}

// CompileAll compiles tmpl against each data tree concurrently. Results
// keep the order of data. On the first error the results compiled so far
// are released and the error is returned.
func CompileAll(ctx context.Context, tmpl *slabJSON.Value, data []*slabJSON.Value, setters ...Option) ([]*slabJSON.Value, error) {
	opts := ParseOptions(setters...)
	results := make([]*slabJSON.Value, len(data))

	eg, ctx := errgroup.WithContext(ctx)
	for i, d := range data {
		i, d := i, d
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := newCompiler(d, opts).compileInstruction(tmpl, "$")
			if err != nil {
				return errors.WithMessagef(err, "data[%d]", i)
			}
			results[i] = v
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		for _, v := range results {
			v.Release()
		}
		return nil, err
	}
	return results, nil
}
