package slabJSON

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Marshal builds a tree from any Go value json.Marshal accepts. The tree
// comes from the default allocator.
func Marshal(v interface{}) (*Value, error) {
	return defaultAllocator.Marshal(v)
}

// Marshal builds a tree from v using nodes owned by a.
func (a *Allocator) Marshal(v interface{}) (*Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode go value")
	}

	r := NewParser(WithAllocator(a)).Parse(data)
	defer r.Release()
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "parse encoded value")
	}
	return r.Detach(), nil
}

// Unmarshal decodes the tree into dst, which must be a non-nil pointer.
// String escapes are decoded here, not by the tree.
func (v *Value) Unmarshal(dst interface{}) error {
	s := AcquireSerializer()
	defer ReleaseSerializer(s)
	s.render(v)

	if err := json.Unmarshal(s.buf.Bytes(), dst); err != nil {
		return errors.Wrapf(err, "decode %s value", v.kind)
	}
	return nil
}

// WriteTo writes the compact rendering of v to w.
func (v *Value) WriteTo(w io.Writer) (int64, error) {
	s := AcquireSerializer()
	defer ReleaseSerializer(s)
	s.render(v)

	n, err := w.Write(s.buf.Bytes())
	if err != nil {
		return int64(n), errors.WithStack(err)
	}
	return int64(n), nil
}

// MarshalJSON lets a tree be embedded in values handed to encoding/json
// compatible encoders.
func (v *Value) MarshalJSON() ([]byte, error) {
	return AppendStringify(nil, v), nil
}
