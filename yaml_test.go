package slabJSON

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{
			name: "mapping-order-kept",
			data: "b: 1\na: 2\n",
			want: `{"b":1,"a":2}`,
		},
		{
			name: "scalars",
			data: "n: ~\nt: true\nf: no\ni: -12\nx: 1.5e3\ns: hello\nq: \"42\"\n",
			want: `{"n":null,"t":true,"f":"no","i":-12,"x":1.5e3,"s":"hello","q":"42"}`,
		},
		{
			name: "non-json-numbers-become-strings",
			data: "- 0x1F\n- +7\n- .inf\n- 010\n",
			want: `["0x1F","+7",".inf","010"]`,
		},
		{
			name: "strings-escaped",
			data: "quote: 'say \"hi\"'\nmulti: |\n  a\n  b\nhtml: <b>&</b>\n",
			want: `{"quote":"say \"hi\"","multi":"a\nb\n","html":"<b>&</b>"}`,
		},
		{
			name: "nested-and-alias",
			data: "base: &b\n  k: [1, 2]\ncopy: *b\n",
			want: `{"base":{"k":[1,2]},"copy":{"k":[1,2]}}`,
		},
		{
			name: "top-level-sequence",
			data: "- a\n- {b: c}\n- []\n",
			want: `["a",{"b":"c"},[]]`,
		},
		{
			name:    "empty",
			data:    "",
			wantErr: true,
		},
		{
			name:    "malformed",
			data:    "a: [1, 2\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := NewAllocator()
			v, err := alloc.FromYAML([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.Zero(t, alloc.Stats().Live())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Stringify(v))
			assert.True(t, Valid([]byte(Stringify(v))))

			v.Release()
			assert.Zero(t, alloc.Stats().Live())
		})
	}
}

func TestFromYAML_ExcessiveAliasing(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&sb, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "*l%d", i-1)
		}
		sb.WriteString("]\n")
	}

	alloc := NewAllocator()
	v, err := alloc.FromYAML([]byte(sb.String()))
	require.Error(t, err)
	assert.Nil(t, v)
	assert.Contains(t, err.Error(), "excessive aliasing")
	assert.Zero(t, alloc.Stats().Live())
	assert.Less(t, alloc.Stats().Values.Allocated, 10000)
}

func TestFromYAML_ModerateAliasing(t *testing.T) {
	alloc := NewAllocator()
	v, err := alloc.FromYAML([]byte("base: &b {k: [1, 2, 3]}\nx: *b\ny: *b\nz: *b\n"))
	require.NoError(t, err)
	assert.Equal(t, `{"base":{"k":[1,2,3]},"x":{"k":[1,2,3]},"y":{"k":[1,2,3]},"z":{"k":[1,2,3]}}`, Stringify(v))
	v.Release()
	assert.Zero(t, alloc.Stats().Live())
}

func TestFromYAML_DefaultAllocator(t *testing.T) {
	v, err := FromYAML([]byte("k: v\n"))
	require.NoError(t, err)
	defer v.Release()
	assert.Same(t, DefaultAllocator(), v.Allocator())
	assert.Equal(t, "v", v.Get("k").Text())
}
