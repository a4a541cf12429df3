package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"slabJSON"
)

const source = `{"a":1,"b":[2,{"c":[1,2,3]}]}`

func parse(t *testing.T, src string) *slabJSON.Value {
	t.Helper()
	v, err := slabJSON.ParseValue([]byte(src))
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v
}

func TestSearch_Found(t *testing.T) {
	root := parse(t, source)
	tests := []struct {
		path string
		want string
	}{
		{path: "", want: source},
		{path: "a", want: "1"},
		{path: "b", want: `[2,{"c":[1,2,3]}]`},
		{path: "b[0]", want: "2"},
		{path: "b[1]", want: `{"c":[1,2,3]}`},
		{path: "b[1].c", want: "[1,2,3]"},
		{path: "b[1].c[0]", want: "1"},
		{path: "b[1].c[1]", want: "2"},
		{path: "b[1].c[2]", want: "3"},
		{path: "b[01]", want: `{"c":[1,2,3]}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			found, err := Search(root, tt.path)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, tt.want, slabJSON.Stringify(found))
		})
	}
}

func TestSearch_Absent(t *testing.T) {
	root := parse(t, source)
	for _, path := range []string{"c", "b[2]", "b[1].c[3]", "a.b", "a[0]", "b.c", "b[99999999999999999999999]"} {
		t.Run(path, func(t *testing.T) {
			found, err := Search(root, path)
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	}
}

func TestSearch_RootArray(t *testing.T) {
	root := parse(t, `[[1,2],[3]]`)
	found, err := Search(root, "[1][0]")
	require.NoError(t, err)
	assert.Equal(t, "3", found.Text())

	found, err = Search(root, "x")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSearch_LastMemberWins(t *testing.T) {
	root := parse(t, `{"a":1,"a":2}`)
	found, err := Search(root, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", found.Text())
	assert.Equal(t, "1", root.Get("a").Text(), "Get keeps the first member")
}

func TestSearch_Malformed(t *testing.T) {
	root := parse(t, source)
	tests := []struct {
		path   string
		offset int
	}{
		{path: "[", offset: 1},
		{path: "[]", offset: 1},
		{path: "[x]", offset: 1},
		{path: "b[1", offset: 3},
		{path: "a.", offset: 2},
		{path: ".a", offset: 0},
		{path: "b[0]c", offset: 4},
		{path: "a..b", offset: 2},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			found, err := Search(root, tt.path)
			assert.Nil(t, found)
			require.ErrorIs(t, err, ErrMalformedPath)

			var pathErr *PathError
			require.ErrorAs(t, err, &pathErr)
			assert.Equal(t, tt.path, pathErr.Path)
			assert.Equal(t, tt.offset, pathErr.Offset)

			assert.Panics(t, func() { MustSearch(root, tt.path) })
			assert.Panics(t, func() { MustCompile(tt.path) })
		})
	}
}

func TestPath_Reuse(t *testing.T) {
	p := MustCompile("b[1].c[2]")
	assert.Equal(t, "b[1].c[2]", p.String())

	first := parse(t, source)
	second := parse(t, `{"b":[0,{"c":[7,8,9]}]}`)
	assert.Equal(t, "3", p.Find(first).Text())
	assert.Equal(t, "9", p.Find(second).Text())
	assert.Nil(t, p.Find(nil))
}

func TestSearch_AgreesWithGJSON(t *testing.T) {
	src := `{"store":{"books":[{"title":"A","tags":["x","y"]},{"title":"B","price":8.95}],"open":true},"n":null}`
	root := parse(t, src)
	tests := []struct {
		path  string
		gpath string
	}{
		{path: "store.books[0].title", gpath: "store.books.0.title"},
		{path: "store.books[0].tags[1]", gpath: "store.books.0.tags.1"},
		{path: "store.books[1].price", gpath: "store.books.1.price"},
		{path: "store.books[1]", gpath: "store.books.1"},
		{path: "store.open", gpath: "store.open"},
		{path: "n", gpath: "n"},
		{path: "store.books[2]", gpath: "store.books.2"},
		{path: "store.missing", gpath: "store.missing"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			want := gjson.Get(src, tt.gpath)
			found, err := Search(root, tt.path)
			require.NoError(t, err)
			if !want.Exists() {
				assert.Nil(t, found)
				return
			}
			require.NotNil(t, found)
			assert.Equal(t, want.Raw, slabJSON.Stringify(found))
		})
	}
}

func BenchmarkSearchNested(b *testing.B) {
	root, _ := slabJSON.ParseValue([]byte(source))
	defer root.Release()
	p := MustCompile("b[1].c[2]")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Find(root)
	}
}

func BenchmarkGjsonNested(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = gjson.Get(source, "b.1.c.2")
	}
}
