package jxc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_PassesThroughValue(t *testing.T) {
	in := NewInt(5, "")
	out, err := NewEncoder().EncodeValue(in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestEncoder_Nil(t *testing.T) {
	out, err := NewEncoder().EncodeValue(nil)
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestEncoder_Scalars(t *testing.T) {
	e := NewEncoder()

	out, err := e.EncodeValue(true)
	require.NoError(t, err)
	assert.True(t, out.IsBool())

	out, err = e.EncodeValue(int64(42))
	require.NoError(t, err)
	require.True(t, out.IsInt())
	assert.Equal(t, int64(42), out.Int())

	out, err = e.EncodeValue(uint64(7))
	require.NoError(t, err)
	assert.True(t, out.IsUint())

	out, err = e.EncodeValue(3.25)
	require.NoError(t, err)
	assert.True(t, out.IsFloat())

	out, err = e.EncodeValue("hello")
	require.NoError(t, err)
	require.True(t, out.IsString())
	assert.Equal(t, "hello", out.String())
}

func TestEncoder_ByteSliceIsBytes(t *testing.T) {
	out, err := NewEncoder().EncodeValue([]byte("abc"))
	require.NoError(t, err)
	require.True(t, out.IsBytes())
	assert.Equal(t, "abc", string(out.Bytes()))
}

func TestEncoder_Slice(t *testing.T) {
	out, err := NewEncoder().EncodeValue([]int{1, 2, 3})
	require.NoError(t, err)
	require.True(t, out.IsArray())
	assert.Equal(t, 3, out.Size())
	assert.Equal(t, int64(2), out.Index(1).Int())
}

func TestEncoder_Map(t *testing.T) {
	out, err := NewEncoder().EncodeValue(map[string]int{"a": 1})
	require.NoError(t, err)
	require.True(t, out.IsObject())
	got, ok := out.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Int())
}

type encPoint struct {
	X       int
	Y       int
	hidden  int
	Ignored string `jxc:"-"`
	Named   string `jxc:"label"`
}

func TestEncoder_StructUsesJxcTags(t *testing.T) {
	p := encPoint{X: 1, Y: 2, hidden: 9, Ignored: "nope", Named: "hi"}
	out, err := NewEncoder().EncodeValue(p)
	require.NoError(t, err)
	require.True(t, out.IsObject())

	x, ok := out.Get("X")
	require.True(t, ok)
	assert.Equal(t, int64(1), x.Int())

	_, ok = out.Get("Ignored")
	assert.False(t, ok)
	_, ok = out.Get("hidden")
	assert.False(t, ok)

	label, ok := out.Get("label")
	require.True(t, ok)
	assert.Equal(t, "hi", label.String())
}

func TestEncoder_PointerAndNil(t *testing.T) {
	e := NewEncoder()
	var p *int
	out, err := e.EncodeValue(p)
	require.NoError(t, err)
	assert.True(t, out.IsNull())

	n := 5
	out, err = e.EncodeValue(&n)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Int())
}

func TestEncoder_TimeSpecialCasing(t *testing.T) {
	e := NewEncoder()

	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := e.EncodeValue(d)
	require.NoError(t, err)
	assert.True(t, out.IsDate())

	dt := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	out, err = e.EncodeValue(dt)
	require.NoError(t, err)
	assert.True(t, out.IsDateTime())
}

type customType struct{ V int }

func (c customType) EncodeJXC() (*Value, error) {
	return NewInt(int64(c.V)*2, "doubled"), nil
}

func TestEncoder_JXCEncoderInterface(t *testing.T) {
	out, err := NewEncoder().EncodeValue(customType{V: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.Int())
	assert.Equal(t, "doubled", out.Suffix())
}

type registeredType struct{ Name string }

func TestEncoder_RegisterTypeOverridesReflection(t *testing.T) {
	e := NewEncoder()
	RegisterType(e, func(r registeredType) (*Value, error) {
		return NewString("custom:" + r.Name), nil
	})
	out, err := e.EncodeValue(registeredType{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom:x", out.String())
}

func TestEncoder_UnsupportedKindErrors(t *testing.T) {
	_, err := NewEncoder().EncodeValue(func() {})
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
}
