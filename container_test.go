package jxc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_OrderPreserved(t *testing.T) {
	o := NewOrderedObject()
	o.Set("z", NewInt(1, ""))
	o.Set("a", NewInt(2, ""))
	o.Set("m", NewInt(3, ""))
	assert.Equal(t, []string{"z", "a", "m"}, o.Keys())
}

func TestObject_LastWinsOverwritesInPlace(t *testing.T) {
	o := NewOrderedObject()
	o.Set("a", NewInt(1, ""))
	o.Set("b", NewInt(2, ""))
	o.Set("a", NewInt(99, ""))
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, ok := o.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(99), v.Int())
}

func TestObject_KeepAllPreservesDuplicates(t *testing.T) {
	o := NewOrderedObjectWithPolicy(KeepAll)
	o.Set("a", NewInt(1, ""))
	o.Set("a", NewInt(2, ""))
	assert.Equal(t, 2, o.Len())
	assert.Equal(t, []string{"a", "a"}, o.Keys())
	all := o.GetAll("a")
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].Int())
	assert.Equal(t, int64(2), all[1].Int())
}

func TestObject_Delete(t *testing.T) {
	o := NewOrderedObject()
	o.Set("a", NewInt(1, ""))
	o.Set("b", NewInt(2, ""))
	o.Set("c", NewInt(3, ""))
	o.Delete("b")
	assert.Equal(t, []string{"a", "c"}, o.Keys())
	_, ok := o.Get("b")
	assert.False(t, ok)
	v, ok := o.Get("c")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Int())
}

func TestObject_Equal(t *testing.T) {
	a := NewOrderedObject()
	a.Set("x", NewInt(1, ""))
	b := NewOrderedObject()
	b.Set("x", NewInt(1, ""))
	assert.True(t, a.Equal(b))

	c := NewOrderedObject()
	c.Set("x", NewInt(2, ""))
	assert.False(t, a.Equal(c))
}

func TestObject_Each_EarlyStop(t *testing.T) {
	o := NewOrderedObject()
	o.Set("a", NewInt(1, ""))
	o.Set("b", NewInt(2, ""))
	o.Set("c", NewInt(3, ""))
	var seen []string
	o.Each(func(key string, val *Value) bool {
		seen = append(seen, key)
		return key != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
