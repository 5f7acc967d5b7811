package jxc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_TypePredicates(t *testing.T) {
	assert.True(t, NewNull().IsNull())
	assert.True(t, NewBool(true).IsBool())
	assert.True(t, NewInt(1, "").IsInt())
	assert.True(t, NewUint(1, "").IsUint())
	assert.True(t, NewFloat(1, "").IsFloat())
	assert.True(t, NewInt(1, "").IsNumber())
	assert.True(t, NewUint(1, "").IsNumber())
	assert.True(t, NewFloat(1, "").IsNumber())
	assert.True(t, NewString("x").IsString())
	assert.True(t, NewBytes([]byte("x")).IsBytes())
	assert.True(t, NewDate(time.Now()).IsDate())
	assert.True(t, NewDateTime(time.Now(), false, false).IsDateTime())
	assert.True(t, NewArray(nil).IsArray())
	assert.True(t, NewObject(nil).IsObject())
	assert.True(t, NewExpressionSource("1+2").IsExpression())
	assert.True(t, NewNative(42).IsNative())
}

func TestValue_NumericCoercions(t *testing.T) {
	assert.Equal(t, int64(5), NewUint(5, "").Int())
	assert.Equal(t, int64(5), NewFloat(5.9, "").Int())
	assert.Equal(t, int64(5), NewString("5").Int())
	assert.Equal(t, int64(0), NewString("nope").Int())

	assert.Equal(t, uint64(5), NewInt(5, "").Uint())
	assert.Equal(t, uint64(5), NewFloat(5.9, "").Uint())

	assert.InDelta(t, 5.0, NewInt(5, "").Float(), 0.0001)
	assert.InDelta(t, 5.0, NewUint(5, "").Float(), 0.0001)
	assert.InDelta(t, 5.5, NewString("5.5").Float(), 0.0001)
}

func TestValue_StringRendersScalars(t *testing.T) {
	assert.Equal(t, "x", NewString("x").String())
	assert.Equal(t, "5", NewInt(5, "").String())
	assert.Equal(t, "5", NewUint(5, "").String())
	assert.Equal(t, "true", NewBool(true).String())
	assert.Equal(t, "false", NewBool(false).String())
	assert.Equal(t, "null", NewNull().String())
}

func TestValue_ArrayAccessors(t *testing.T) {
	v := NewArray([]*Value{NewInt(1, ""), NewInt(2, "")})
	assert.Equal(t, 2, v.Size())
	assert.Equal(t, int64(2), v.Index(1).Int())
	assert.Nil(t, v.Index(5))

	v.Append(NewInt(3, ""))
	assert.Equal(t, 3, v.Size())

	v.SetIndex(0, NewInt(99, ""))
	assert.Equal(t, int64(99), v.Index(0).Int())
}

func TestValue_ObjectAccessors(t *testing.T) {
	v := NewObject(nil)
	v.SetKey("a", NewInt(1, ""))
	assert.True(t, v.Contains("a"))
	assert.False(t, v.Contains("b"))

	got, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Int())

	_, ok = v.Get("missing")
	assert.False(t, ok)
}

func TestValue_StringContains(t *testing.T) {
	assert.True(t, NewString("hello world").Contains("world"))
	assert.False(t, NewString("hello world").Contains("xyz"))
}

func TestValue_IsOwned(t *testing.T) {
	assert.True(t, NewInt(1, "").IsOwned())

	arr := NewArray([]*Value{NewString("a"), NewString("b")})
	assert.True(t, arr.IsOwned())

	obj := NewObject(nil)
	obj.SetKey("x", NewString("a"))
	assert.True(t, obj.IsOwned())
}

func TestValue_EqualValueTo(t *testing.T) {
	assert.True(t, NewInt(5, "px").EqualValueTo(NewInt(5, "px")))
	assert.False(t, NewInt(5, "px").EqualValueTo(NewInt(5, "pt")))
	assert.False(t, NewInt(5, "").EqualValueTo(NewUint(5, "")))
	assert.True(t, NewNull().EqualValueTo(NewNull()))
	assert.False(t, NewInt(5, "").EqualValueTo(nil))

	a := NewArray([]*Value{NewInt(1, ""), NewInt(2, "")})
	b := NewArray([]*Value{NewInt(1, ""), NewInt(2, "")})
	c := NewArray([]*Value{NewInt(1, "")})
	assert.True(t, a.EqualValueTo(b))
	assert.False(t, a.EqualValueTo(c))
}

func TestValue_ToRepr(t *testing.T) {
	v := NewInt(5, "px")
	v.SetAnnotation([]Token{{Type: TokenIdentifier, Value: "dim"}})
	assert.Equal(t, "dim5px", v.ToRepr())

	assert.Equal(t, `"hi"`, NewString("hi").ToRepr())
	assert.Equal(t, "[1, 2]", NewArray([]*Value{NewInt(1, ""), NewInt(2, "")}).ToRepr())
}

func TestValue_ExpressionAccessors(t *testing.T) {
	toks := []Token{{Type: TokenNumber, Value: "1"}}
	v := NewExpressionTokens(toks)
	assert.Equal(t, ExpressionTokenList, v.ExpressionMode())
	assert.Equal(t, toks, v.ExpressionTokens())
	assert.Equal(t, 1, v.Size())

	vals := []*Value{NewInt(1, "")}
	v2 := NewExpressionValues(vals)
	assert.Equal(t, ExpressionValueList, v2.ExpressionMode())
	assert.Equal(t, 1, v2.Size())

	v3 := NewExpressionSource("1+2")
	assert.Equal(t, "1+2", v3.ExpressionSource())
	assert.Equal(t, 3, v3.Size())
}
