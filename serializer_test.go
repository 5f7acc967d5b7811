package jxc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumps_CompactArray(t *testing.T) {
	out, err := Dumps([]any{true, int64(1234), "oh hai"})
	require.NoError(t, err)
	assert.Equal(t, `[true,1234,"oh hai"]`, out)
}

func TestDumps_CompactObjectWithAnnotation(t *testing.T) {
	quat := NewObject(nil)
	quat.SetKey("x", NewFloat(0, ""))
	quat.SetKey("y", NewFloat(0, ""))
	quat.SetKey("z", NewFloat(0, ""))
	quat.SetKey("w", NewFloat(1, ""))
	quat.SetAnnotation([]Token{{Type: TokenIdentifier, Value: "quat"}})

	root := NewObject(nil)
	root.SetKey("quat", quat)

	out, err := Dumps(root)
	require.NoError(t, err)
	assert.Equal(t, `{quat:quat{x:0.0,y:0.0,z:0.0,w:1.0}}`, out)
}

func TestDumps_PrettyPrintIndents(t *testing.T) {
	arr := NewArray([]*Value{NewInt(1, ""), NewInt(2, "")})
	out, err := DumpsWithOptions(arr, DumpOptions{Pretty: true, Indent: "  "})
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]", out)
}

func TestDumps_StringEscaping(t *testing.T) {
	out, err := Dumps(NewString("a\"b\\c\nd"))
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c\nd"`, out)
}

func TestDumps_Bytes(t *testing.T) {
	out, err := Dumps(NewBytes([]byte("jxc format")))
	require.NoError(t, err)
	assert.Equal(t, `b64"anhjIGZvcm1hdA=="`, out)
}

func TestDumps_ObjectKeyQuotingRules(t *testing.T) {
	obj := NewObject(nil)
	obj.SetKey("plain", NewInt(1, ""))
	obj.SetKey("has space", NewInt(2, ""))
	obj.SetKey("a.b", NewInt(3, ""))

	out, err := Dumps(obj)
	require.NoError(t, err)
	assert.Equal(t, `{plain:1,"has space":2,a.b:3}`, out)
}

func TestDumps_RoundTripThroughLoads(t *testing.T) {
	v, err := Loads(`{a: 1, b: [true, false, null], c: "x"}`)
	require.NoError(t, err)
	out, err := Dumps(v)
	require.NoError(t, err)

	v2, err := Loads(out)
	require.NoError(t, err)
	assert.True(t, v.EqualValueTo(v2))
}

func TestDumps_NaiveDateTimeHasNoTrailingZ(t *testing.T) {
	v, err := Loads(`dt"2024-01-01T00:00:00"`)
	require.NoError(t, err)
	out, err := Dumps(v)
	require.NoError(t, err)
	assert.NotContains(t, out, "Z")
}

func TestDumps_ForceUTCDatetimes(t *testing.T) {
	v, err := Loads(`dt"2024-01-01T00:00:00"`)
	require.NoError(t, err)
	out, err := DumpsWithOptions(v, DumpOptions{Indent: "  ", ForceUTCDatetimes: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Z")
}

func TestDumps_ExpressionValueList(t *testing.T) {
	v, err := Loads("(1 + 2)")
	require.NoError(t, err)
	out, err := Dumps(v)
	require.NoError(t, err)
	assert.Equal(t, `(1, "+", 2)`, out)
}

func TestSerializer_ValueIntHexBinOct(t *testing.T) {
	s := NewSerializer(DefaultDumpOptions())
	s.ValueIntHex(31, "")
	assert.Equal(t, "0x1f", s.String())

	s = NewSerializer(DefaultDumpOptions())
	s.ValueIntBin(5, "")
	assert.Equal(t, "0b101", s.String())

	s = NewSerializer(DefaultDumpOptions())
	s.ValueIntOct(8, "")
	assert.Equal(t, "0o10", s.String())

	s = NewSerializer(DefaultDumpOptions())
	s.ValueIntHex(-31, "")
	assert.Equal(t, "-0x1f", s.String())
}

func TestSerializer_ValueUintHexBinOct(t *testing.T) {
	s := NewSerializer(DefaultDumpOptions())
	s.ValueUintHex(255, "u")
	assert.Equal(t, "0xffu", s.String())

	s = NewSerializer(DefaultDumpOptions())
	s.ValueUintBin(6, "")
	assert.Equal(t, "0b110", s.String())

	s = NewSerializer(DefaultDumpOptions())
	s.ValueUintOct(9, "")
	assert.Equal(t, "0o11", s.String())
}

// TestSerializer_ExplicitChainedAPI drives the low-level per-construct
// methods directly, the style the original's builder-driven converters
// use (identifier, sep, value, repeat) instead of going through
// ValueAuto on an already-built Value.
func TestSerializer_ExplicitChainedAPI(t *testing.T) {
	s := NewSerializer(DefaultDumpOptions())
	s.ObjectBegin()
	s.Identifier("x")
	s.Sep()
	s.ValueIntHex(255, "")
	s.ObjectSep()
	s.Identifier("w")
	s.Sep()
	s.ValueInt(1, "")
	s.ObjectEnd(true)
	assert.Equal(t, `{x:0xff,w:1}`, s.String())
}

func TestDumps_NativeValueIsError(t *testing.T) {
	_, err := Dumps(NewNative(42))
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
}
