package jxc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueType identifies which case of the Value tagged variant is
// populated, per spec.md §2/§4.5.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeString
	TypeBytes
	TypeDate
	TypeDateTime
	TypeArray
	TypeObject
	TypeExpression
	TypeNative
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeExpression:
		return "expression"
	case TypeNative:
		return "native"
	default:
		return "unknown"
	}
}

// ExpressionMode selects how a BeginExpression element's body was
// captured by the constructor, per spec.md §4.3.
type ExpressionMode int

const (
	ExpressionValueList ExpressionMode = iota
	ExpressionTokenList
	ExpressionSourceString
)

// Value is JXC's closed tagged-variant value model (spec.md §4.5,
// §9's "prefer an enum of cases and dispatch by pattern match" over a
// reflection-wrapped value). Every case can carry an annotation token
// list for round-tripping.
type Value struct {
	typ ValueType

	b        bool
	i        int64
	u        uint64
	f        float64
	suffix   string // unit suffix on Int/Uint/Float
	s        string // String payload; unused otherwise
	bytes    []byte
	date     time.Time
	hasZone  bool
	isUTCTag bool

	arr []*Value
	obj *Object

	exprMode   ExpressionMode
	exprTokens []Token
	exprValues []*Value
	exprSource string

	native any

	annotation []Token
	owned      bool
}

// NewNull returns a null Value.
func NewNull() *Value { return &Value{typ: TypeNull, owned: true} }

// NewBool wraps a bool.
func NewBool(b bool) *Value { return &Value{typ: TypeBool, b: b, owned: true} }

// NewInt wraps a signed integer, with an optional unit suffix.
func NewInt(i int64, suffix string) *Value {
	return &Value{typ: TypeInt, i: i, suffix: suffix, owned: true}
}

// NewUint wraps an unsigned integer, with an optional unit suffix.
func NewUint(u uint64, suffix string) *Value {
	return &Value{typ: TypeUint, u: u, suffix: suffix, owned: true}
}

// NewFloat wraps a float64, with an optional unit suffix.
func NewFloat(f float64, suffix string) *Value {
	return &Value{typ: TypeFloat, f: f, suffix: suffix, owned: true}
}

// NewString wraps a decoded string.
func NewString(s string) *Value { return &Value{typ: TypeString, s: s, owned: true} }

// NewBytes wraps a decoded byte string.
func NewBytes(b []byte) *Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Value{typ: TypeBytes, bytes: cp, owned: true}
}

// NewDate wraps a date-only value (no time-of-day component).
func NewDate(t time.Time) *Value {
	return &Value{typ: TypeDate, date: t, owned: true}
}

// NewDateTime wraps a date+time value, optionally timezone-qualified.
func NewDateTime(t time.Time, hasZone, isUTCTag bool) *Value {
	return &Value{typ: TypeDateTime, date: t, hasZone: hasZone, isUTCTag: isUTCTag, owned: true}
}

// NewArray wraps a slice of values.
func NewArray(items []*Value) *Value {
	return &Value{typ: TypeArray, arr: items, owned: true}
}

// NewObject wraps an Object.
func NewObject(o *Object) *Value {
	if o == nil {
		o = NewOrderedObject()
	}
	return &Value{typ: TypeObject, obj: o, owned: true}
}

// NewExpressionTokens wraps a raw expression token list.
func NewExpressionTokens(tokens []Token) *Value {
	return &Value{typ: TypeExpression, exprMode: ExpressionTokenList, exprTokens: tokens, owned: true}
}

// NewExpressionValues wraps an expression decoded as a value list.
func NewExpressionValues(values []*Value) *Value {
	return &Value{typ: TypeExpression, exprMode: ExpressionValueList, exprValues: values, owned: true}
}

// NewExpressionSource wraps an expression kept as its original source
// substring.
func NewExpressionSource(src string) *Value {
	return &Value{typ: TypeExpression, exprMode: ExpressionSourceString, exprSource: src, owned: true}
}

// NewNative boxes an arbitrary Go value produced by a class-path
// decoder or ElementOverride hook, letting it flow through the rest
// of construction as an opaque Value (spec.md §9 design notes).
func NewNative(v any) *Value {
	return &Value{typ: TypeNative, native: v, owned: true}
}

// Native returns the boxed Go value for a TypeNative Value, or nil.
func (v *Value) Native() any {
	if v.typ == TypeNative {
		return v.native
	}
	return nil
}

func (v *Value) IsNative() bool { return v.typ == TypeNative }

// GetType reports which variant case this Value holds.
func (v *Value) GetType() ValueType { return v.typ }

func (v *Value) IsNull() bool       { return v.typ == TypeNull }
func (v *Value) IsBool() bool       { return v.typ == TypeBool }
func (v *Value) IsInt() bool        { return v.typ == TypeInt }
func (v *Value) IsUint() bool       { return v.typ == TypeUint }
func (v *Value) IsFloat() bool      { return v.typ == TypeFloat }
func (v *Value) IsNumber() bool     { return v.typ == TypeInt || v.typ == TypeUint || v.typ == TypeFloat }
func (v *Value) IsString() bool     { return v.typ == TypeString }
func (v *Value) IsBytes() bool      { return v.typ == TypeBytes }
func (v *Value) IsDate() bool       { return v.typ == TypeDate }
func (v *Value) IsDateTime() bool   { return v.typ == TypeDateTime }
func (v *Value) IsArray() bool      { return v.typ == TypeArray }
func (v *Value) IsObject() bool     { return v.typ == TypeObject }
func (v *Value) IsExpression() bool { return v.typ == TypeExpression }

// Suffix returns the unit suffix carried by a numeric Value, or "".
func (v *Value) Suffix() string { return v.suffix }

// Annotation returns the token list attached to this value, or nil.
func (v *Value) Annotation() []Token { return v.annotation }

// SetAnnotation replaces this value's annotation token list.
func (v *Value) SetAnnotation(tokens []Token) { v.annotation = tokens }

// AnnotationText flattens the annotation for display/lookup purposes.
func (v *Value) AnnotationText() string { return AnnotationSourceText(v.annotation) }

// Bool returns the boolean payload; false for any other variant.
func (v *Value) Bool() bool {
	if v.typ == TypeBool {
		return v.b
	}
	logf("Value.Bool() not available for type: %s", v.typ)
	return false
}

// Int returns the value as an int64, converting from Uint/Float/String
// where that is meaningful, mirroring the teacher's lenient
// Value.Integer() coercion.
func (v *Value) Int() int64 {
	switch v.typ {
	case TypeInt:
		return v.i
	case TypeUint:
		return int64(v.u)
	case TypeFloat:
		return int64(v.f)
	case TypeString:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		logf("Value.Int() not available for type: %s", v.typ)
		return 0
	}
}

// Uint returns the value as a uint64.
func (v *Value) Uint() uint64 {
	switch v.typ {
	case TypeUint:
		return v.u
	case TypeInt:
		return uint64(v.i)
	case TypeFloat:
		return uint64(v.f)
	default:
		logf("Value.Uint() not available for type: %s", v.typ)
		return 0
	}
}

// Float returns the value as a float64.
func (v *Value) Float() float64 {
	switch v.typ {
	case TypeFloat:
		return v.f
	case TypeInt:
		return float64(v.i)
	case TypeUint:
		return float64(v.u)
	case TypeString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		logf("Value.Float() not available for type: %s", v.typ)
		return 0
	}
}

// String returns the string payload for String values, or a rendered
// form for scalars, matching the teacher's Value.String() convention.
func (v *Value) String() string {
	switch v.typ {
	case TypeString:
		return v.s
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeUint:
		return strconv.FormatUint(v.u, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBool:
		if v.b {
			return "true"
		}
		return "false"
	case TypeNull:
		return "null"
	default:
		return v.ToRepr()
	}
}

// Bytes returns the raw byte payload for Bytes values.
func (v *Value) Bytes() []byte {
	if v.typ == TypeBytes {
		return v.bytes
	}
	logf("Value.Bytes() not available for type: %s", v.typ)
	return nil
}

// Time returns the underlying time.Time for Date/DateTime values.
func (v *Value) Time() time.Time {
	if v.typ == TypeDate || v.typ == TypeDateTime {
		return v.date
	}
	logf("Value.Time() not available for type: %s", v.typ)
	return time.Time{}
}

// HasZone reports whether a DateTime value carries timezone info.
func (v *Value) HasZone() bool { return v.hasZone }

// Array returns the underlying slice for Array values.
func (v *Value) Array() []*Value {
	if v.typ == TypeArray {
		return v.arr
	}
	return nil
}

// Object returns the underlying Object for Object values.
func (v *Value) Object() *Object {
	if v.typ == TypeObject {
		return v.obj
	}
	return nil
}

// ExpressionMode reports how an Expression value's body was captured.
func (v *Value) ExpressionMode() ExpressionMode { return v.exprMode }

// ExpressionTokens returns the raw token list for a TokenList-mode
// expression.
func (v *Value) ExpressionTokens() []Token { return v.exprTokens }

// ExpressionValues returns the decoded value list for a ValueList-mode
// expression.
func (v *Value) ExpressionValues() []*Value { return v.exprValues }

// ExpressionSource returns the original substring for a
// SourceString-mode expression.
func (v *Value) ExpressionSource() string { return v.exprSource }

// Size reports the element/field count for Array and Object values and
// for TokenList/ValueList expressions, the byte length of the source
// text for a SourceString expression, the byte length for Bytes, the
// rune length for String, and 0 otherwise.
func (v *Value) Size() int {
	switch v.typ {
	case TypeArray:
		return len(v.arr)
	case TypeObject:
		return v.obj.Len()
	case TypeString:
		return len([]rune(v.s))
	case TypeBytes:
		return len(v.bytes)
	case TypeExpression:
		switch v.exprMode {
		case ExpressionTokenList:
			return len(v.exprTokens)
		case ExpressionValueList:
			return len(v.exprValues)
		default:
			return len(v.exprSource)
		}
	default:
		return 0
	}
}

// Contains reports whether an Object has the given key, or a String
// contains the given substring.
func (v *Value) Contains(key string) bool {
	switch v.typ {
	case TypeObject:
		_, ok := v.obj.Get(key)
		return ok
	case TypeString:
		return strings.Contains(v.s, key)
	default:
		return false
	}
}

// Get looks up a key in an Object value. Returns nil, false if absent
// or if v is not an Object.
func (v *Value) Get(key string) (*Value, bool) {
	if v.typ != TypeObject {
		return nil, false
	}
	return v.obj.Get(key)
}

// Index returns the i'th element of an Array value, or nil if out of
// range or v is not an Array.
func (v *Value) Index(i int) *Value {
	if v.typ != TypeArray || i < 0 || i >= len(v.arr) {
		return nil
	}
	return v.arr[i]
}

// Append adds an item to an Array value. No-op on any other variant.
func (v *Value) Append(item *Value) {
	if v.typ == TypeArray {
		v.arr = append(v.arr, item)
	}
}

// SetIndex replaces the i'th element of an Array value.
func (v *Value) SetIndex(i int, item *Value) {
	if v.typ == TypeArray && i >= 0 && i < len(v.arr) {
		v.arr[i] = item
	}
}

// SetKey sets a key on an Object value, creating the Object's backing
// store if this Value was an empty/null placeholder is not performed
// implicitly: v must already be an Object.
func (v *Value) SetKey(key string, item *Value) {
	if v.typ == TypeObject {
		v.obj.Set(key, item)
	}
}

// IsOwned reports whether every string/byte/container payload nested
// under this value holds storage independent of the original input
// buffer, so the value tree can safely outlive it (spec.md §4.5/§5).
// The default constructor always materializes owned copies, so this
// is true unless a caller has manually wired in a view-mode string.
func (v *Value) IsOwned() bool {
	if !v.owned {
		return false
	}
	switch v.typ {
	case TypeArray:
		for _, item := range v.arr {
			if !item.IsOwned() {
				return false
			}
		}
	case TypeObject:
		owned := true
		v.obj.Each(func(_ string, item *Value) bool {
			if !item.IsOwned() {
				owned = false
				return false
			}
			return true
		})
		return owned
	case TypeExpression:
		for _, item := range v.exprValues {
			if !item.IsOwned() {
				return false
			}
		}
	}
	return true
}

// EqualValueTo performs a structural equality check across variants.
func (v *Value) EqualValueTo(other *Value) bool {
	if other == nil || v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == other.b
	case TypeInt:
		return v.i == other.i && v.suffix == other.suffix
	case TypeUint:
		return v.u == other.u && v.suffix == other.suffix
	case TypeFloat:
		return v.f == other.f && v.suffix == other.suffix
	case TypeString:
		return v.s == other.s
	case TypeBytes:
		return string(v.bytes) == string(other.bytes)
	case TypeDate, TypeDateTime:
		return v.date.Equal(other.date)
	case TypeArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].EqualValueTo(other.arr[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		return v.obj.Equal(other.obj)
	case TypeExpression:
		if v.exprMode != other.exprMode || v.exprSource != other.exprSource ||
			len(v.exprValues) != len(other.exprValues) || len(v.exprTokens) != len(other.exprTokens) {
			return false
		}
		for i := range v.exprValues {
			if !v.exprValues[i].EqualValueTo(other.exprValues[i]) {
				return false
			}
		}
		for i := range v.exprTokens {
			if v.exprTokens[i].Type != other.exprTokens[i].Type || v.exprTokens[i].Text() != other.exprTokens[i].Text() {
				return false
			}
		}
		return true
	case TypeNative:
		return v.native == other.native
	default:
		return false
	}
}

// ToRepr renders a debug form of the value, annotation included.
func (v *Value) ToRepr() string {
	var b strings.Builder
	if len(v.annotation) > 0 {
		b.WriteString(v.AnnotationText())
	}
	switch v.typ {
	case TypeNull:
		b.WriteString("null")
	case TypeBool:
		fmt.Fprintf(&b, "%t", v.b)
	case TypeInt:
		fmt.Fprintf(&b, "%d%s", v.i, v.suffix)
	case TypeUint:
		fmt.Fprintf(&b, "%d%s", v.u, v.suffix)
	case TypeFloat:
		fmt.Fprintf(&b, "%g%s", v.f, v.suffix)
	case TypeString:
		fmt.Fprintf(&b, "%q", v.s)
	case TypeBytes:
		fmt.Fprintf(&b, "bytes(%d)", len(v.bytes))
	case TypeDate:
		fmt.Fprintf(&b, "date(%s)", v.date.Format(dateOnlyLayout))
	case TypeDateTime:
		fmt.Fprintf(&b, "datetime(%s)", v.date.Format(dateTimeNaive))
	case TypeArray:
		b.WriteString("[")
		for i, item := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.ToRepr())
		}
		b.WriteString("]")
	case TypeObject:
		b.WriteString("{")
		first := true
		v.obj.Each(func(k string, item *Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s: %s", k, item.ToRepr())
			return true
		})
		b.WriteString("}")
	case TypeExpression:
		fmt.Fprintf(&b, "(...%d tokens)", len(v.exprTokens))
	case TypeNative:
		fmt.Fprintf(&b, "native(%T)", v.native)
	}
	return b.String()
}
