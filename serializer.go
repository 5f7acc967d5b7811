package jxc

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DumpOptions configures a Serializer, mirroring LoadOptions on the
// write side (spec.md §9 design notes).
type DumpOptions struct {
	// Pretty enables multi-line, indented output. Compact (the
	// default) packs everything onto as few lines as the grammar
	// allows.
	Pretty bool
	// Indent is the per-level indent string used when Pretty is set.
	// Defaults to two spaces.
	Indent string
	// ForceUTCDatetimes renders every DateTime with a trailing "Z"
	// even when it was constructed without zone info. By default a
	// naive (zone-less) DateTime serializes without a "Z" suffix, so
	// Dumps(Loads(x)) round-trips exactly (resolved Open Question).
	ForceUTCDatetimes bool
}

// DefaultDumpOptions returns compact output with two-space indent
// (used only if Pretty is later enabled).
func DefaultDumpOptions() DumpOptions {
	return DumpOptions{Indent: "  "}
}

// isContainerType reports whether t opens with its own bracket token
// (Array/Object/Expression), meaning an immediately-preceding
// annotation never needs a separating space.
func isContainerType(t ValueType) bool {
	switch t {
	case TypeArray, TypeObject, TypeExpression:
		return true
	}
	return false
}

// tokenClass buckets the leading/trailing character of the last bit of
// text written, for the adjacency rule in spec.md §4.4: two emissions
// whose boundary characters would both lex as part of one identifier
// or number (e.g. a bareword directly following a number, or two
// consecutive identifiers) need a separating space; anything bordered
// by punctuation (quotes, brackets, colons, commas) does not.
type tokenClass int

const (
	classOther tokenClass = iota
	classWordLike
)

// runeClass classifies a single boundary rune per the adjacency rule:
// letters, digits, '_', '$', and '%' (the number-suffix sigil) would
// all continue a bareword or numeric literal if left unseparated.
func runeClass(r rune) tokenClass {
	if strings.ContainsRune(identChars, r) || r == '%' {
		return classWordLike
	}
	return classOther
}

// boundaryClasses returns the tokenClass of text's first and last
// byte, used to decide whether a space is needed before it (based on
// the previous emission) and what state to leave for the next one.
func boundaryClasses(text string) (start, end tokenClass) {
	if text == "" {
		return classOther, classOther
	}
	return runeClass(rune(text[0])), runeClass(rune(text[len(text)-1]))
}

// Serializer writes a JXC document one explicit emission call at a
// time, tracking enough state about the previous token to decide
// spacing and newlines. This mirrors the teacher's stateful, method-
// per-construct renderer rather than a single recursive "stringify"
// function: every construct (array/object/expression open-close,
// identifier, each scalar kind, the annotation prefix) has its own
// emit method per spec.md §4.4, and ValueAuto is the high-level
// dispatcher built on top of them, so callers can also drive the
// low-level calls directly for streaming or custom-shaped output.
type Serializer struct {
	opts  DumpOptions
	b     strings.Builder
	depth int
	last  tokenClass
	// pendingComma is set by ObjectSep between peers so the next
	// emission first prints "," (followed by a newline and indent when
	// pretty-printing; a bare "," otherwise).
	pendingComma bool
}

// NewSerializer creates a Serializer with the given options.
func NewSerializer(opts DumpOptions) *Serializer {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return &Serializer{opts: opts}
}

// String returns the accumulated output.
func (s *Serializer) String() string { return s.b.String() }

func (s *Serializer) newline() {
	if !s.opts.Pretty {
		return
	}
	s.b.WriteByte('\n')
	s.b.WriteString(strings.Repeat(s.opts.Indent, s.depth))
}

// sep flushes a pending peer separator before the next emission: a
// bare "," in compact mode (spec.md §4.4's "minimal single-character
// forms"), or "," followed by a newline+indent when pretty-printing.
// Safe to call redundantly: it is a no-op once flushed.
func (s *Serializer) sep() {
	if !s.pendingComma {
		return
	}
	s.b.WriteByte(',')
	s.last = classOther
	if s.opts.Pretty {
		s.newline()
	}
	s.pendingComma = false
}

// emit writes text verbatim, inserting a single space first if the
// previous emission and this one would otherwise fuse into one
// identifier/number token (spec.md §4.4's adjacency rule), and updates
// the adjacency state for the next call.
func (s *Serializer) emit(text string) {
	start, end := boundaryClasses(text)
	if s.last == classWordLike && start == classWordLike {
		s.b.WriteByte(' ')
	}
	s.b.WriteString(text)
	s.last = end
}

// Annotation writes an annotation's token text with no separator of
// its own: whether the value that follows needs a leading space
// depends on that value's own emission (a container opener like
// "{"/"["/"(" never needs one; a bareword/number/quoted scalar does,
// to avoid lexing as a continuation of the annotation's identifier).
// ValueAuto applies that follow-up space; callers driving the
// low-level API directly are responsible for it themselves.
func (s *Serializer) Annotation(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	s.sep()
	s.emit(AnnotationSourceText(tokens))
}

// Identifier writes a bare identifier/object-key atom, e.g. for a
// caller building an expression or object key by hand.
func (s *Serializer) Identifier(name string) {
	s.sep()
	s.emit(name)
}

// Sep writes the key separator (":" plus a trailing space when
// pretty-printing) between an object key and its value.
func (s *Serializer) Sep() {
	s.b.WriteByte(':')
	if s.opts.Pretty {
		s.b.WriteByte(' ')
	}
	s.last = classOther
}

// ValueNull emits the null literal.
func (s *Serializer) ValueNull() {
	s.sep()
	s.emit("null")
}

// ValueBool emits the true/false literal.
func (s *Serializer) ValueBool(b bool) {
	s.sep()
	if b {
		s.emit("true")
	} else {
		s.emit("false")
	}
}

// ValueInt emits a signed integer in base 10, with suffix appended
// directly (no separator) as part of the same numeric literal.
func (s *Serializer) ValueInt(i int64, suffix string) {
	s.sep()
	s.emit(strconv.FormatInt(i, 10) + suffix)
}

// ValueIntHex emits a signed integer with a "0x" prefix.
func (s *Serializer) ValueIntHex(i int64, suffix string) {
	s.sep()
	s.emit(formatSignedBase(i, 16, "0x") + suffix)
}

// ValueIntBin emits a signed integer with a "0b" prefix.
func (s *Serializer) ValueIntBin(i int64, suffix string) {
	s.sep()
	s.emit(formatSignedBase(i, 2, "0b") + suffix)
}

// ValueIntOct emits a signed integer with a "0o" prefix.
func (s *Serializer) ValueIntOct(i int64, suffix string) {
	s.sep()
	s.emit(formatSignedBase(i, 8, "0o") + suffix)
}

// ValueUint emits an unsigned integer in base 10.
func (s *Serializer) ValueUint(u uint64, suffix string) {
	s.sep()
	s.emit(strconv.FormatUint(u, 10) + suffix)
}

// ValueUintHex emits an unsigned integer with a "0x" prefix.
func (s *Serializer) ValueUintHex(u uint64, suffix string) {
	s.sep()
	s.emit("0x" + strconv.FormatUint(u, 16) + suffix)
}

// ValueUintBin emits an unsigned integer with a "0b" prefix.
func (s *Serializer) ValueUintBin(u uint64, suffix string) {
	s.sep()
	s.emit("0b" + strconv.FormatUint(u, 2) + suffix)
}

// ValueUintOct emits an unsigned integer with a "0o" prefix.
func (s *Serializer) ValueUintOct(u uint64, suffix string) {
	s.sep()
	s.emit("0o" + strconv.FormatUint(u, 8) + suffix)
}

// formatSignedBase renders i's magnitude in base with prefix, keeping
// a leading "-" outside the prefix (e.g. "-0x1f", not "0x-1f").
func formatSignedBase(i int64, base int, prefix string) string {
	if i < 0 {
		return "-" + prefix + strconv.FormatUint(uint64(-i), base)
	}
	return prefix + strconv.FormatUint(uint64(i), base)
}

// ValueFloat emits a float per formatFloat, with suffix appended
// directly as part of the same literal.
func (s *Serializer) ValueFloat(f float64, suffix string) {
	s.sep()
	s.emit(formatFloat(f) + suffix)
}

// ValueString emits a standard escaped-quote string.
func (s *Serializer) ValueString(str string) {
	s.sep()
	s.emit(quoteString(str))
}

// ValueBytes emits a base64 byte string.
func (s *Serializer) ValueBytes(b []byte) {
	s.sep()
	s.emit("b64\"" + base64.StdEncoding.EncodeToString(b) + "\"")
}

// ValueDate emits a date-only datetime string.
func (s *Serializer) ValueDate(t time.Time) {
	s.sep()
	s.emit(fmt.Sprintf("dt%q", t.Format(dateOnlyLayout)))
}

// ValueDateTime emits a datetime string. hasZone selects the zone-
// qualified layout; ForceUTCDatetimes in DumpOptions overrides a
// naive (zone-less) datetime to render with a trailing "Z" anyway.
func (s *Serializer) ValueDateTime(t time.Time, hasZone bool) {
	s.sep()
	if hasZone || s.opts.ForceUTCDatetimes {
		s.emit(fmt.Sprintf("dt%q", t.Format(dateTimeLayoutZ)))
	} else {
		s.emit(fmt.Sprintf("dt%q", t.Format(dateTimeNaive)))
	}
}

// ArrayBegin opens an array, flushing any pending peer separator
// first and increasing the indent depth for pretty-printing.
func (s *Serializer) ArrayBegin() {
	s.sep()
	s.emit("[")
	s.depth++
	s.pendingComma = false
}

// ArrayEnd closes the most recently opened array. nonEmpty must match
// whether any element was written between ArrayBegin and ArrayEnd, so
// the closing bracket is indented one level shallower than its
// contents only when there were contents to indent.
func (s *Serializer) ArrayEnd(nonEmpty bool) {
	s.depth--
	if nonEmpty {
		s.newline()
	}
	s.pendingComma = false
	s.emit("]")
}

// ObjectBegin opens an object, flushing any pending peer separator
// first and increasing the indent depth for pretty-printing.
func (s *Serializer) ObjectBegin() {
	s.sep()
	s.emit("{")
	s.depth++
	s.pendingComma = false
}

// ObjectEnd closes the most recently opened object. See ArrayEnd for
// the meaning of nonEmpty.
func (s *Serializer) ObjectEnd(nonEmpty bool) {
	s.depth--
	if nonEmpty {
		s.newline()
	}
	s.pendingComma = false
	s.emit("}")
}

// ObjectSep marks that a peer separator (",") is owed before the next
// key or value, the explicit counterpart to the automatic separator
// sep() inserts between WriteValue/ValueAuto calls.
func (s *Serializer) ObjectSep() {
	s.pendingComma = true
}

// ExpressionBegin opens an expression body.
func (s *Serializer) ExpressionBegin() {
	s.sep()
	s.emit("(")
}

// ExpressionEnd closes the most recently opened expression body.
func (s *Serializer) ExpressionEnd() {
	s.emit(")")
}

// WriteValue serializes a Value and everything nested under it. It is
// an alias for ValueAuto kept for call sites that predate the
// explicit per-construct emit API.
func (s *Serializer) WriteValue(v *Value) error {
	return s.ValueAuto(v)
}

// ValueAuto routes v to the matching low-level emit call(s) by its
// runtime ValueType, recursing into containers. This is the high-level
// entry point spec.md §4.4 describes sitting on top of the explicit
// per-construct methods.
func (s *Serializer) ValueAuto(v *Value) error {
	s.sep()
	anno := v.Annotation()
	if len(anno) > 0 {
		s.Annotation(anno)
		if !isContainerType(v.GetType()) {
			s.b.WriteByte(' ')
			s.last = classOther
		}
	}

	switch v.GetType() {
	case TypeNull:
		s.ValueNull()
	case TypeBool:
		s.ValueBool(v.Bool())
	case TypeInt:
		s.ValueInt(v.Int(), v.Suffix())
	case TypeUint:
		s.ValueUint(v.Uint(), v.Suffix())
	case TypeFloat:
		s.ValueFloat(v.Float(), v.Suffix())
	case TypeString:
		s.ValueString(v.String())
	case TypeBytes:
		s.ValueBytes(v.Bytes())
	case TypeDate:
		s.ValueDate(v.Time())
	case TypeDateTime:
		s.ValueDateTime(v.Time(), v.HasZone())
	case TypeArray:
		return s.writeArray(v)
	case TypeObject:
		return s.writeObject(v)
	case TypeExpression:
		return s.writeExpression(v)
	case TypeNative:
		return &Error{Kind: ConstructorError, Sender: "serializer", Message: fmt.Sprintf("cannot serialize unencoded native value of type %T", v.Native())}
	default:
		return &Error{Kind: ConstructorError, Sender: "serializer", Message: "unknown value type"}
	}
	return nil
}

// formatFloat renders f per spec.md §4.4: NaN/±Inf as the bare
// "nan"/"inf"/"-inf" literals the grammar recognizes (not Go's
// "NaN"/"+Inf" spelling), and every finite value with an explicit
// decimal point (placed before the exponent, if there is one, since a
// literal such as 1e+21 would lex as an integer) so a float that happens to be integral
// (e.g. 0.0) still round-trips back through Loads as a Float rather
// than an Int/Uint.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.Contains(s, ".") {
		if i := strings.IndexByte(s, 'e'); i >= 0 {
			s = s[:i] + ".0" + s[i:]
		} else {
			s += ".0"
		}
	}
	return s
}

// quoteString renders str as a standard escaped "..." literal.
func quoteString(str string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range str {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (s *Serializer) writeArray(v *Value) error {
	items := v.Array()
	s.ArrayBegin()
	if len(items) > 0 {
		s.newline()
		for i, item := range items {
			if i > 0 {
				s.ObjectSep()
			}
			if err := s.ValueAuto(item); err != nil {
				return err
			}
		}
	}
	s.ArrayEnd(len(items) > 0)
	return nil
}

func (s *Serializer) writeObject(v *Value) error {
	obj := v.Object()
	s.ObjectBegin()
	if obj.Len() > 0 {
		s.newline()
		first := true
		var outerErr error
		obj.Each(func(key string, val *Value) bool {
			if !first {
				s.ObjectSep()
			}
			first = false
			s.sep()
			s.writeObjectKey(key)
			s.Sep()
			if err := s.ValueAuto(val); err != nil {
				outerErr = err
				return false
			}
			return true
		})
		if outerErr != nil {
			return outerErr
		}
	}
	s.ObjectEnd(obj.Len() > 0)
	return nil
}

func (s *Serializer) writeObjectKey(key string) {
	if isBareIdentKey(key) {
		s.Identifier(key)
	} else {
		s.emit(quoteString(key))
	}
}

// isBareIdentKey reports whether key can be written without quotes:
// it must lex back to a single Identifier or ObjectKeyIdentifier
// token (or a true/false/null keyword, which decodes to the same key),
// i.e. start with an identifier char, contain only identifier/"."/"*"
// continuations, not end in "." or "*", and not be nan or inf.
func isBareIdentKey(key string) bool {
	if key == "" || key == "nan" || key == "inf" {
		return false
	}
	if last := key[len(key)-1]; last == '.' || last == '*' {
		return false
	}
	for i, r := range key {
		if i == 0 {
			if !strings.ContainsRune(identStartChars, r) {
				return false
			}
			continue
		}
		if !strings.ContainsRune(identChars, r) && r != '.' && r != '*' {
			return false
		}
	}
	return true
}

func (s *Serializer) writeExpression(v *Value) error {
	s.ExpressionBegin()
	switch v.ExpressionMode() {
	case ExpressionTokenList:
		for i, tok := range v.ExpressionTokens() {
			if i > 0 {
				s.b.WriteByte(' ')
				s.last = classOther
			}
			s.emit(tok.Text())
		}
	case ExpressionSourceString:
		s.emit(v.ExpressionSource())
	default:
		for i, item := range v.ExpressionValues() {
			if i > 0 {
				s.b.WriteString(", ")
				s.last = classOther
			}
			if err := s.ValueAuto(item); err != nil {
				return err
			}
		}
	}
	s.ExpressionEnd()
	return nil
}
