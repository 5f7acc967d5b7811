package jxc

import (
	"strconv"
)

// LoadOptions configures a ValueConstructor, replacing the teacher's
// mutable global Context object with an immutable settings struct
// passed explicitly at call sites (spec.md §9 design notes prefer
// this over package-level state, except for the debug toggle which
// stays global per options.go).
type LoadOptions struct {
	// Annotations resolves a "!ident<params>" annotation plus the
	// value it decorates into a final Value. Nil disables hook-based
	// resolution entirely.
	Annotations AnnotationResolver
	// Suffixes resolves a numeric literal's unit suffix into a final
	// Value.
	Suffixes SuffixResolver
	// Overrides intercepts construction of a single element.
	Overrides ElementOverride
	// ExpressionMode selects how expression bodies are materialized
	// when no ElementOverride claims them.
	ExpressionMode ExpressionMode
	// ObjectKeyPolicy controls duplicate-key handling for every object
	// built by this load.
	ObjectKeyPolicy DuplicateKeyPolicy
	// Filename is used only to annotate error messages.
	Filename string

	// IgnoreUnknownNumberSuffixes controls what happens when a number
	// carries a suffix that Suffixes is nil for, or declines to claim
	// (spec.md §4.3/§6.2). true (the default via DefaultLoadOptions):
	// the raw number is returned with the suffix attached as metadata.
	// false: construction fails with a SuffixError.
	IgnoreUnknownNumberSuffixes bool
	// IgnoreUnknownAnnotations controls what happens when a value or
	// container opener carries an annotation that Annotations is nil
	// for, or declines to claim. true (the default): the annotation is
	// attached as metadata and the underlying value is returned
	// unchanged. false: construction fails with an AnnotationError.
	IgnoreUnknownAnnotations bool
}

// DefaultLoadOptions returns the zero-value-safe defaults: no hooks,
// value-list expressions, last-wins object keys, unknown suffixes and
// annotations ignored rather than rejected.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		ExpressionMode:              ExpressionValueList,
		IgnoreUnknownNumberSuffixes: true,
		IgnoreUnknownAnnotations:    true,
	}
}

// ValueConstructor drives an ElementParser to build a tree of *Value,
// applying any configured hooks along the way. It mirrors the
// teacher's parser-driving-a-builder pattern (see elemparser.go's
// ElementParser, which plays the same role one layer down).
type ValueConstructor struct {
	opts LoadOptions
	ep   *ElementParser
}

// NewValueConstructor wires an ElementParser for src to opts.
func NewValueConstructor(src string, opts LoadOptions) *ValueConstructor {
	name := opts.Filename
	if name == "" {
		name = "<string>"
	}
	return &ValueConstructor{opts: opts, ep: NewElementParser(name, src)}
}

// Construct drains the element stream and returns the root Value.
func (c *ValueConstructor) Construct() (*Value, error) {
	Logf("construct", "starting construction of %q", c.opts.Filename)
	val, err := c.buildValue()
	if err != nil {
		return nil, err
	}
	// Drain trailing comments/EOF so a malformed trailer is reported.
	for {
		_, err := c.ep.Next()
		if err == ErrEndOfElements {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}

// buildValue consumes exactly one logical value (scalar, array,
// object, or expression) from the element stream, recursing for
// containers.
func (c *ValueConstructor) buildValue() (*Value, error) {
	el, err := c.nextStructural()
	if err != nil {
		return nil, err
	}
	return c.buildFromElement(el)
}

// nextStructural pulls the next non-comment element from the parser.
func (c *ValueConstructor) nextStructural() (Element, error) {
	for {
		el, err := c.ep.Next()
		if err != nil {
			return Element{}, err
		}
		if el.Type == ElementComment {
			continue
		}
		return el, nil
	}
}

func (c *ValueConstructor) buildFromElement(el Element) (*Value, error) {
	if c.opts.Overrides != nil {
		if out, ok, err := c.opts.Overrides.OverrideElement(el, nil); err != nil {
			return nil, c.wrapHookErr("override", el.Token, err)
		} else if ok {
			return out, nil
		}
	}

	switch el.Type {
	case ElementValue:
		return c.buildScalar(el)
	case ElementBeginArray:
		return c.buildArray(el)
	case ElementBeginObject:
		return c.buildObject(el)
	case ElementBeginExpression:
		return c.buildExpression(el)
	default:
		return nil, newStructureError("construct", el.Token, "unexpected element %s in value position", el.Type)
	}
}

func (c *ValueConstructor) buildScalar(el Element) (*Value, error) {
	var val *Value
	var suffix string

	switch el.Token.Type {
	case TokenNull:
		val = NewNull()
	case TokenTrue:
		val = NewBool(true)
	case TokenFalse:
		val = NewBool(false)
	case TokenString:
		if el.Token.Tag != "" {
			// Raw heredoc body: no escape processing, taken verbatim.
			val = NewString(el.Token.Value)
		} else {
			// Standard quoted string: Value spans the delimiting quotes
			// themselves, so strip them before unescaping the body.
			body := el.Token.Value
			if len(body) >= 2 {
				body = body[1 : len(body)-1]
			}
			s, err := decodeQuotedString(body)
			if err != nil {
				return nil, c.wrapDecodeErr(el.Token, err)
			}
			val = NewString(s)
		}
	case TokenByteString:
		b, err := decodeBase64String(el.Token.Value)
		if err != nil {
			return nil, c.wrapDecodeErr(el.Token, err)
		}
		val = NewBytes(b)
	case TokenDateTime:
		dt, err := decodeDateTimeString(el.Token.Value)
		if err != nil {
			return nil, c.wrapDecodeErr(el.Token, err)
		}
		if dt.HasTime {
			val = NewDateTime(dt.Time, dt.HasZone, dt.IsUTCTag)
		} else {
			val = NewDate(dt.Time)
		}
	case TokenNumber:
		num, err := SplitNumber(el.Token)
		if err != nil {
			return nil, c.wrapDecodeErr(el.Token, err)
		}
		suffix = num.Suffix
		v, err := c.buildNumber(num, el.Token)
		if err != nil {
			return nil, err
		}
		val = v
	default:
		return nil, newStructureError("construct", el.Token, "unsupported scalar token %s", el.Token.Type)
	}

	val.SetAnnotation(el.Annotation)

	if suffix != "" {
		num, _ := SplitNumber(el.Token) // already validated above
		matched := false
		if c.opts.Suffixes != nil {
			out, ok, err := c.opts.Suffixes.ResolveSuffix(suffix, num)
			if err != nil {
				return nil, c.wrapHookErr("suffix:"+suffix, el.Token, err)
			}
			if ok {
				out.SetAnnotation(el.Annotation)
				val = out
				matched = true
			}
		}
		if !matched && !c.opts.IgnoreUnknownNumberSuffixes {
			return nil, c.suffixError(suffix, el.Token)
		}
	}

	if len(el.Annotation) > 0 {
		anno := AnnotationSourceText(el.Annotation)
		matched := false
		if c.opts.Annotations != nil {
			out, ok, err := c.opts.Annotations.ResolveAnnotation(anno, val)
			if err != nil {
				return nil, c.wrapHookErr("annotation:"+anno, el.Token, err)
			}
			if ok {
				out.SetAnnotation(el.Annotation)
				val = out
				matched = true
			}
		}
		if !matched && !c.opts.IgnoreUnknownAnnotations {
			return nil, c.annotationError(anno, el.Token)
		}
	}

	return val, nil
}

func (c *ValueConstructor) buildNumber(num DecomposedNumber, tok Token) (*Value, error) {
	if num.IsFloat() {
		f, err := strconv.ParseFloat(stripSuffix(num), 64)
		if err != nil {
			return nil, newStructureError("construct", tok, "invalid float literal %q: %v", tok.Value, err)
		}
		return NewFloat(f, num.Suffix), nil
	}
	digits := num.IntegerDigits
	if num.HasExponent {
		n, err := strconv.Atoi(num.ExponentDigits)
		if err != nil || n > 64 {
			return nil, newStructureError("construct", tok, "integer literal %q out of range", tok.Value)
		}
		for ; n > 0; n-- {
			digits += "0"
		}
	}
	if num.Sign == "-" {
		i, err := strconv.ParseInt(num.Sign+digits, baseOf(num.Prefix), 64)
		if err != nil {
			return nil, newStructureError("construct", tok, "invalid integer literal %q: %v", tok.Value, err)
		}
		return NewInt(i, num.Suffix), nil
	}
	u, err := strconv.ParseUint(digits, baseOf(num.Prefix), 64)
	if err != nil {
		return nil, newStructureError("construct", tok, "invalid integer literal %q: %v", tok.Value, err)
	}
	return NewUint(u, num.Suffix), nil
}

func baseOf(p NumberPrefix) int {
	switch p {
	case PrefixHex:
		return 16
	case PrefixOctal:
		return 8
	case PrefixBinary:
		return 2
	default:
		return 10
	}
}

// stripSuffix rebuilds the numeric literal text without its unit
// suffix, so strconv.ParseFloat doesn't choke on e.g. "3.14kg".
func stripSuffix(num DecomposedNumber) string {
	withoutSuffix := num
	withoutSuffix.Suffix = ""
	return withoutSuffix.Literal()
}

// decodeKey turns an object-key token into its string form: quoted
// keys are unescaped like any other string, everything else (bare
// identifiers, keywords, integers) uses its literal source text.
func (c *ValueConstructor) decodeKey(tok Token) (string, error) {
	switch tok.Type {
	case TokenNull:
		return "null", nil
	case TokenTrue:
		return "true", nil
	case TokenFalse:
		return "false", nil
	}
	if tok.Type != TokenString {
		return tok.Value, nil
	}
	if tok.Tag != "" {
		return tok.Value, nil
	}
	body := tok.Value
	if len(body) >= 2 {
		body = body[1 : len(body)-1]
	}
	s, err := decodeQuotedString(body)
	if err != nil {
		return "", c.wrapDecodeErr(tok, err)
	}
	return s, nil
}

func (c *ValueConstructor) buildArray(open Element) (*Value, error) {
	var items []*Value
	for {
		el, err := c.nextStructural()
		if err != nil {
			return nil, err
		}
		if el.Type == ElementEndArray {
			break
		}
		v, err := c.buildFromElement(el)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	val := NewArray(items)
	val.SetAnnotation(open.Annotation)
	return c.applyAnnotation(val, open)
}

func (c *ValueConstructor) buildObject(open Element) (*Value, error) {
	obj := NewOrderedObjectWithPolicy(c.opts.ObjectKeyPolicy)
	for {
		el, err := c.nextStructural()
		if err != nil {
			return nil, err
		}
		if el.Type == ElementEndObject {
			break
		}
		if el.Type != ElementObjectKey {
			return nil, newStructureError("construct", el.Token, "expected object key, got %s", el.Type)
		}
		key, err := c.decodeKey(el.Token)
		if err != nil {
			return nil, err
		}
		valEl, err := c.nextStructural()
		if err != nil {
			return nil, err
		}
		v, err := c.buildFromElement(valEl)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	val := NewObject(obj)
	return c.applyAnnotation(val, open)
}

func (c *ValueConstructor) buildExpression(open Element) (*Value, error) {
	var tokens []Token
	var values []*Value
	var closeTok Token

	for {
		el, err := c.ep.Next()
		if err != nil {
			return nil, err
		}
		if el.Type == ElementComment {
			continue
		}
		if el.Type == ElementEndExpression {
			closeTok = el.Token
			break
		}
		if el.Type == ElementBeginExpression {
			nested, err := c.buildExpression(el)
			if err != nil {
				return nil, err
			}
			values = append(values, nested)
			tokens = append(tokens, el.Token)
			continue
		}
		tokens = append(tokens, el.Token)
		if el.Type == ElementExpressionToken && c.opts.ExpressionMode == ExpressionValueList {
			v, err := c.coerceExpressionToken(el.Token)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	}

	var val *Value
	switch c.opts.ExpressionMode {
	case ExpressionTokenList:
		val = NewExpressionTokens(tokens)
	case ExpressionSourceString:
		val = NewExpressionSource(c.ep.lx.input[open.Token.EndIdx+1 : closeTok.StartIdx])
	default:
		val = NewExpressionValues(values)
	}
	return c.applyAnnotation(val, open)
}

// coerceExpressionToken turns one raw expression token into a scalar
// Value for ExpressionValueList mode, per spec.md §8 scenario 10
// ("(1 + 2 - 3)" -> [1, "+", 2, "-", 3]): literal scalars (numbers,
// strings, bool/null) decode to their typed Value exactly as they
// would in value position, while every other token (operators,
// identifiers, punctuation) passes through as its literal source text
// so the list stays fully iterable. Full expression-grammar evaluation
// (operator precedence, etc.) is left to callers via ElementOverride.
func (c *ValueConstructor) coerceExpressionToken(tok Token) (*Value, error) {
	switch tok.Type {
	case TokenNumber, TokenString, TokenByteString, TokenDateTime, TokenTrue, TokenFalse, TokenNull:
		return c.buildScalar(Element{Type: ElementValue, Token: tok})
	default:
		return NewString(tok.Text()), nil
	}
}

func renderTokens(tokens []Token) string {
	return AnnotationSourceText(tokens)
}

func (c *ValueConstructor) applyAnnotation(val *Value, open Element) (*Value, error) {
	val.SetAnnotation(open.Annotation)
	if len(open.Annotation) == 0 {
		return val, nil
	}
	anno := AnnotationSourceText(open.Annotation)
	if c.opts.Annotations != nil {
		out, ok, err := c.opts.Annotations.ResolveAnnotation(anno, val)
		if err != nil {
			return nil, c.wrapHookErr("annotation:"+anno, open.Token, err)
		}
		if ok {
			out.SetAnnotation(open.Annotation)
			return out, nil
		}
	}
	if !c.opts.IgnoreUnknownAnnotations {
		return nil, c.annotationError(anno, open.Token)
	}
	return val, nil
}

// suffixError reports a number suffix that no SuffixResolver claimed,
// under the strict (IgnoreUnknownNumberSuffixes=false) policy.
func (c *ValueConstructor) suffixError(suffix string, tok Token) error {
	return &Error{
		Kind:     SuffixError,
		Sender:   "suffix:" + suffix,
		StartIdx: tok.StartIdx,
		EndIdx:   tok.EndIdx,
		Line:     tok.Line,
		Col:      tok.Col,
		Message:  "unknown number suffix " + strconv.Quote(suffix),
	}
}

// annotationError reports an annotation that no AnnotationResolver
// claimed, under the strict (IgnoreUnknownAnnotations=false) policy.
func (c *ValueConstructor) annotationError(anno string, tok Token) error {
	return &Error{
		Kind:     AnnotationError,
		Sender:   "annotation:" + anno,
		StartIdx: tok.StartIdx,
		EndIdx:   tok.EndIdx,
		Line:     tok.Line,
		Col:      tok.Col,
		Message:  "unknown annotation " + strconv.Quote(anno),
	}
}

func (c *ValueConstructor) wrapHookErr(sender string, tok Token, err error) error {
	if jerr, ok := err.(*Error); ok {
		return jerr
	}
	return &Error{
		Kind:       ConstructorError,
		Sender:     sender,
		StartIdx:   tok.StartIdx,
		EndIdx:     tok.EndIdx,
		Line:       tok.Line,
		Col:        tok.Col,
		Message:    "hook returned an error",
		Underlying: err,
	}
}

func (c *ValueConstructor) wrapDecodeErr(tok Token, err error) error {
	return &Error{
		Kind:       ConstructorError,
		Sender:     "construct",
		StartIdx:   tok.StartIdx,
		EndIdx:     tok.EndIdx,
		Line:       tok.Line,
		Col:        tok.Col,
		Message:    "failed to decode literal",
		Underlying: err,
	}
}
