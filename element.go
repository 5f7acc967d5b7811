package jxc

// ElementType classifies the logical positions the ElementParser emits
// one Element per, per spec.md §3 Element.
type ElementType int

const (
	ElementInvalid ElementType = iota
	ElementValue
	ElementBeginArray
	ElementEndArray
	ElementBeginObject
	ElementObjectKey
	ElementEndObject
	ElementBeginExpression
	ElementExpressionToken
	ElementEndExpression
	ElementComment
)

func (t ElementType) String() string {
	switch t {
	case ElementValue:
		return "Value"
	case ElementBeginArray:
		return "BeginArray"
	case ElementEndArray:
		return "EndArray"
	case ElementBeginObject:
		return "BeginObject"
	case ElementObjectKey:
		return "ObjectKey"
	case ElementEndObject:
		return "EndObject"
	case ElementBeginExpression:
		return "BeginExpression"
	case ElementExpressionToken:
		return "ExpressionToken"
	case ElementEndExpression:
		return "EndExpression"
	case ElementComment:
		return "Comment"
	default:
		return "Invalid"
	}
}

// Element is one step of the element stream: either a value, a
// container opener/closer, an object key, an expression token, or a
// comment. Annotations are permitted only on Value and on container
// openers, never on keys or closers (spec.md §3).
type Element struct {
	Type       ElementType
	Token      Token
	Annotation []Token
}

func (e Element) isOpener() bool {
	switch e.Type {
	case ElementBeginArray, ElementBeginObject, ElementBeginExpression:
		return true
	}
	return false
}

func (e Element) isCloser() bool {
	switch e.Type {
	case ElementEndArray, ElementEndObject, ElementEndExpression:
		return true
	}
	return false
}
