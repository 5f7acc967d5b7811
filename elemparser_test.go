package jxc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elementTypes(els []Element) []ElementType {
	out := make([]ElementType, len(els))
	for i, e := range els {
		out[i] = e.Type
	}
	return out
}

func TestElements_Scalar(t *testing.T) {
	els, err := Elements("42")
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, ElementValue, els[0].Type)
	assert.Equal(t, "42", els[0].Token.Value)
}

func TestElements_Array(t *testing.T) {
	els, err := Elements("[1, 2, 3]")
	require.NoError(t, err)
	assert.Equal(t, []ElementType{
		ElementBeginArray, ElementValue, ElementValue, ElementValue, ElementEndArray,
	}, elementTypes(els))
}

func TestElements_ArrayTrailingComma(t *testing.T) {
	els, err := Elements("[1, 2,]")
	require.NoError(t, err)
	assert.Equal(t, []ElementType{
		ElementBeginArray, ElementValue, ElementValue, ElementEndArray,
	}, elementTypes(els))
}

func TestElements_ArrayNewlineSeparator(t *testing.T) {
	els, err := Elements("[\n1\n2\n]")
	require.NoError(t, err)
	assert.Equal(t, []ElementType{
		ElementBeginArray, ElementValue, ElementValue, ElementEndArray,
	}, elementTypes(els))
}

func TestElements_Object(t *testing.T) {
	els, err := Elements(`{a: 1, b: "two"}`)
	require.NoError(t, err)
	assert.Equal(t, []ElementType{
		ElementBeginObject, ElementObjectKey, ElementValue,
		ElementObjectKey, ElementValue, ElementEndObject,
	}, elementTypes(els))
	assert.Equal(t, "a", els[1].Token.Value)
}

func TestElements_ObjectRejectsFloatKey(t *testing.T) {
	_, err := Elements(`{1.5: "x"}`)
	assert.Error(t, err)
}

func TestElements_ObjectRejectsMissingColon(t *testing.T) {
	_, err := Elements(`{a 1}`)
	assert.Error(t, err)
}

func TestElements_Expression(t *testing.T) {
	els, err := Elements("(1 + 2)")
	require.NoError(t, err)
	assert.Equal(t, []ElementType{
		ElementBeginExpression, ElementExpressionToken, ElementExpressionToken,
		ElementExpressionToken, ElementEndExpression,
	}, elementTypes(els))
}

func TestElements_NestedExpression(t *testing.T) {
	els, err := Elements("(1 + (2 * 3))")
	require.NoError(t, err)
	assert.Equal(t, []ElementType{
		ElementBeginExpression, ElementExpressionToken, ElementExpressionToken,
		ElementBeginExpression, ElementExpressionToken, ElementExpressionToken,
		ElementExpressionToken, ElementEndExpression, ElementEndExpression,
	}, elementTypes(els))
}

func TestElements_AnnotatedValue(t *testing.T) {
	els, err := Elements(`!vec3<f32> [1, 2, 3]`)
	require.NoError(t, err)
	require.Len(t, els, 5)
	assert.Equal(t, ElementBeginArray, els[0].Type)
	require.NotEmpty(t, els[0].Annotation)
	assert.Equal(t, "!vec3<f32>", AnnotationSourceText(els[0].Annotation))
}

func TestElements_TrailingContentIsError(t *testing.T) {
	_, err := Elements("1 2")
	assert.Error(t, err)
}

func TestElements_CommentsPassThrough(t *testing.T) {
	els, err := Elements("# leading\n1")
	require.NoError(t, err)
	require.Len(t, els, 2)
	assert.Equal(t, ElementComment, els[0].Type)
	assert.Equal(t, ElementValue, els[1].Type)
}

func TestElements_Empty(t *testing.T) {
	_, err := Elements("")
	assert.Error(t, err)
}
