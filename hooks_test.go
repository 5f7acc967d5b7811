package jxc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverChain_AnnotationFallsThroughToNextResolver(t *testing.T) {
	chain := &ResolverChain{
		Annotations: []AnnotationResolver{
			AnnotationResolverFunc(func(annotation string, val *Value) (*Value, bool, error) {
				return nil, false, nil
			}),
			AnnotationResolverFunc(func(annotation string, val *Value) (*Value, bool, error) {
				return NewString("handled:" + annotation), true, nil
			}),
		},
	}
	out, ok, err := chain.ResolveAnnotation("thing", NewNull())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "handled:thing", out.String())
}

func TestResolverChain_AnnotationStopsAtFirstError(t *testing.T) {
	calledSecond := false
	chain := &ResolverChain{
		Annotations: []AnnotationResolver{
			AnnotationResolverFunc(func(annotation string, val *Value) (*Value, bool, error) {
				return nil, false, errors.New("boom")
			}),
			AnnotationResolverFunc(func(annotation string, val *Value) (*Value, bool, error) {
				calledSecond = true
				return nil, true, nil
			}),
		},
	}
	_, _, err := chain.ResolveAnnotation("thing", NewNull())
	assert.Error(t, err)
	assert.False(t, calledSecond)
}

func TestResolverChain_SuffixAndOverrideCompose(t *testing.T) {
	chain := &ResolverChain{
		Suffixes: []SuffixResolver{
			MapSuffixResolver{"kg": func(num DecomposedNumber) (*Value, error) {
				return NewString("weight"), nil
			}},
		},
		Overrides: []ElementOverride{
			ElementOverrideFunc(func(el Element, pending []*Value) (*Value, bool, error) {
				return nil, false, nil
			}),
		},
	}
	out, ok, err := chain.ResolveSuffix("kg", DecomposedNumber{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "weight", out.String())

	_, ok, err = chain.OverrideElement(Element{}, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapAnnotationResolver_UnknownFallsThrough(t *testing.T) {
	m := MapAnnotationResolver{}
	_, ok, err := m.ResolveAnnotation("missing", NewNull())
	require.NoError(t, err)
	assert.False(t, ok)
}
