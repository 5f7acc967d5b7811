package jxc

import (
	"strings"
	"sync"
)

// ClassPathDecoder builds a Go value of some caller-chosen concrete
// type out of a fully-constructed generic Value, keyed by the dotted
// annotation path that named it (spec.md §9's optional class-path
// registry design note, e.g. `my.pkg.Point<1, 2>`).
type ClassPathDecoder func(val *Value) (any, error)

// ClassPathRegistry is a thread-safe registry mapping annotation base
// names to decoders, so a ValueConstructor can resolve `!my.pkg.Point`
// annotations without every caller re-implementing the same
// string-keyed map plus locking by hand. Safe for concurrent use
// across multiple concurrent Loads calls, mirroring the teacher's
// preference for a package-level registry guarded by its own lock
// rather than a bare map.
type ClassPathRegistry struct {
	decoders sync.Map // string -> ClassPathDecoder
}

// NewClassPathRegistry returns an empty registry.
func NewClassPathRegistry() *ClassPathRegistry {
	return &ClassPathRegistry{}
}

// Register associates a dotted class path with a decoder. Registering
// the same path twice replaces the previous decoder.
func (r *ClassPathRegistry) Register(classPath string, dec ClassPathDecoder) {
	r.decoders.Store(classPath, dec)
}

// Unregister removes a previously registered class path.
func (r *ClassPathRegistry) Unregister(classPath string) {
	r.decoders.Delete(classPath)
}

// Lookup returns the decoder registered for classPath, if any.
func (r *ClassPathRegistry) Lookup(classPath string) (ClassPathDecoder, bool) {
	v, ok := r.decoders.Load(classPath)
	if !ok {
		return nil, false
	}
	return v.(ClassPathDecoder), true
}

// AsAnnotationResolver adapts the registry to an AnnotationResolver so
// it can be slotted into a ResolverChain alongside user hooks. The
// decoded Go value is boxed back into an opaque Value via NewNative so
// it keeps flowing through the rest of construction; callers that want
// the concrete type back call Native() on the result.
func (r *ClassPathRegistry) AsAnnotationResolver() AnnotationResolver {
	return AnnotationResolverFunc(func(annotation string, val *Value) (*Value, bool, error) {
		dec, ok := r.Lookup(AnnotationBaseName(tokenizeAnnotationBaseName(annotation)))
		if !ok {
			return nil, false, nil
		}
		native, err := dec(val)
		if err != nil {
			return nil, true, &Error{
				Kind:       ConstructorError,
				Sender:     "classpath:" + annotation,
				Message:    "class-path decoder failed for " + annotation,
				Underlying: err,
			}
		}
		out := NewNative(native)
		out.SetAnnotation(val.Annotation())
		return out, true, nil
	})
}

// tokenizeAnnotationBaseName extracts the dotted-path prefix from an
// already-flattened annotation string (i.e. one produced by
// AnnotationSourceText), stripping a leading "!" marker and stopping
// at the first "<" that opens a parameter list.
func tokenizeAnnotationBaseName(annotation string) []Token {
	base := strings.TrimPrefix(annotation, "!")
	if idx := strings.IndexByte(base, '<'); idx >= 0 {
		base = base[:idx]
	}
	return []Token{{Type: TokenIdentifier, Value: base}}
}
