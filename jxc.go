package jxc

// Loads parses a JXC document into a *Value tree using the default
// construction options (no hooks, value-list expressions, last-wins
// object keys). See LoadsWithOptions for the configurable form.
func Loads(src string) (*Value, error) {
	return LoadsWithOptions(src, DefaultLoadOptions())
}

// LoadsWithOptions parses a JXC document into a *Value tree, applying
// any configured hooks from opts (spec.md §6.2's package entry point).
func LoadsWithOptions(src string, opts LoadOptions) (*Value, error) {
	c := NewValueConstructor(src, opts)
	return c.Construct()
}

// Dumps serializes a *Value tree, or any Go value the default Encoder
// can convert, into compact JXC text.
func Dumps(v any) (string, error) {
	return DumpsWithOptions(v, DefaultDumpOptions())
}

// DumpsWithOptions is Dumps with explicit DumpOptions, e.g. to enable
// pretty-printing.
func DumpsWithOptions(v any, opts DumpOptions) (string, error) {
	val, err := NewEncoder().EncodeValue(v)
	if err != nil {
		return "", err
	}
	s := NewSerializer(opts)
	if err := s.WriteValue(val); err != nil {
		return "", err
	}
	return s.String(), nil
}

// MustLoads is Loads, panicking on error. Intended for call sites
// parsing compile-time-constant documents, mirroring the teacher's
// Must-style helpers for template strings known to be well-formed.
func MustLoads(src string) *Value {
	val, err := Loads(src)
	if err != nil {
		panic(err)
	}
	return val
}

// MustDumps is Dumps, panicking on error.
func MustDumps(v any) string {
	s, err := Dumps(v)
	if err != nil {
		panic(err)
	}
	return s
}
