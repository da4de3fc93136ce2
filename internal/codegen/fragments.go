package codegen

// Fragments is the intern table for generated definitions.
//
// Before emitting a named definition (a class, a callback function), a
// generator looks its rendered body up here. A hit means an identical body was
// already emitted under the returned name and can be reused as is.
// Associations are first-writer-wins and never evicted.
type Fragments struct {
	names map[string]string // FragmentDigest(text) -> name
}

// NewFragments creates an empty fragment registry.
func NewFragments() *Fragments {
	return &Fragments{names: make(map[string]string)}
}

// Lookup returns the name previously registered for text.
func (f *Fragments) Lookup(text string) (string, bool) {
	name, ok := f.names[FragmentDigest(text)]
	return name, ok
}

// Register associates name with text unless text already has a name.
func (f *Fragments) Register(name, text string) {
	key := FragmentDigest(text)
	if _, ok := f.names[key]; ok {
		return
	}
	f.names[key] = name
}

// Len returns the number of registered associations.
func (f *Fragments) Len() int {
	return len(f.names)
}
