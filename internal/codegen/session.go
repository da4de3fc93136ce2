package codegen

import "io"

// Session holds the registries of exactly one compilation.
// A Session is not safe for concurrent use and must not be reused for a
// second document.
type Session struct {
	Insertions *Table
	IDs        *IDs
	Fragments  *Fragments
}

// NewSession creates a session with empty registries.
func NewSession() *Session {
	return &Session{
		Insertions: NewTable(),
		IDs:        NewIDs(),
		Fragments:  NewFragments(),
	}
}

// Add registers text at point with the given priority.
func (s *Session) Add(point, text string, priority int) {
	s.Insertions.Add(point, text, priority)
}

// AddDefault registers text at point with DefaultPriority.
func (s *Session) AddDefault(point, text string) {
	s.Insertions.AddDefault(point, text)
}

// Get returns the fragments registered at point.
func (s *Session) Get(point string) ([]Fragment, bool) {
	return s.Insertions.Get(point)
}

// Resolve expands template into sink using the session's insertion table.
func (s *Session) Resolve(template io.Reader, sink io.Writer) error {
	return s.Insertions.Resolve(template, sink)
}

// NextID allocates a fresh symbol name for prefix.
func (s *Session) NextID(prefix string) string {
	return s.IDs.Next(prefix)
}

// LookupFragment returns the name registered for an identical body.
func (s *Session) LookupFragment(text string) (string, bool) {
	return s.Fragments.Lookup(text)
}

// RegisterFragment associates name with text, first writer wins.
func (s *Session) RegisterFragment(name, text string) {
	s.Fragments.Register(name, text)
}

// Intern returns the name for text, allocating one with prefix on first use.
// The boolean is true when text is new and its definition still has to be
// emitted by the caller.
func (s *Session) Intern(prefix, text string) (string, bool) {
	if name, ok := s.Fragments.Lookup(text); ok {
		return name, false
	}
	name := s.IDs.Next(prefix)
	s.Fragments.Register(name, text)
	return name, true
}
