// ABOUTME: String interning for tag, kind and attribute names
// ABOUTME: Dense codes keep the label index alphabet small and stable

package labels

// Code is a dense integer assigned to a distinct name or node kind.
// Codes are stable for the lifetime of the owning document.
type Code uint32

// Reserved kind codes. These are registered before any document name so
// they hold the same values in every document.
const (
	CODE_TEXT      Code = 0 // character data run
	CODE_COMMENT   Code = 1 // comment node
	CODE_PROC_INST Code = 2 // processing instruction node

	FIRST_NAME_CODE Code = 3 // first code handed to a document name
)

// Display names for the reserved kinds.
const (
	NAME_TEXT      = "#text"
	NAME_COMMENT   = "#comment"
	NAME_PROC_INST = "#processing-instruction"
)

// Interner assigns dense codes to names on first sight and keeps the
// reverse mapping for display. Not safe for concurrent mutation; frozen
// documents only read it.
type Interner struct {
	names []string
	codes map[string]Code
}

// NewInterner returns an Interner with the reserved kinds registered.
func NewInterner() *Interner {
	in := &Interner{codes: make(map[string]Code)}
	for _, name := range []string{NAME_TEXT, NAME_COMMENT, NAME_PROC_INST} {
		in.Intern(name)
	}
	return in
}

// Intern returns the code for name, assigning a new one on first sight.
func (in *Interner) Intern(name string) Code {
	if c, ok := in.codes[name]; ok {
		return c
	}
	c := Code(len(in.names))
	in.names = append(in.names, name)
	in.codes[name] = c
	return c
}

// Lookup returns the code for name without assigning one.
func (in *Interner) Lookup(name string) (Code, bool) {
	c, ok := in.codes[name]
	return c, ok
}

// Name returns the display string for a code.
func (in *Interner) Name(c Code) string {
	return in.names[c]
}

// Count reports the number of distinct codes assigned.
func (in *Interner) Count() int {
	return len(in.names)
}
