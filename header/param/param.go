// Package param provides an ordered parameter list for parameterized
// header fields such as Content-type and Content-disposition. Unlike a
// plain map, a List remembers the order parameters were first set in, so
// a header serializes its parameters in exactly the order they were
// attached. Keys are unique and case-sensitive as stored.
package param

// Well-known parameter names.
const (
	// Boundary is the name of the boundary parameter that may be present
	// in the Content-type header.
	Boundary = "boundary"

	// Charset is the name of the charset parameter that may be present
	// in the Content-type header.
	Charset = "charset"

	// Filename is the name of the filename parameter that may be present
	// in the Content-disposition header.
	Filename = "filename"
)

// pair is a single name/value parameter.
type pair struct {
	name  string
	value string
}

// List is an insertion-ordered mapping of parameter names to values.
// Setting an existing name replaces the value in place, keeping the
// parameter's original position. The zero value is an empty, usable
// List.
type List struct {
	ps []pair
}

// New builds a List from alternating name/value arguments:
//
//	ps := param.New(param.Charset, "utf-8", param.Boundary, "abc123")
//
// It panics if given an odd number of arguments.
func New(nvs ...string) *List {
	if len(nvs)%2 != 0 {
		panic("param.New requires name/value pairs")
	}

	ps := &List{}
	for i := 0; i < len(nvs); i += 2 {
		ps.Set(nvs[i], nvs[i+1])
	}
	return ps
}

// Len returns the number of parameters in the list.
func (ps *List) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.ps)
}

// Names returns the parameter names in insertion order.
func (ps *List) Names() []string {
	if ps == nil {
		return nil
	}
	ns := make([]string, len(ps.ps))
	for i, p := range ps.ps {
		ns[i] = p.name
	}
	return ns
}

// Get returns the value for the named parameter and whether it is set.
func (ps *List) Get(name string) (string, bool) {
	if ps == nil {
		return "", false
	}
	for _, p := range ps.ps {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

// Set stores a value for the named parameter. An existing parameter is
// updated in place and keeps its position; a new one is appended.
func (ps *List) Set(name, value string) {
	for i, p := range ps.ps {
		if p.name == name {
			ps.ps[i].value = value
			return
		}
	}
	ps.ps = append(ps.ps, pair{name, value})
}

// Delete removes the named parameter. Deleting an absent name is a
// no-op.
func (ps *List) Delete(name string) {
	if ps == nil {
		return
	}
	for i, p := range ps.ps {
		if p.name == name {
			ps.ps = append(ps.ps[:i], ps.ps[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the list. Cloning a nil List returns an
// empty one.
func (ps *List) Clone() *List {
	c := &List{}
	if ps == nil {
		return c
	}
	c.ps = make([]pair, len(ps.ps))
	copy(c.ps, ps.ps)
	return c
}

// Equal reports whether two lists contain the same parameters with the
// same values, regardless of insertion order.
func (ps *List) Equal(other *List) bool {
	if ps.Len() != other.Len() {
		return false
	}
	if ps == nil {
		return true
	}
	for _, p := range ps.ps {
		ov, found := other.Get(p.name)
		if !found || ov != p.value {
			return false
		}
	}
	return true
}
