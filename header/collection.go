package header

import "github.com/bead-go/email/header/param"

// Collection is an ordered sequence of header fields. Insertion order
// is preserved and is significant: serialization emits fields in
// exactly this order. Names are not unique; a message may legally carry
// several To headers, for example.
//
// Like Header, a Collection is a value: derivation methods return a new
// Collection and leave the receiver untouched. Because Header values
// are themselves immutable, the derived collection shares them safely.
type Collection struct {
	fields []*Header
}

// NewCollection builds a collection from the given headers, in order.
func NewCollection(hs ...*Header) *Collection {
	fields := make([]*Header, len(hs))
	copy(fields, hs)
	return &Collection{fields: fields}
}

// Len returns the number of header fields in the collection.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

// Values returns all header fields in insertion order. The returned
// slice is a copy; modifying it does not affect the collection.
func (c *Collection) Values() []*Header {
	if c == nil {
		return nil
	}
	fs := make([]*Header, len(c.fields))
	copy(fs, c.fields)
	return fs
}

// FirstNamed returns the first header whose name matches the given name
// case-insensitively, or nil if there is none.
func (c *Collection) FirstNamed(name string) *Header {
	if c == nil {
		return nil
	}
	for _, f := range c.fields {
		if f.Is(name) {
			return f
		}
	}
	return nil
}

// AllNamed returns every header whose name matches the given name
// case-insensitively, in insertion order. It returns an empty slice if
// there are none.
func (c *Collection) AllNamed(name string) []*Header {
	fs := make([]*Header, 0, 2)
	if c == nil {
		return fs
	}
	for _, f := range c.fields {
		if f.Is(name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// indexesNamed returns the positions of fields matching the name.
func (c *Collection) indexesNamed(name string) []int {
	ixs := make([]int, 0, 2)
	for i, f := range c.fields {
		if f.Is(name) {
			ixs = append(ixs, i)
		}
	}
	return ixs
}

// clone returns a shallow copy the derivation methods can modify.
func (c *Collection) clone() *Collection {
	if c == nil {
		return &Collection{}
	}
	fields := make([]*Header, len(c.fields))
	copy(fields, c.fields)
	return &Collection{fields: fields}
}

// WithHeader returns a collection with the given header appended to the
// end.
func (c *Collection) WithHeader(h *Header) *Collection {
	nc := c.clone()
	nc.fields = append(nc.fields, h)
	return nc
}

// WithHeaderNamed constructs a header from the given name and value and
// appends it. It fails with ErrInvalidName if the name fails the
// field-name grammar.
func (c *Collection) WithHeaderNamed(name, value string) (*Collection, error) {
	h, err := New(name, value)
	if err != nil {
		return nil, err
	}
	return c.WithHeader(h), nil
}

// WithoutNamed returns a collection with every header matching the
// given name (case-insensitively) removed. A name with no matches
// yields an equivalent collection.
func (c *Collection) WithoutNamed(name string) *Collection {
	nc := &Collection{fields: make([]*Header, 0, c.Len())}
	if c == nil {
		return nc
	}
	for _, f := range c.fields {
		if !f.Is(name) {
			nc.fields = append(nc.fields, f)
		}
	}
	return nc
}

// WithoutHeader returns a collection with every header that is an exact
// match for h removed, per Header.Match: same name (case-insensitive),
// same value, same parameter set. No match yields an equivalent
// collection; removal is never an error.
func (c *Collection) WithoutHeader(h *Header) *Collection {
	nc := &Collection{fields: make([]*Header, 0, c.Len())}
	if c == nil {
		return nc
	}
	for _, f := range c.fields {
		if !f.Match(h) {
			nc.fields = append(nc.fields, f)
		}
	}
	return nc
}

// WithSetNamed is the replace-single primitive: it returns a collection
// in which exactly one header with the given name exists, carrying the
// given value and parameters. The first existing occurrence is replaced
// in place, keeping its position, and any further occurrences are
// deleted. If the name is absent, the header is appended to the end.
func (c *Collection) WithSetNamed(name, value string, params *param.List) (*Collection, error) {
	h, err := NewWithParams(name, value, params)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return NewCollection(h), nil
	}

	ixs := c.indexesNamed(name)
	if len(ixs) == 0 {
		return c.WithHeader(h), nil
	}

	fields := make([]*Header, 0, len(c.fields))
	replaced := false
	for _, f := range c.fields {
		if f.Is(name) {
			if !replaced {
				fields = append(fields, h)
				replaced = true
			}
			continue
		}
		fields = append(fields, f)
	}
	return &Collection{fields: fields}, nil
}
