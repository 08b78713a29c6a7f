package header

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bead-go/email/grammar"
	"github.com/bead-go/email/header/param"
)

// Errors returned by Header constructors and derivation methods.
var (
	// ErrInvalidName is returned when a header is constructed or renamed
	// with a name that does not satisfy the RFC 822 field-name grammar.
	ErrInvalidName = errors.New("invalid header field name")

	// ErrEmptyParameterName is returned when a parameter is attached to
	// a header using an empty name.
	ErrEmptyParameterName = errors.New("header parameter name is empty")
)

// Standard header names used throughout this module.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-disposition"
	ContentTransferEncoding = "Content-transfer-encoding"
	ContentType             = "Content-type"
	Date                    = "Date"
	From                    = "From"
	MimeVersion             = "Mime-version"
	Subject                 = "Subject"
	To                      = "To"
)

// Header is a single immutable header field: a validated name, an
// opaque value, and an ordered set of parameters. A Header can never
// exist with an invalid name. All derivation methods return a new
// Header and leave the receiver untouched, so a Header may be freely
// shared between collections.
//
// Parameter values are stored verbatim. If a value needs quoting to be
// wire-safe (an attachment filename, say), the caller quotes it before
// attaching it, e.g. with grammar.Quote. Parameter names must be
// non-empty but are otherwise not validated.
type Header struct {
	name   string
	value  string
	params *param.List
}

// New constructs a Header with the given name and value and no
// parameters. The name is trimmed of surrounding whitespace and must
// satisfy grammar.IsValidHeaderName or ErrInvalidName is returned.
func New(name, value string) (*Header, error) {
	return NewWithParams(name, value, nil)
}

// NewWithParams constructs a Header with the given name, value, and
// parameters. The parameter list is cloned, so the caller may keep
// using it. It returns ErrInvalidName if the trimmed name fails the
// field-name grammar and ErrEmptyParameterName if any parameter has an
// empty name.
func NewWithParams(name, value string, params *param.List) (*Header, error) {
	name = strings.TrimSpace(name)
	if !grammar.IsValidHeaderName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	for _, n := range params.Names() {
		if n == "" {
			return nil, ErrEmptyParameterName
		}
	}

	return &Header{
		name:   name,
		value:  value,
		params: params.Clone(),
	}, nil
}

// Name returns the header field name.
func (h *Header) Name() string {
	return h.name
}

// Value returns the header field value, without parameters.
func (h *Header) Value() string {
	return h.value
}

// Parameter returns the value of the named parameter, or an empty
// string if it is not set.
func (h *Header) Parameter(name string) string {
	v, _ := h.params.Get(name)
	return v
}

// Parameters returns a copy of the header's parameter list.
func (h *Header) Parameters() *param.List {
	return h.params.Clone()
}

// Is reports whether the header's name matches the given name,
// compared case-insensitively.
func (h *Header) Is(name string) bool {
	return strings.EqualFold(h.name, name)
}

// WithName returns a copy of the header with a new name. The new name
// is validated the same as in New.
func (h *Header) WithName(name string) (*Header, error) {
	return NewWithParams(name, h.value, h.params)
}

// WithValue returns a copy of the header with a new value.
func (h *Header) WithValue(value string) *Header {
	return &Header{
		name:   h.name,
		value:  value,
		params: h.params.Clone(),
	}
}

// WithParameter returns a copy of the header with the named parameter
// set. It returns ErrEmptyParameterName if name is empty.
func (h *Header) WithParameter(name, value string) (*Header, error) {
	if name == "" {
		return nil, ErrEmptyParameterName
	}

	ps := h.params.Clone()
	ps.Set(name, value)
	return &Header{
		name:   h.name,
		value:  h.value,
		params: ps,
	}, nil
}

// WithoutParameter returns a copy of the header with the named
// parameter removed. Removing an absent parameter yields an unchanged
// copy.
func (h *Header) WithoutParameter(name string) *Header {
	ps := h.params.Clone()
	ps.Delete(name)
	return &Header{
		name:   h.name,
		value:  h.value,
		params: ps,
	}
}

// Match reports whether two headers are equivalent for the purposes of
// removal and deduplication: names equal case-insensitively, values
// equal exactly, and parameter sets equal regardless of insertion
// order.
func (h *Header) Match(other *Header) bool {
	if other == nil {
		return false
	}
	return h.Is(other.name) &&
		h.value == other.value &&
		h.params.Equal(other.params)
}

// Line renders the header as a single wire line: "Name: value"
// followed by "; name=value" for each parameter in insertion order. No
// line terminator is appended; that is the serializer's job.
func (h *Header) Line() string {
	var sb strings.Builder
	sb.WriteString(h.name)
	sb.WriteString(": ")
	sb.WriteString(h.value)
	for _, n := range h.params.Names() {
		v, _ := h.params.Get(n)
		sb.WriteString("; ")
		sb.WriteString(n)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}

// String returns the same as Line.
func (h *Header) String() string {
	return h.Line()
}
