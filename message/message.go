package message

import (
	"time"

	"github.com/bead-go/email/grammar"
	"github.com/bead-go/email/header"
	"github.com/bead-go/email/header/param"
)

// Message is a complete email message: a header collection carrying the
// recipient fields, and either a flat byte body or a list of parts. The
// two body forms are mutually exclusive: the moment any part is added,
// the flat body reads as nil, and setting a body clears the parts.
//
// A Message is derived, not mutated. Every With* method returns a new
// Message and leaves the receiver untouched.
type Message struct {
	headers *header.Collection
	body    []byte
	parts   []*Part

	// boundary is memoized on first access, then stable
	boundary string
}

// New constructs an empty message seeded with the default Content-type
// (text/plain) and Content-transfer-encoding (quoted-printable)
// headers.
func New() *Message {
	hs := header.NewCollection()
	hs = mustSet(hs, header.ContentType, DefaultContentType, nil)
	hs = mustSet(hs, header.ContentTransferEncoding, DefaultContentEncoding, nil)
	return &Message{headers: hs}
}

// NewMessage is a convenience constructor that seeds the usual fields
// in one call. Empty arguments are skipped, so any subset may be
// given.
func NewMessage(to, subject, body, from string) *Message {
	m := New()
	if to != "" {
		m = m.WithTo(to)
	}
	if subject != "" {
		m = m.WithSubject(subject)
	}
	if body != "" {
		m = m.WithBody([]byte(body))
	}
	if from != "" {
		m = m.WithFrom(from)
	}
	return m
}

func (m *Message) clone() *Message {
	nm := &Message{
		headers:  m.headers,
		body:     m.body,
		boundary: m.boundary,
	}
	if m.parts != nil {
		nm.parts = make([]*Part, len(m.parts))
		copy(nm.parts, m.parts)
	}
	return nm
}

// Headers returns the message's header collection.
func (m *Message) Headers() *header.Collection {
	return m.headers
}

// valuesNamed collects the values of every header with the given name.
func (m *Message) valuesNamed(name string) []string {
	hs := m.headers.AllNamed(name)
	vs := make([]string, len(hs))
	for i, h := range hs {
		vs[i] = h.Value()
	}
	return vs
}

// firstValue returns the value of the first header with the given name
// or an empty string when the field is absent.
func (m *Message) firstValue(name string) string {
	if h := m.headers.FirstNamed(name); h != nil {
		return h.Value()
	}
	return ""
}

// To returns the values of all To headers, in order.
func (m *Message) To() []string {
	return m.valuesNamed(header.To)
}

// Cc returns the values of all Cc headers, in order.
func (m *Message) Cc() []string {
	return m.valuesNamed(header.Cc)
}

// Bcc returns the values of all Bcc headers, in order.
func (m *Message) Bcc() []string {
	return m.valuesNamed(header.Bcc)
}

// From returns the From header value, or an empty string when unset.
func (m *Message) From() string {
	return m.firstValue(header.From)
}

// Subject returns the Subject header value, or an empty string when
// unset.
func (m *Message) Subject() string {
	return m.firstValue(header.Subject)
}

// withAddresses appends one header per address. The header name is one
// of the package constants, so construction cannot fail.
func (m *Message) withAddresses(name string, addrs []string) *Message {
	nm := m.clone()
	hs := nm.headers
	for _, a := range addrs {
		h, err := header.New(name, a)
		if err != nil {
			panic(err)
		}
		hs = hs.WithHeader(h)
	}
	nm.headers = hs
	return nm
}

// WithTo returns a message with one To header appended per address.
// Existing recipients are never replaced; they accumulate.
func (m *Message) WithTo(addrs ...string) *Message {
	return m.withAddresses(header.To, addrs)
}

// WithCc returns a message with one Cc header appended per address.
func (m *Message) WithCc(addrs ...string) *Message {
	return m.withAddresses(header.Cc, addrs)
}

// WithBcc returns a message with one Bcc header appended per address.
func (m *Message) WithBcc(addrs ...string) *Message {
	return m.withAddresses(header.Bcc, addrs)
}

// WithFrom returns a message whose single From header carries the given
// address. Any prior From headers are replaced.
func (m *Message) WithFrom(addr string) *Message {
	nm := m.clone()
	nm.headers = mustSet(nm.headers, header.From, addr, nil)
	return nm
}

// WithSubject returns a message whose single Subject header carries the
// given text. Any prior Subject headers are replaced.
func (m *Message) WithSubject(text string) *Message {
	nm := m.clone()
	nm.headers = mustSet(nm.headers, header.Subject, text, nil)
	return nm
}

// WithDate returns a message whose single Date header carries the given
// time, formatted per RFC 1123 with a numeric zone.
func (m *Message) WithDate(t time.Time) *Message {
	nm := m.clone()
	nm.headers = mustSet(nm.headers, header.Date, t.Format(time.RFC1123Z), nil)
	return nm
}

// Date parses the Date header and returns it as a time.Time. It
// attempts the RFC 5322 format first and falls back to lenient parsing
// via header.ParseTime. The zero time and an error are returned when
// the header is absent or unparseable.
func (m *Message) Date() (time.Time, error) {
	return header.ParseTime(m.firstValue(header.Date))
}

// WithContentType returns a message whose single Content-type header is
// replaced with the given media type and parameters (nil for none). It
// fails with ErrInvalidContentType if the media type fails its grammar.
func (m *Message) WithContentType(mediaType string, ps *param.List) (*Message, error) {
	if !grammar.IsMediaType(mediaType) {
		return nil, ErrInvalidContentType
	}
	nm := m.clone()
	nm.headers = mustSet(nm.headers, header.ContentType, mediaType, ps)
	return nm, nil
}

// WithContentTransferEncoding returns a message whose single
// Content-transfer-encoding header is replaced with the given encoding
// and parameters (nil for none). It fails with
// ErrInvalidContentEncoding if the encoding fails its grammar.
func (m *Message) WithContentTransferEncoding(encoding string, ps *param.List) (*Message, error) {
	if !grammar.IsTransferEncoding(encoding) {
		return nil, ErrInvalidContentEncoding
	}
	nm := m.clone()
	nm.headers = mustSet(nm.headers, header.ContentTransferEncoding, encoding, ps)
	return nm, nil
}

// WithHeader returns a message with the given header appended.
// Content-type and Content-transfer-encoding headers are redirected
// through the replace-single setters, preserving the single-instance
// invariant.
func (m *Message) WithHeader(h *header.Header) (*Message, error) {
	switch {
	case h.Is(header.ContentType):
		return m.WithContentType(h.Value(), h.Parameters())
	case h.Is(header.ContentTransferEncoding):
		return m.WithContentTransferEncoding(h.Value(), h.Parameters())
	}

	nm := m.clone()
	nm.headers = nm.headers.WithHeader(h)
	return nm, nil
}

// WithHeaderNamed constructs a header from the name and value and
// appends it via WithHeader.
func (m *Message) WithHeaderNamed(name, value string) (*Message, error) {
	h, err := header.New(name, value)
	if err != nil {
		return nil, err
	}
	return m.WithHeader(h)
}

// Body returns the flat body, but only while no parts have been added.
// Once PartCount() is non-zero this returns nil regardless of any
// previously set body: parts win.
func (m *Message) Body() []byte {
	if m.IsMultipart() {
		return nil
	}
	return m.body
}

// Content implements Entity; it is the same as Body.
func (m *Message) Content() []byte {
	return m.Body()
}

// WithBody returns a message carrying the given flat body. All parts
// are cleared; the two body forms are mutually exclusive. A nil body
// clears the flat body as well.
func (m *Message) WithBody(body []byte) *Message {
	nm := m.clone()
	nm.body = body
	nm.parts = nil
	return nm
}

// Parts returns the message's parts, or nil when there are none.
func (m *Message) Parts() []*Part {
	if m.parts == nil {
		return nil
	}
	ps := make([]*Part, len(m.parts))
	copy(ps, m.parts)
	return ps
}

// PartCount returns the number of parts.
func (m *Message) PartCount() int {
	return len(m.parts)
}

// IsMultipart reports whether the message holds at least one part.
func (m *Message) IsMultipart() bool {
	return len(m.parts) > 0
}

// Boundary returns the message's multipart boundary, generating and
// memoizing one on first access.
func (m *Message) Boundary() string {
	if m.boundary == "" {
		m.boundary = GenerateBoundary()
	}
	return m.boundary
}

// WithPart returns a message with the given part appended. If the
// message's Content-type is not yet a multipart type it is upgraded to
// multipart/mixed, and a boundary parameter carrying the message
// boundary is attached unless one is already present.
func (m *Message) WithPart(p *Part) *Message {
	nm := m.clone()
	nm.parts = append(nm.parts, p)
	nm.headers = multipartHeaders(nm.headers, nm.Boundary())
	return nm
}

// WithPartContent constructs a part from raw content, media type, and
// encoding, then appends it via WithPart.
func (m *Message) WithPartContent(content []byte, mediaType, encoding string) (*Message, error) {
	p, err := NewPartWithType(content, mediaType, encoding)
	if err != nil {
		return nil, err
	}
	return m.WithPart(p), nil
}

// WithAttachment constructs an attachment part from the given content,
// media type, encoding, and filename and appends it. The part carries a
// Content-disposition header of the form:
//
//	Content-disposition: attachment; filename="<name>"
//
// with any quote or backslash characters in the filename escaped.
func (m *Message) WithAttachment(content []byte, mediaType, encoding, filename string) (*Message, error) {
	p, err := NewPartWithType(content, mediaType, encoding)
	if err != nil {
		return nil, err
	}

	disp, err := header.NewWithParams(
		header.ContentDisposition,
		"attachment",
		param.New(param.Filename, grammar.Quote(filename)),
	)
	if err != nil {
		panic(err)
	}

	p, err = p.WithHeader(disp)
	if err != nil {
		panic(err)
	}

	return m.WithPart(p), nil
}
