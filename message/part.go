package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bead-go/email/grammar"
	"github.com/bead-go/email/header"
	"github.com/bead-go/email/header/param"
)

// Errors returned when constructing or deriving parts and messages.
var (
	// ErrInvalidContentType is returned when a media type fails the RFC
	// 2045 media-type grammar.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidContentEncoding is returned when a transfer encoding
	// fails the RFC 2045 content-transfer-encoding grammar.
	ErrInvalidContentEncoding = errors.New("invalid content transfer encoding")
)

// Defaults installed on every newly constructed part and message.
const (
	// DefaultContentType is the Content-type a part carries when none is
	// given.
	DefaultContentType = "text/plain"

	// DefaultContentEncoding is the Content-transfer-encoding a part
	// carries when none is given.
	DefaultContentEncoding = "quoted-printable"

	// DefaultMultipartContentType is the Content-type a container is
	// upgraded to when a part is added while a non-multipart type is
	// set.
	DefaultMultipartContentType = "multipart/mixed"
)

// Entity is the common surface of *Part and *Message consumed by the
// serializer. An entity always has a header collection, and either flat
// content or nested parts. When IsMultipart returns true, the nested
// parts are the body and Content must be ignored.
type Entity interface {
	// Headers returns the entity's header collection.
	Headers() *header.Collection

	// Content returns the flat body content, or nil when the entity is
	// multipart or has no body.
	Content() []byte

	// Parts returns the nested parts, or nil when there are none.
	Parts() []*Part

	// IsMultipart reports whether the entity has at least one nested
	// part.
	IsMultipart() bool
}

// Part is a single MIME body part: a header collection plus opaque
// content bytes. A Part is guaranteed to carry exactly one Content-type
// and one Content-transfer-encoding header from the moment it is
// constructed; they can be replaced, never removed.
//
// A Part may itself be a multipart container when sub-parts are added
// to it with WithPart. Nested parts take precedence over flat content
// at serialization time.
//
// Like the other model types, a Part is derived, not mutated: each
// With* method returns a new Part.
type Part struct {
	headers *header.Collection
	content []byte
	parts   []*Part

	// boundary is memoized on first access, then stable
	boundary string
}

// mustSet wraps Collection.WithSetNamed for the fixed header names this
// package installs itself. The names are package constants that always
// satisfy the grammar, so an error here is a programming mistake.
func mustSet(c *header.Collection, name, value string, ps *param.List) *header.Collection {
	nc, err := c.WithSetNamed(name, value, ps)
	if err != nil {
		panic(err)
	}
	return nc
}

// NewPart constructs a part holding the given content with the default
// Content-type (text/plain) and Content-transfer-encoding
// (quoted-printable).
func NewPart(content []byte) *Part {
	p, err := NewPartWithType(content, DefaultContentType, DefaultContentEncoding)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPartWithType constructs a part holding the given content, media
// type, and transfer encoding. Both headers are installed immediately;
// a part can never be observed without them. It fails with
// ErrInvalidContentType or ErrInvalidContentEncoding if either value
// fails its grammar.
func NewPartWithType(content []byte, mediaType, encoding string) (*Part, error) {
	if !grammar.IsMediaType(mediaType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, mediaType)
	}
	if !grammar.IsTransferEncoding(encoding) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentEncoding, encoding)
	}

	hs := header.NewCollection()
	hs = mustSet(hs, header.ContentType, mediaType, nil)
	hs = mustSet(hs, header.ContentTransferEncoding, encoding, nil)

	return &Part{
		headers: hs,
		content: content,
	}, nil
}

// clone returns a shallow copy for the derivation methods to adjust.
// Header and sub-part values are immutable, so sharing them is safe.
func (p *Part) clone() *Part {
	np := &Part{
		headers:  p.headers,
		content:  p.content,
		boundary: p.boundary,
	}
	if p.parts != nil {
		np.parts = make([]*Part, len(p.parts))
		copy(np.parts, p.parts)
	}
	return np
}

// Headers returns the part's header collection.
func (p *Part) Headers() *header.Collection {
	return p.headers
}

// Content returns the flat content bytes, or nil when the part is a
// multipart container.
func (p *Part) Content() []byte {
	if p.IsMultipart() {
		return nil
	}
	return p.content
}

// WithContent returns a part carrying the given content bytes. The
// bytes are opaque to this package; no transformation is applied.
func (p *Part) WithContent(content []byte) *Part {
	np := p.clone()
	np.content = content
	return np
}

// ContentType returns the part's media type. It panics if the
// Content-type header is missing, which is unreachable through this
// package's API.
func (p *Part) ContentType() string {
	ct := p.headers.FirstNamed(header.ContentType)
	if ct == nil {
		panic("part has no Content-type header")
	}
	return ct.Value()
}

// ContentEncoding returns the part's transfer encoding. It panics if
// the Content-transfer-encoding header is missing, which is unreachable
// through this package's API.
func (p *Part) ContentEncoding() string {
	ce := p.headers.FirstNamed(header.ContentTransferEncoding)
	if ce == nil {
		panic("part has no Content-transfer-encoding header")
	}
	return ce.Value()
}

// WithContentType returns a part whose single Content-type header is
// replaced with the given media type, dropping any parameters the old
// header carried. It fails with ErrInvalidContentType if the media type
// fails its grammar.
func (p *Part) WithContentType(mediaType string) (*Part, error) {
	return p.WithContentTypeParams(mediaType, nil)
}

// WithContentTypeParams returns a part whose single Content-type header
// is replaced with the given media type and parameters.
func (p *Part) WithContentTypeParams(mediaType string, ps *param.List) (*Part, error) {
	if !grammar.IsMediaType(mediaType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, mediaType)
	}

	np := p.clone()
	np.headers = mustSet(np.headers, header.ContentType, mediaType, ps)
	return np, nil
}

// WithContentEncoding returns a part whose single
// Content-transfer-encoding header is replaced with the given encoding.
// It fails with ErrInvalidContentEncoding if the encoding fails its
// grammar.
func (p *Part) WithContentEncoding(encoding string) (*Part, error) {
	if !grammar.IsTransferEncoding(encoding) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentEncoding, encoding)
	}

	np := p.clone()
	np.headers = mustSet(np.headers, header.ContentTransferEncoding, encoding, nil)
	return np, nil
}

// WithHeader returns a part with the given header appended. Headers
// named Content-type or Content-transfer-encoding are redirected
// through the type-safe replace methods instead, preserving the
// single-instance invariant for those two fields.
func (p *Part) WithHeader(h *header.Header) (*Part, error) {
	switch {
	case h.Is(header.ContentType):
		return p.WithContentTypeParams(h.Value(), h.Parameters())
	case h.Is(header.ContentTransferEncoding):
		if !grammar.IsTransferEncoding(h.Value()) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidContentEncoding, h.Value())
		}
		np := p.clone()
		np.headers = mustSet(np.headers, header.ContentTransferEncoding, h.Value(), h.Parameters())
		return np, nil
	}

	np := p.clone()
	np.headers = np.headers.WithHeader(h)
	return np, nil
}

// WithHeaderNamed constructs a header from the name and value and
// appends it via WithHeader.
func (p *Part) WithHeaderNamed(name, value string) (*Part, error) {
	h, err := header.New(name, value)
	if err != nil {
		return nil, err
	}
	return p.WithHeader(h)
}

// WithoutHeader returns a part with every exact match of h removed, per
// header matching rules. Content-type and Content-transfer-encoding
// survive removal attempts; they can only be replaced.
func (p *Part) WithoutHeader(h *header.Header) *Part {
	if h.Is(header.ContentType) || h.Is(header.ContentTransferEncoding) {
		return p.clone()
	}
	np := p.clone()
	np.headers = np.headers.WithoutHeader(h)
	return np
}

// Parts returns the nested sub-parts, or nil when the part is flat.
func (p *Part) Parts() []*Part {
	if p.parts == nil {
		return nil
	}
	ps := make([]*Part, len(p.parts))
	copy(ps, p.parts)
	return ps
}

// PartCount returns the number of nested sub-parts.
func (p *Part) PartCount() int {
	return len(p.parts)
}

// IsMultipart reports whether the part holds nested sub-parts.
func (p *Part) IsMultipart() bool {
	return len(p.parts) > 0
}

// Boundary returns the part's multipart boundary, generating and
// memoizing one on first access. Once generated, the boundary is stable
// for the lifetime of the container and its derivations.
func (p *Part) Boundary() string {
	if p.boundary == "" {
		p.boundary = GenerateBoundary()
	}
	return p.boundary
}

// WithPart returns a part with sub appended to the end of its nested
// parts. If the part's Content-type is not yet a multipart type it is
// upgraded to multipart/mixed, and a boundary parameter carrying the
// container boundary is attached unless one is already present.
func (p *Part) WithPart(sub *Part) *Part {
	np := p.clone()
	np.parts = append(np.parts, sub)
	np.headers = multipartHeaders(np.headers, np.Boundary())
	return np
}

// multipartHeaders rewrites the Content-type header of a container that
// has just received a part: a non-multipart media type becomes
// multipart/mixed, other parameters are preserved, and a boundary
// parameter is attached if absent or empty.
func multipartHeaders(hs *header.Collection, boundary string) *header.Collection {
	mt := DefaultMultipartContentType
	var ps *param.List

	if ct := hs.FirstNamed(header.ContentType); ct != nil {
		ps = ct.Parameters()
		if strings.HasPrefix(ct.Value(), "multipart/") {
			mt = ct.Value()
		}
	}

	if ps == nil {
		ps = param.New()
	}
	if b, _ := ps.Get(param.Boundary); b == "" {
		ps.Set(param.Boundary, boundary)
	}

	return mustSet(hs, header.ContentType, mt, ps)
}
