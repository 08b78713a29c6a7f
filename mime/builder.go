package mime

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bead-go/email/grammar"
	"github.com/bead-go/email/header"
	"github.com/bead-go/email/header/param"
	"github.com/bead-go/email/message"
)

// Version10 is the only MIME version this builder can produce.
const Version10 = "1.0"

// Errors returned by the builder's structural checks and render
// methods. Every one of these is terminal for the render that raised
// it: the builder produces either a complete document or an error,
// never partial output.
var (
	// ErrUnsupportedVersion is returned by NewBuilder when configured
	// with a MIME version other than "1.0".
	ErrUnsupportedVersion = errors.New("unsupported MIME version")

	// ErrMissingContentType is returned when an entity has no
	// Content-type header at render time.
	ErrMissingContentType = errors.New("missing Content-type header")

	// ErrMissingContentTransferEncoding is returned when an entity has
	// no Content-transfer-encoding header at render time.
	ErrMissingContentTransferEncoding = errors.New("missing Content-transfer-encoding header")

	// ErrMissingMultipartContentType is returned when an entity holds
	// nested parts but its Content-type is not a multipart type.
	ErrMissingMultipartContentType = errors.New("multipart content requires a multipart/* Content-type")

	// ErrMissingBoundary is returned when a multipart entity's
	// Content-type carries no non-empty boundary parameter.
	ErrMissingBoundary = errors.New("multipart Content-type has no boundary parameter")

	// ErrNoRecipients is returned when a message has no To, Cc, or Bcc
	// header at all.
	ErrNoRecipients = errors.New("message has no recipients")

	// ErrEmptyBody is returned when an entity has neither nested parts
	// nor flat body content.
	ErrEmptyBody = errors.New("message has no body")

	// ErrDuplicateBoundary is returned when a nested part declares a
	// boundary already claimed by an enclosing container in the same
	// render, which would corrupt the multipart framing.
	ErrDuplicateBoundary = errors.New("duplicate multipart boundary")
)

// Option configures a Builder under construction.
type Option func(*Builder)

// WithVersion selects the MIME version to stamp on rendered messages.
// Only "1.0" is accepted; NewBuilder fails for anything else.
func WithVersion(v string) Option {
	return func(b *Builder) {
		b.version = v
	}
}

// WithBreak selects the line ending used between header lines and
// around multipart delimiters. The default is header.CRLF, as RFC 822
// requires on the wire; header.LF is available for legacy-MTA
// compatibility.
func WithBreak(lbr header.Break) Option {
	return func(b *Builder) {
		b.lbr = lbr
	}
}

// Builder renders messages and parts into MIME documents. It validates
// the structure of the entity tree before emitting anything, walks
// nested multipart containers recursively, and guards against boundary
// reuse between nesting levels.
//
// A Builder carries only its configuration; render state is scoped to
// each call, so a single Builder may be shared between goroutines
// rendering different messages.
type Builder struct {
	version string
	lbr     header.Break
}

// NewBuilder constructs a Builder. Without options it produces MIME 1.0
// documents with CRLF line endings. It fails with
// ErrUnsupportedVersion if WithVersion selects anything but "1.0".
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		version: Version10,
		lbr:     header.CRLF,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.version != Version10 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, b.version)
	}
	return b, nil
}

// Version returns the MIME version the builder stamps on messages.
func (b *Builder) Version() string {
	return b.version
}

// Break returns the configured line ending.
func (b *Builder) Break() header.Break {
	return b.lbr
}

// declaredBoundary extracts the boundary parameter from an entity's
// Content-type header, stripping surrounding quotes and unescaping if
// the value was quoted.
func declaredBoundary(e message.Entity) string {
	ct := e.Headers().FirstNamed(header.ContentType)
	if ct == nil {
		return ""
	}
	return grammar.Unquote(ct.Parameter(param.Boundary))
}

// CheckHeaders validates the header block of an entity before
// rendering. Every entity must carry Content-type and
// Content-transfer-encoding headers. A multipart entity must declare a
// multipart/* Content-type with a non-empty boundary parameter. A
// message must additionally have at least one recipient across To, Cc,
// and Bcc.
func (b *Builder) CheckHeaders(e message.Entity) error {
	hs := e.Headers()

	ct := hs.FirstNamed(header.ContentType)
	if ct == nil {
		return ErrMissingContentType
	}
	if hs.FirstNamed(header.ContentTransferEncoding) == nil {
		return ErrMissingContentTransferEncoding
	}

	if e.IsMultipart() {
		if !strings.HasPrefix(ct.Value(), "multipart/") {
			return fmt.Errorf("%w: got %q", ErrMissingMultipartContentType, ct.Value())
		}
		if declaredBoundary(e) == "" {
			return ErrMissingBoundary
		}
	}

	if m, isMessage := e.(*message.Message); isMessage {
		if len(m.To())+len(m.Cc())+len(m.Bcc()) == 0 {
			return ErrNoRecipients
		}
	}

	return nil
}

// CheckBody validates that an entity has a body to render: at least one
// nested part or non-nil flat content.
func (b *Builder) CheckBody(e message.Entity) error {
	if !e.IsMultipart() && e.Content() == nil {
		return ErrEmptyBody
	}
	return nil
}

// Headers renders the entity's header block: every header's line plus
// the configured line ending, in collection order. When the entity is a
// message, exactly one Mime-version header is emitted, inserted or
// overwritten to the builder's version; this is the one place the
// builder adjusts the header set rather than just reading it.
func (b *Builder) Headers(e message.Entity) []byte {
	hs := e.Headers()
	if _, isMessage := e.(*message.Message); isMessage {
		var err error
		hs, err = hs.WithSetNamed(header.MimeVersion, b.version, nil)
		if err != nil {
			panic(err)
		}
	}

	buf := &bytes.Buffer{}
	for _, h := range hs.Values() {
		buf.WriteString(h.Line())
		buf.WriteString(b.lbr.String())
	}
	return buf.Bytes()
}

// Body renders the entity's body. For a flat entity this is the content
// unchanged. For a multipart entity each part is framed between
// boundary delimiters and rendered recursively, with the set of
// boundaries claimed by enclosing levels threaded through the recursion
// so that a nested container reusing an ancestor's boundary fails with
// ErrDuplicateBoundary. The tracking state is scoped to this call; it
// cannot leak into a later render or another goroutine's render.
//
// Validation failures anywhere in the tree abort the whole render with
// no partial output.
func (b *Builder) Body(e message.Entity) ([]byte, error) {
	return b.body(e, map[string]struct{}{})
}

func (b *Builder) body(e message.Entity, seen map[string]struct{}) ([]byte, error) {
	if err := b.CheckHeaders(e); err != nil {
		return nil, err
	}
	if err := b.CheckBody(e); err != nil {
		return nil, err
	}

	if !e.IsMultipart() {
		return e.Content(), nil
	}

	boundary := declaredBoundary(e)
	if _, claimed := seen[boundary]; claimed {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateBoundary, boundary)
	}
	seen[boundary] = struct{}{}

	br := b.lbr.String()
	buf := &bytes.Buffer{}
	for _, p := range e.Parts() {
		content, err := b.body(p, seen)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(buf, "%s--%s%s", br, boundary, br)
		buf.Write(b.Headers(p))
		buf.WriteString(br)
		buf.Write(content)
		buf.WriteString(br)
	}
	fmt.Fprintf(buf, "--%s--", boundary)

	return buf.Bytes(), nil
}

// MIME renders a complete document: the message's header block, a
// blank line, and the body. This is the single entry point external
// callers need. Any validation failure anywhere in the part tree aborts
// the render and surfaces here with no output produced.
func (b *Builder) MIME(m *message.Message) ([]byte, error) {
	body, err := b.Body(m)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	buf.Write(b.Headers(m))
	buf.WriteString(b.lbr.String())
	buf.Write(body)
	return buf.Bytes(), nil
}
