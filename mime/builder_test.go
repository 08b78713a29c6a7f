package mime_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bead-go/email/header"
	"github.com/bead-go/email/header/param"
	"github.com/bead-go/email/message"
	"github.com/bead-go/email/mime"
)

// stubEntity lets the structural checks be exercised with header sets
// the model types refuse to construct.
type stubEntity struct {
	headers *header.Collection
	content []byte
	parts   []*message.Part
}

func (s *stubEntity) Headers() *header.Collection { return s.headers }
func (s *stubEntity) Content() []byte             { return s.content }
func (s *stubEntity) Parts() []*message.Part      { return s.parts }
func (s *stubEntity) IsMultipart() bool           { return len(s.parts) > 0 }

func newBuilder(t *testing.T, opts ...mime.Option) *mime.Builder {
	t.Helper()
	b, err := mime.NewBuilder(opts...)
	require.NoError(t, err)
	return b
}

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)
	assert.Equal(t, "1.0", b.Version())
	assert.Equal(t, header.CRLF, b.Break())

	b = newBuilder(t, mime.WithVersion("1.0"), mime.WithBreak(header.LF))
	assert.Equal(t, header.LF, b.Break())

	_, err := mime.NewBuilder(mime.WithVersion("2.0"))
	assert.ErrorIs(t, err, mime.ErrUnsupportedVersion)
}

func TestMIMESimpleMessage(t *testing.T) {
	t.Parallel()

	m := message.New().
		WithTo("a@example.com").
		WithSubject("Hi").
		WithBody([]byte("hello"))

	doc, err := newBuilder(t, mime.WithBreak(header.LF)).MIME(m)
	require.NoError(t, err)

	const expect = `Content-type: text/plain
Content-transfer-encoding: quoted-printable
To: a@example.com
Subject: Hi
Mime-version: 1.0

hello`
	assert.Equal(t, expect, string(doc))
}

func TestMIMEUsesCRLFByDefault(t *testing.T) {
	t.Parallel()

	m := message.New().
		WithTo("a@example.com").
		WithBody([]byte("hello"))

	doc, err := newBuilder(t).MIME(m)
	require.NoError(t, err)

	s := string(doc)
	assert.True(t, strings.HasPrefix(s,
		"Content-type: text/plain\r\n"))
	assert.True(t, strings.HasSuffix(s, "\r\n\r\nhello"))
	assert.NotContains(t, strings.ReplaceAll(s, "\r\n", ""), "\n")
}

func TestMIMEStampsExactlyOneMimeVersion(t *testing.T) {
	t.Parallel()

	m := message.New().
		WithTo("a@example.com").
		WithBody([]byte("x"))

	// a stale Mime-version is overwritten in place, not duplicated
	m, err := m.WithHeaderNamed("Mime-Version", "0.9")
	require.NoError(t, err)

	doc, err := newBuilder(t, mime.WithBreak(header.LF)).MIME(m)
	require.NoError(t, err)

	assert.Equal(t, 1,
		strings.Count(strings.ToLower(string(doc)), "mime-version:"))
	assert.Contains(t, string(doc), "Mime-version: 1.0")
	assert.NotContains(t, string(doc), "0.9")
}

func TestMIMEMultipart(t *testing.T) {
	t.Parallel()

	m := message.New().
		WithTo("a@example.com").
		WithSubject("Hi")

	m, err := m.WithPartContent([]byte("one"), "text/plain", "7bit")
	require.NoError(t, err)
	m, err = m.WithPartContent([]byte("two"), "text/html", "7bit")
	require.NoError(t, err)
	m, err = m.WithContentType("multipart/alternative",
		param.New(param.Boundary, "testing"))
	require.NoError(t, err)

	doc, err := newBuilder(t, mime.WithBreak(header.LF)).MIME(m)
	require.NoError(t, err)

	const expect = `Content-type: multipart/alternative; boundary=testing
Content-transfer-encoding: quoted-printable
To: a@example.com
Subject: Hi
Mime-version: 1.0


--testing
Content-type: text/plain
Content-transfer-encoding: 7bit

one

--testing
Content-type: text/html
Content-transfer-encoding: 7bit

two
--testing--`
	assert.Equal(t, expect, string(doc))

	// exactly two opening delimiters and one closing delimiter
	assert.Equal(t, 2, strings.Count(string(doc), "\n--testing\n"))
	assert.Equal(t, 1, strings.Count(string(doc), "--testing--"))
}

func TestMIMENestedMultipart(t *testing.T) {
	t.Parallel()

	inner := message.NewPart([]byte("deep"))
	mid := message.NewPart(nil).WithPart(inner)
	mid, err := mid.WithContentTypeParams("multipart/mixed",
		param.New(param.Boundary, "inner-b"))
	require.NoError(t, err)

	m := message.New().
		WithTo("a@example.com").
		WithPart(mid)
	m, err = m.WithContentType("multipart/mixed",
		param.New(param.Boundary, "outer-b"))
	require.NoError(t, err)

	doc, err := newBuilder(t, mime.WithBreak(header.LF)).MIME(m)
	require.NoError(t, err)

	s := string(doc)
	assert.Equal(t, 1, strings.Count(s, "\n--outer-b\n"))
	assert.Equal(t, 1, strings.Count(s, "\n--inner-b\n"))
	assert.Contains(t, s, "--inner-b--")
	assert.Contains(t, s, "--outer-b--")
	assert.Contains(t, s, "deep")

	// inner frame is nested inside the outer frame
	assert.Less(t, strings.Index(s, "--outer-b\n"), strings.Index(s, "--inner-b\n"))
	assert.Less(t, strings.Index(s, "--inner-b--"), strings.Index(s, "--outer-b--"))
}

func TestMIMEQuotedBoundaryParameter(t *testing.T) {
	t.Parallel()

	m := message.New().WithTo("a@example.com")
	m, err := m.WithPartContent([]byte("one"), "text/plain", "7bit")
	require.NoError(t, err)
	m, err = m.WithContentType("multipart/mixed",
		param.New(param.Boundary, `"quoted boundary"`))
	require.NoError(t, err)

	doc, err := newBuilder(t, mime.WithBreak(header.LF)).MIME(m)
	require.NoError(t, err)

	// the delimiter uses the unquoted form
	assert.Contains(t, string(doc), "\n--quoted boundary\n")
	assert.Contains(t, string(doc), "--quoted boundary--")
}

func TestCheckHeadersRecipients(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	m := message.New().WithBody([]byte("x"))
	assert.ErrorIs(t, b.CheckHeaders(m), mime.ErrNoRecipients)

	// any one of To, Cc, or Bcc satisfies the check
	assert.NoError(t, b.CheckHeaders(m.WithTo("a@example.com")))
	assert.NoError(t, b.CheckHeaders(m.WithCc("a@example.com")))
	assert.NoError(t, b.CheckHeaders(m.WithBcc("a@example.com")))
}

func TestCheckHeadersStructure(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	// parts never lose their required headers, so an incomplete header
	// block can only be checked through a hand-rolled entity
	bare := &stubEntity{headers: header.NewCollection(), content: []byte("x")}
	assert.ErrorIs(t, b.CheckHeaders(bare), mime.ErrMissingContentType)

	ct, err := header.New(header.ContentType, "text/plain")
	require.NoError(t, err)
	onlyCT := &stubEntity{headers: header.NewCollection(ct), content: []byte("x")}
	assert.ErrorIs(t, b.CheckHeaders(onlyCT),
		mime.ErrMissingContentTransferEncoding)

	// multipart entity without a multipart Content-type
	m := message.New().WithTo("a@example.com")
	m = m.WithPart(message.NewPart([]byte("one")))
	flat, err := m.WithContentType("text/plain", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, b.CheckHeaders(flat),
		mime.ErrMissingMultipartContentType)

	// multipart Content-type without a boundary parameter
	noBoundary, err := m.WithContentType("multipart/mixed", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, b.CheckHeaders(noBoundary), mime.ErrMissingBoundary)

	// the untouched message passes both checks
	assert.NoError(t, b.CheckHeaders(m))
}

func TestCheckBody(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	m := message.New().WithTo("a@example.com")
	assert.ErrorIs(t, b.CheckBody(m), mime.ErrEmptyBody)
	assert.NoError(t, b.CheckBody(m.WithBody([]byte("x"))))
	assert.NoError(t, b.CheckBody(m.WithPart(message.NewPart([]byte("x")))))

	_, err := newBuilder(t).MIME(m)
	assert.ErrorIs(t, err, mime.ErrEmptyBody)
}

// dupBoundaryMessage builds a message whose nested container reuses the
// outer boundary.
func dupBoundaryMessage(t *testing.T) *message.Message {
	t.Helper()

	inner := message.NewPart([]byte("deep"))
	mid := message.NewPart(nil).WithPart(inner)
	mid, err := mid.WithContentTypeParams("multipart/mixed",
		param.New(param.Boundary, "dup"))
	require.NoError(t, err)

	m := message.New().
		WithTo("a@example.com").
		WithPart(mid)
	m, err = m.WithContentType("multipart/mixed",
		param.New(param.Boundary, "dup"))
	require.NoError(t, err)

	return m
}

func TestDuplicateBoundary(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	_, err := b.MIME(dupBoundaryMessage(t))
	assert.ErrorIs(t, err, mime.ErrDuplicateBoundary)
}

func TestBoundaryTrackingDoesNotLeakBetweenRenders(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	build := func() *message.Message {
		m := message.New().WithTo("a@example.com")
		m, err := m.WithPartContent([]byte("one"), "text/plain", "7bit")
		require.NoError(t, err)
		m, err = m.WithContentType("multipart/mixed",
			param.New(param.Boundary, "shared"))
		require.NoError(t, err)
		return m
	}

	// the same boundary on two independent sequential renders is fine
	_, err := b.MIME(build())
	require.NoError(t, err)
	_, err = b.MIME(build())
	require.NoError(t, err)

	// and a failed render leaves no state behind either
	_, err = b.MIME(dupBoundaryMessage(t))
	require.ErrorIs(t, err, mime.ErrDuplicateBoundary)
	_, err = b.MIME(build())
	assert.NoError(t, err)
}

func TestBuilderIsSafeForConcurrentRenders(t *testing.T) {
	t.Parallel()

	b := newBuilder(t)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			m := message.New().WithTo("a@example.com")
			m, err := m.WithPartContent([]byte("one"), "text/plain", "7bit")
			if err != nil {
				done <- err
				return
			}
			_, err = b.MIME(m)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}

func TestBodyFlatPassThrough(t *testing.T) {
	t.Parallel()

	raw := []byte{0x00, 0xff, 0x7f, 0x0d, 0x0a}
	m := message.New().WithTo("a@example.com").WithBody(raw)

	body, err := newBuilder(t).Body(m)
	require.NoError(t, err)
	assert.Equal(t, raw, body, "content bytes pass through unmodified")
}
