package message_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bead-go/email/header"
	"github.com/bead-go/email/header/param"
	"github.com/bead-go/email/message"
)

func TestNewSeedsRequiredHeaders(t *testing.T) {
	t.Parallel()

	m := message.New()
	assert.Equal(t, "text/plain",
		m.Headers().FirstNamed(header.ContentType).Value())
	assert.Equal(t, "quoted-printable",
		m.Headers().FirstNamed(header.ContentTransferEncoding).Value())
	assert.Empty(t, m.To())
	assert.Equal(t, "", m.Subject())
	assert.Nil(t, m.Body())
}

func TestNewMessageConvenience(t *testing.T) {
	t.Parallel()

	m := message.NewMessage("a@example.com", "Hi", "hello", "me@example.com")
	assert.Equal(t, []string{"a@example.com"}, m.To())
	assert.Equal(t, "Hi", m.Subject())
	assert.Equal(t, []byte("hello"), m.Body())
	assert.Equal(t, "me@example.com", m.From())

	// empty arguments are skipped
	m = message.NewMessage("", "Hi", "", "")
	assert.Empty(t, m.To())
	assert.Equal(t, "", m.From())
	assert.Nil(t, m.Body())
}

func TestRecipientsAccumulate(t *testing.T) {
	t.Parallel()

	m := message.New().
		WithTo("a@example.com").
		WithTo("b@example.com", "c@example.com").
		WithCc("d@example.com").
		WithBcc("e@example.com")

	assert.Equal(t,
		[]string{"a@example.com", "b@example.com", "c@example.com"},
		m.To())
	assert.Equal(t, []string{"d@example.com"}, m.Cc())
	assert.Equal(t, []string{"e@example.com"}, m.Bcc())
}

func TestFromAndSubjectReplace(t *testing.T) {
	t.Parallel()

	m := message.New().
		WithFrom("one@example.com").
		WithFrom("two@example.com").
		WithSubject("first").
		WithSubject("second")

	assert.Equal(t, "two@example.com", m.From())
	assert.Equal(t, "second", m.Subject())
	assert.Len(t, m.Headers().AllNamed(header.From), 1)
	assert.Len(t, m.Headers().AllNamed(header.Subject), 1)
}

func TestBodyPartExclusivity(t *testing.T) {
	t.Parallel()

	m := message.New().WithBody([]byte("hi"))
	assert.Equal(t, []byte("hi"), m.Body())

	m2 := m.WithPart(message.NewPart([]byte("part1")))
	assert.Nil(t, m2.Body(), "parts win over a previously set body")
	assert.Equal(t, 1, m2.PartCount())

	// the original derivation is untouched
	assert.Equal(t, []byte("hi"), m.Body())
	assert.Equal(t, 0, m.PartCount())

	// setting a body clears the parts again
	m3 := m2.WithBody([]byte("flat again"))
	assert.Equal(t, []byte("flat again"), m3.Body())
	assert.Equal(t, 0, m3.PartCount())

	// nil clears the body
	m4 := m3.WithBody(nil)
	assert.Nil(t, m4.Body())
}

func TestWithPartUpgradesContentType(t *testing.T) {
	t.Parallel()

	m := message.New().WithPart(message.NewPart([]byte("one")))

	ct := m.Headers().FirstNamed(header.ContentType)
	require.NotNil(t, ct)
	assert.Equal(t, "multipart/mixed", ct.Value())
	assert.Equal(t, m.Boundary(), ct.Parameter(param.Boundary))
	assert.Len(t, m.Headers().AllNamed(header.ContentType), 1)
}

func TestWithContentType(t *testing.T) {
	t.Parallel()

	m, err := message.New().WithContentType("text/html",
		param.New(param.Charset, "utf-8"))
	require.NoError(t, err)

	ct := m.Headers().FirstNamed(header.ContentType)
	assert.Equal(t, "text/html", ct.Value())
	assert.Equal(t, "utf-8", ct.Parameter(param.Charset))

	_, err = m.WithContentType("garbage", nil)
	assert.ErrorIs(t, err, message.ErrInvalidContentType)

	m2, err := m.WithContentTransferEncoding("base64", nil)
	require.NoError(t, err)
	assert.Equal(t, "base64",
		m2.Headers().FirstNamed(header.ContentTransferEncoding).Value())

	_, err = m.WithContentTransferEncoding("bogus encoding", nil)
	assert.ErrorIs(t, err, message.ErrInvalidContentEncoding)
}

func TestWithAttachment(t *testing.T) {
	t.Parallel()

	m, err := message.New().WithAttachment(
		[]byte("%PDF-1.4"), "application/pdf", "base64", `report "final".pdf`)
	require.NoError(t, err)
	require.Equal(t, 1, m.PartCount())

	p := m.Parts()[0]
	assert.Equal(t, "application/pdf", p.ContentType())
	assert.Equal(t, "base64", p.ContentEncoding())

	disp := p.Headers().FirstNamed(header.ContentDisposition)
	require.NotNil(t, disp)
	assert.Equal(t, "attachment", disp.Value())
	assert.Equal(t, `"report \"final\".pdf"`, disp.Parameter(param.Filename))

	_, err = message.New().WithAttachment(nil, "junk", "base64", "x.bin")
	assert.ErrorIs(t, err, message.ErrInvalidContentType)
}

func TestWithDate(t *testing.T) {
	t.Parallel()

	when := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	m := message.New().WithDate(when)

	d := m.Headers().FirstNamed(header.Date)
	require.NotNil(t, d)
	assert.Equal(t, when.Format(time.RFC1123Z), d.Value())

	got, err := m.Date()
	require.NoError(t, err)
	assert.True(t, when.Equal(got))

	_, err = message.New().Date()
	assert.Error(t, err)
}

func TestMessageGenericHeaders(t *testing.T) {
	t.Parallel()

	m, err := message.New().WithHeaderNamed("X-Mailer", "bead")
	require.NoError(t, err)
	assert.Equal(t, "bead", m.Headers().FirstNamed("x-mailer").Value())

	// redirected to the replace-single path
	m2, err := m.WithHeaderNamed("content-type", "text/html")
	require.NoError(t, err)
	assert.Len(t, m2.Headers().AllNamed(header.ContentType), 1)

	_, err = m.WithHeaderNamed("no good", "v")
	assert.ErrorIs(t, err, header.ErrInvalidName)
}
