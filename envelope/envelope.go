// Package envelope is the boundary between the construction engine and
// whatever transport actually delivers mail. It pairs a rendered MIME
// document with the transport-level facts a sender needs: the recipient
// addr-specs collected from the To, Cc, and Bcc headers, and the
// subject.
//
// Address handling here is extraction, not validation. The strict
// parser is tried first for accurate results; when a header body is too
// mangled for it, an extremely lenient fallback recovers something
// usable rather than failing, so a sloppy display name never blocks a
// send.
package envelope

import (
	"strings"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/bead-go/email/header"
	"github.com/bead-go/email/message"
	"github.com/bead-go/email/mime"
)

// Sender is the transport collaborator interface. Implementations are
// external to this module; they receive the envelope facts plus the
// complete document and own the transport-level dialogue.
type Sender interface {
	Send(recipients []string, subject string, document []byte) error
}

// Envelope carries everything a Sender needs for one message.
type Envelope struct {
	// Recipients are the deduplicated addr-specs from the To, Cc, and
	// Bcc headers, in header order.
	Recipients []string

	// Subject is the message subject, possibly empty.
	Subject string

	// Document is the rendered MIME document.
	Document []byte
}

// Build renders the message with the given builder and collects the
// envelope facts. It fails with the builder's error if the message does
// not render.
func Build(b *mime.Builder, m *message.Message) (*Envelope, error) {
	doc, err := b.MIME(m)
	if err != nil {
		return nil, err
	}

	hs := m.Headers()
	rcpts := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, name := range []string{header.To, header.Cc, header.Bcc} {
		for _, h := range hs.AllNamed(name) {
			for _, a := range Addresses(h.Value()) {
				if _, dup := seen[a]; dup {
					continue
				}
				seen[a] = struct{}{}
				rcpts = append(rcpts, a)
			}
		}
	}

	return &Envelope{
		Recipients: rcpts,
		Subject:    m.Subject(),
		Document:   doc,
	}, nil
}

// Send renders the message and hands it to the given Sender.
func Send(s Sender, b *mime.Builder, m *message.Message) error {
	env, err := Build(b, m)
	if err != nil {
		return err
	}
	return s.Send(env.Recipients, env.Subject, env.Document)
}

// Addresses extracts the bare addr-specs from an address header body.
// A strict parse is attempted first; on failure the lenient fallback is
// used, which always returns something for non-empty input.
func Addresses(body string) []string {
	al, err := addr.ParseEmailAddressList(body)
	if err == nil {
		specs := make([]string, 0, len(al))
		for _, a := range al {
			if s := a.Address(); s != "" {
				specs = append(specs, s)
			}
		}
		return specs
	}

	return lenientAddresses(body)
}

// lenientAddresses is the fallback address extraction, used when the
// strict parser gives up. The Internet being what it is, address
// fields sometimes hold things no grammar admits; this recovers
// something useful anyway (strict out/liberal in). It works as
// follows: split on commas, strip (comments), and treat the last
// whitespace-separated word of each piece as the address, shedding any
// angle brackets.
func lenientAddresses(body string) []string {
	stripComments := func(s string) string {
		var clean strings.Builder
		nestLevel := 0
		for _, c := range s {
			switch {
			case c == '(':
				nestLevel++
			case c == ')':
				if nestLevel > 0 {
					nestLevel--
				} else {
					clean.WriteRune(c)
				}
			case nestLevel == 0:
				clean.WriteRune(c)
			}
		}
		return clean.String()
	}

	pieces := strings.Split(body, ",")
	specs := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		words := strings.Fields(stripComments(piece))
		if len(words) == 0 {
			continue
		}

		spec := words[len(words)-1]
		spec = strings.TrimPrefix(spec, "<")
		spec = strings.TrimSuffix(spec, ">")
		if spec != "" {
			specs = append(specs, spec)
		}
	}
	return specs
}
