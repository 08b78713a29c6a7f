// Package email builds and serializes MIME email messages. It is a
// construction engine only: it models headers, body parts, and multipart
// messages as immutable values and renders them into a wire-correct MIME
// 1.0 document. It does not speak SMTP, it does not validate mailbox
// syntax, and it does not transcode character sets. Content bytes pass
// through unmodified; delivering the rendered document is the job of an
// external transport.
//
// The code is split according to part of message. The grammar package
// holds the RFC 822/2045 character-class predicates everything else
// validates against. The header package provides the Header value object
// and the ordered Collection both parts and messages store their fields
// in. The message package models body parts (message.Part) and whole
// messages (message.Message), including nested multipart containers and
// boundary generation. The mime package renders any of these into the
// final document via mime.Builder, validating the structure before a
// single byte is produced.
//
// All model types use derivation semantics: every With* method returns a
// new value and leaves the receiver untouched. A half-built message can
// therefore be shared, branched, and rendered concurrently without
// aliasing surprises.
//
// A minimal single-part message:
//
//	msg := message.New().
//	    WithTo("dest@example.com").
//	    WithSubject("Hi")
//	msg = msg.WithBody([]byte("hello"))
//
//	b, err := mime.NewBuilder()
//	if err != nil {
//	    panic(err)
//	}
//
//	doc, err := b.MIME(msg)
//	if err != nil {
//	    panic(err)
//	}
//	os.Stdout.Write(doc)
//
// For handing the result to a transport, the envelope package pairs the
// rendered document with the recipient addr-specs pulled from the To, Cc,
// and Bcc headers.
package email
