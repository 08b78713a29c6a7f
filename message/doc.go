// Package message models the entities a MIME document is built from.
//
// A Part is a single body part: a header collection plus opaque content
// bytes. Every Part carries exactly one Content-type and one
// Content-transfer-encoding header from the moment it is constructed;
// those two can be replaced but never removed or duplicated. A Part
// becomes a multipart container when sub-parts are added to it.
//
// A Message is a Part-like entity specialized with the recipient
// fields. It holds either a flat byte body or a list of parts, never
// both: adding a part hides the flat body, and setting a body clears
// the parts.
//
// Multipart containers own a boundary string, generated lazily on first
// access and framed so that collision with real content is
// astronomically unlikely. Adding a part upgrades the container's
// Content-type to a multipart type carrying that boundary as a
// parameter, which is where the serializer reads it from.
//
// All types here follow derivation semantics: With* methods return new
// values, making it safe to branch a half-built message or render the
// same message from several goroutines. Content bytes are passed
// through untouched; applying transfer encodings is out of scope for
// this package.
package message
