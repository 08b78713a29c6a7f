// Package header provides the Header value object and the ordered
// Collection that message parts and messages store their fields in.
//
// A Header is immutable: every With* method derives a new Header and
// the original is unchanged. Its name is validated against the RFC 822
// field-name grammar on construction, so an invalid name is
// unrepresentable. Parameters (as used by Content-type and
// Content-disposition) keep their insertion order, which is the order
// they appear in on the wire.
//
// A Collection is likewise derived rather than mutated. It preserves
// insertion order, permits repeated names (multiple To fields are legal
// and meaningful), looks fields up case-insensitively, and provides a
// replace-single primitive for the fields that must only occur once.
package header
