// Package mime serializes messages into wire-correct MIME 1.0
// documents.
//
// The Builder is the serializer: given a message (or any entity), it
// validates the required headers, renders the header block in
// insertion order, and walks the part tree recursively to emit
// multipart bodies with correct boundary framing. Boundaries claimed by
// enclosing containers are tracked per render call, so a nested part
// that reuses an ancestor's boundary is rejected before it can corrupt
// the frame.
//
// Rendering is all-or-nothing. The structural checks run before any
// output is assembled, and a failure at any depth aborts the whole
// render; callers receive either a complete document or one error from
// the package's taxonomy.
package mime
