package header

// Break represents the line ending used when serializing a message.
type Break string

// Line endings a builder may be configured with. RFC 822 requires CRLF
// on the wire; LF is offered for compatibility with legacy MTAs that
// choke on carriage returns.
const (
	CRLF Break = "\x0d\x0a" // \r\n - network linebreak
	LF   Break = "\x0a"     // \n - Unix linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
