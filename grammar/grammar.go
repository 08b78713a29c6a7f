// Package grammar provides the RFC 822 and RFC 2045 character-class
// predicates used to validate header names, tokens, media types, and
// content transfer encodings, plus quoted-string quoting helpers. All
// functions here are pure: they inspect a string and report whether it
// fits the grammar. Translating a false result into an error is the
// caller's job.
package grammar

import "strings"

// tspecials is the set of characters RFC 2045 excludes from tokens. RFC
// 822 excludes the same set (plus controls and space) from header field
// names, so one table serves both grammars.
const tspecials = "()<>@,;:\\\"/[]?="

// Content transfer encodings defined by RFC 2045. Anything else must be
// an extension token with an "x-" prefix.
var standardEncodings = []string{
	"7bit",
	"8bit",
	"binary",
	"quoted-printable",
	"base64",
}

// isTokenChar reports whether c may appear in an RFC 2045 token or an
// RFC 822 field name: printable US-ASCII excluding space and tspecials.
func isTokenChar(c byte) bool {
	if c <= 32 || c >= 127 {
		return false
	}
	return strings.IndexByte(tspecials, c) < 0
}

// IsValidHeaderName reports whether s is a valid RFC 822 header field
// name. A field name is one or more printable US-ASCII characters,
// excluding controls, space, and the specials ()<>@,;:\"/[]?=.
func IsValidHeaderName(s string) bool {
	return IsToken(s)
}

// IsToken reports whether s is a valid RFC 2045 token: one or more
// characters from the token character class.
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// IsQuotedString reports whether s is a valid RFC 822 quoted-string: a
// double-quoted run of US-ASCII characters in which backslash escapes
// the following character and bare ", \, CR, and LF may not appear.
func IsQuotedString(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}

	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 128 {
			return false
		}
		if c == '\\' {
			i++
			if i >= len(body) || body[i] >= 128 {
				return false
			}
			continue
		}
		if c == '"' || c == '\r' || c == '\n' {
			return false
		}
	}
	return true
}

// isLowerAlpha reports whether s consists of one or more lowercase
// letters.
func isLowerAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// isExtensionToken reports whether s is an x-token: a case-insensitive
// "x-" prefix followed by a token.
func isExtensionToken(s string) bool {
	if len(s) > 2 && (s[0] == 'x' || s[0] == 'X') && s[1] == '-' {
		return IsToken(s[2:])
	}
	return false
}

// IsMediaType reports whether s is an acceptable media type for a
// Content-type header: the wildcard */*, or type/subtype optionally
// followed by ; name=value parameters. The type must be all lowercase
// letters or an extension token, the subtype must be a token, parameter
// names must be tokens, and parameter values must be tokens or
// quoted-strings. Registered IANA types are not enumerated; any
// all-lowercase type is accepted.
func IsMediaType(s string) bool {
	mt := s
	var params string
	if ix := strings.IndexByte(s, ';'); ix >= 0 {
		mt, params = s[:ix], s[ix+1:]
	}

	mt = strings.TrimSpace(mt)
	if mt != "*/*" {
		slash := strings.IndexByte(mt, '/')
		if slash < 0 {
			return false
		}

		typ, sub := mt[:slash], mt[slash+1:]
		if !isLowerAlpha(typ) && !isExtensionToken(typ) {
			return false
		}
		if !IsToken(sub) {
			return false
		}
	}

	for params != "" {
		var p string
		if ix := strings.IndexByte(params, ';'); ix >= 0 {
			p, params = params[:ix], params[ix+1:]
		} else {
			p, params = params, ""
		}

		p = strings.TrimSpace(p)
		eq := strings.IndexByte(p, '=')
		if eq < 0 {
			return false
		}

		name, value := p[:eq], p[eq+1:]
		if !IsToken(name) {
			return false
		}
		if !IsToken(value) && !IsQuotedString(value) {
			return false
		}
	}

	return true
}

// IsTransferEncoding reports whether s is an acceptable
// Content-transfer-encoding value: one of the RFC 2045 standard
// encodings (case-insensitive) or an extension encoding of the form
// x-token (the "x-" prefix is also case-insensitive).
func IsTransferEncoding(s string) bool {
	ls := strings.ToLower(s)
	for _, enc := range standardEncodings {
		if ls == enc {
			return true
		}
	}
	if strings.HasPrefix(ls, "x-") {
		return IsToken(s[2:])
	}
	return false
}

// Quote wraps s in double quotes, escaping any backslash or double
// quote characters with a backslash. The result is a valid
// quoted-string for any US-ASCII input.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// Unquote reverses Quote. If s is surrounded by double quotes, they are
// stripped and every backslash escape is reduced to the escaped
// character. A string without surrounding quotes is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}

	body := s[1 : len(s)-1]
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}
