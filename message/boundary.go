package message

import (
	"math/rand"
	"strings"
)

// Multipart boundaries are framed with a fixed prefix and suffix around
// a run of random characters. The framing makes a generated boundary
// visually distinct in a document and a collision with naturally
// occurring content astronomically unlikely without needing
// cryptographic randomness.
const (
	boundaryPrefix    = "--bead-email-part-"
	boundarySuffix    = "--"
	boundaryRandomLen = 40
)

var boundaryLetters = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateBoundary will generate a random MIME boundary that is
// probably unique in most circumstances.
func GenerateBoundary() string {
	var sb strings.Builder
	sb.Grow(len(boundaryPrefix) + boundaryRandomLen + len(boundarySuffix))
	sb.WriteString(boundaryPrefix)
	for i := 0; i < boundaryRandomLen; i++ {
		sb.WriteRune(boundaryLetters[rand.Intn(len(boundaryLetters))])
	}
	sb.WriteString(boundarySuffix)
	return sb.String()
}

// GenerateSafeBoundary will generate a random MIME boundary that is
// guaranteed not to occur in the given corpus of data. Use this when
// you want to generate a boundary for a known set of parts. Using this
// is likely to be total overkill, but in case you're paranoid.
func GenerateSafeBoundary(contents string) string {
	for {
		boundary := GenerateBoundary()
		if !strings.Contains(contents, boundary) {
			return boundary
		}
	}
}
