// Package fingerprint computes stable identity keys for issues.
package fingerprint

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/driftline/driftline/pkg/models"
)

// Compute derives a fingerprint from an issue's file path, category, type,
// message, and line span. The absolute line number deliberately does not
// participate: an issue pushed down by an unrelated edit keeps its identity.
func Compute(file, category, issueType, message string, startLine, endLine int) models.Fingerprint {
	span := endLine - startLine
	if span < 0 {
		span = 0
	}

	h := xxhash.New()
	writeField(h, file)
	writeField(h, category)
	writeField(h, issueType)
	writeField(h, message)

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(span))
	h.Write(buf[:])

	return models.Fingerprint(h.Sum64())
}

// FromString maps a tool-provided identity string into the fingerprint
// space. Used when a report carries its own fingerprints.
func FromString(s string) models.Fingerprint {
	return models.Fingerprint(xxhash.Sum64String(s))
}

// writeField hashes a length-prefixed field so that adjacent fields cannot
// run together ("ab","c" vs "a","bc").
func writeField(h *xxhash.Digest, s string) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
	h.Write(buf[:])
	h.WriteString(s)
}
