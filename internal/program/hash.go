package program

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainProgram prefixes program content hashes.
// Version suffix enables future algorithm migration.
const DomainProgram = "quilt/program/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the content-addressed identity of the program: the
// domain-separated SHA-256 of its NFC-normalized Quil text.
//
// NumShots is not part of the identity; two programs that render the same
// text hash the same regardless of how many times they are meant to run.
func (p *Program) Hash() string {
	return hashWithDomain(DomainProgram, []byte(norm.NFC.String(p.String())))
}
