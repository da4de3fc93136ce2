package codegen

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for changing the digest scheme.
const (
	DomainFragment = "arduhome/fragment/v1"
	DomainOutput   = "arduhome/output/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FragmentDigest is the content address of a generated code body.
func FragmentDigest(text string) string {
	return hashWithDomain(DomainFragment, []byte(text))
}

// OutputDigest is the content address of a generated program.
func OutputDigest(data []byte) string {
	return hashWithDomain(DomainOutput, data)
}
