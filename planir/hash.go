package planir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainPlan is the domain prefix for plan fingerprints.
// Version suffix enables future algorithm migration.
const DomainPlan = "tessera/plan/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content-addressed identity of a plan over its
// canonical encoding. Structurally identical fragments fingerprint
// identically: GroupBy with and without an explicit identity element
// selector, for example, or the same chain authored twice.
//
// Closure identity is invisible to the fingerprint - two opaque closures
// with the same Call descriptor fingerprint the same even though their
// behavior may differ. Fingerprints identify plan STRUCTURE, not
// semantics.
func Fingerprint(plan *Plan) (string, error) {
	canonical, err := MarshalCanonical(plan)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	return hashWithDomain(DomainPlan, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the plan is known to be valid.
func MustFingerprint(plan *Plan) string {
	fp, err := Fingerprint(plan)
	if err != nil {
		panic(err)
	}
	return fp
}
