package term

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainQuad is the domain prefix for quad identity.
// The version suffix allows the encoding to change later.
const DomainQuad = "case2geojson/quad/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data), hex encoded.
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// QuadID computes the content-addressed identity of a quad.
// Equal quads always produce equal IDs, which is what gives the store its
// set semantics.
func QuadID(q Quad) (string, error) {
	if q.Subject == nil || q.Predicate == nil || q.Object == nil {
		return "", fmt.Errorf("QuadID: quad has a missing position")
	}
	sk, sv, _, _ := Columns(q.Subject)
	pk, pv, _, _ := Columns(q.Predicate)
	ok, ov, od, ol := Columns(q.Object)

	canonical, err := marshalCanonical(map[string]string{
		"s_kind": string(sk),
		"s":      sv,
		"p_kind": string(pk),
		"p":      pv,
		"o_kind": string(ok),
		"o":      ov,
		"o_dt":   od,
		"o_lang": ol,
	})
	if err != nil {
		return "", fmt.Errorf("QuadID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuad, canonical), nil
}

// MustQuadID is like QuadID but panics on error.
// Use only in tests or when the quad is known to be complete.
func MustQuadID(q Quad) string {
	id, err := QuadID(q)
	if err != nil {
		panic(err)
	}
	return id
}
