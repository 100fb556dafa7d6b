package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDef   = "jitfront/def/v1"
	DomainClass = "jitfront/class/v1"
	DomainCache = "jitfront/cache/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// UnitHash computes the content ID of a translated unit from its canonical
// JSON. Two translations hash equal iff their trees, ranges included, are
// identical.
func UnitHash(n Node) (string, error) {
	domain, err := unitDomain(n)
	if err != nil {
		return "", err
	}
	canonical, err := MarshalCanonical(ToValue(n))
	if err != nil {
		return "", fmt.Errorf("UnitHash: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

func unitDomain(n Node) (string, error) {
	switch n.(type) {
	case *Def:
		return DomainDef, nil
	case *ClassDef:
		return DomainClass, nil
	}
	return "", fmt.Errorf("UnitHash: %s is not a translation unit", n.Kind())
}

// CacheKey hashes the inputs that determine a translation.
// CRITICAL: every input that can change the produced tree must be a key
// field, or stale entries will be served.
func CacheKey(inputs Object) (string, error) {
	canonical, err := MarshalCanonical(inputs)
	if err != nil {
		return "", fmt.Errorf("CacheKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCache, canonical), nil
}

// MustUnitHash is like UnitHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustUnitHash(n Node) string {
	h, err := UnitHash(n)
	if err != nil {
		panic(err)
	}
	return h
}
