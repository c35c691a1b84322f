// Package hashing provides the content-addressing primitives shared by the
// receipt ledger: a dual-digest hash, deterministic canonical serialization,
// and an order-sensitive Merkle root over arbitrary items.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/blake2b"
)

// DualHashPattern matches the wire form of a dual hash: two 256-bit digests,
// hex encoded and colon joined.
var DualHashPattern = regexp.MustCompile(`^[0-9a-f]{64}:[0-9a-f]{64}$`)

// DualHash computes the content address of data as "<sha256>:<blake2b-256>".
// Two independent digest algorithms are used so that a collision against one
// of them does not forge a receipt. Pure and deterministic.
func DualHash(data []byte) string {
	first := sha256.Sum256(data)

	// blake2b.New256 only errors for invalid key lengths; an unkeyed digest
	// cannot fail.
	h, _ := blake2b.New256(nil)
	h.Write(data)
	second := h.Sum(nil)

	return hex.EncodeToString(first[:]) + ":" + hex.EncodeToString(second)
}

// DualHashString is a convenience wrapper over DualHash for string input.
func DualHashString(s string) string {
	return DualHash([]byte(s))
}

// ValidDualHash reports whether s has the dual-hash wire form.
func ValidDualHash(s string) bool {
	return DualHashPattern.MatchString(s)
}
