package hashing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"claimtrace/internal/hashing"
)

// TestDualHashDeterministic verifies that the same input always yields the
// same dual hash and that distinct inputs diverge.
func TestDualHashDeterministic(t *testing.T) {
	a := hashing.DualHash([]byte("claim-001"))
	b := hashing.DualHash([]byte("claim-001"))
	c := hashing.DualHash([]byte("claim-002"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

// TestDualHashFormat checks the two-component hex format.
func TestDualHashFormat(t *testing.T) {
	h := hashing.DualHash([]byte("payload"))

	parts := strings.Split(h, ":")
	require.Len(t, parts, 2)
	require.Len(t, parts[0], 64)
	require.Len(t, parts[1], 64)
	require.True(t, hashing.ValidDualHash(h))
}

// TestValidDualHash rejects malformed hash strings.
func TestValidDualHash(t *testing.T) {
	valid := hashing.DualHash([]byte("x"))
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"Valid", valid, true},
		{"Empty", "", false},
		{"SingleComponent", strings.Repeat("a", 64), false},
		{"ShortComponent", strings.Repeat("a", 63) + ":" + strings.Repeat("b", 64), false},
		{"UppercaseHex", strings.ToUpper(valid), false},
		{"NonHex", strings.Repeat("z", 64) + ":" + strings.Repeat("z", 64), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, hashing.ValidDualHash(tc.in))
		})
	}
}

// TestCanonicalJSONKeyOrder verifies that maps serialize with sorted keys so
// logically equal payloads hash identically.
func TestCanonicalJSONKeyOrder(t *testing.T) {
	a, err := hashing.CanonicalJSON(map[string]interface{}{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	b, err := hashing.CanonicalJSON(map[string]interface{}{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)

	require.Equal(t, string(a), string(b))
	require.Equal(t, `{"a":1,"b":2,"c":3}`, string(a))
}

// TestCanonicalJSONNoHTMLEscape checks that URL-ish payload values survive
// canonicalization unmangled.
func TestCanonicalJSONNoHTMLEscape(t *testing.T) {
	out, err := hashing.CanonicalJSON(map[string]interface{}{"u": "a&b<c>"})
	require.NoError(t, err)
	require.Equal(t, `{"u":"a&b<c>"}`, string(out))
}

// TestMerkleRootEmpty verifies the defined root of an empty batch.
func TestMerkleRootEmpty(t *testing.T) {
	root, err := hashing.MerkleRoot(nil)
	require.NoError(t, err)
	require.Equal(t, hashing.DualHash([]byte("")), root)
}

// TestMerkleRootSingle verifies that a single item's root is its own leaf
// hash.
func TestMerkleRootSingle(t *testing.T) {
	root, err := hashing.MerkleRoot([]interface{}{"only"})
	require.NoError(t, err)
	require.Equal(t, hashing.DualHash([]byte("only")), root)
}

// TestMerkleRootOrderSensitive verifies that reordering items changes the
// root while identical batches agree.
func TestMerkleRootOrderSensitive(t *testing.T) {
	items := []interface{}{"a", "b", "c"}
	root1, err := hashing.MerkleRoot(items)
	require.NoError(t, err)
	root2, err := hashing.MerkleRoot([]interface{}{"a", "b", "c"})
	require.NoError(t, err)
	root3, err := hashing.MerkleRoot([]interface{}{"c", "b", "a"})
	require.NoError(t, err)

	require.Equal(t, root1, root2)
	require.NotEqual(t, root1, root3)
	require.True(t, hashing.ValidDualHash(root1))
}

// TestMerkleRootOddLevel exercises the duplicate-last rule: three leaves
// must still produce a stable, valid root.
func TestMerkleRootOddLevel(t *testing.T) {
	root, err := hashing.MerkleRoot([]interface{}{
		map[string]interface{}{"claim_id": "1"},
		map[string]interface{}{"claim_id": "2"},
		map[string]interface{}{"claim_id": "3"},
	})
	require.NoError(t, err)
	require.True(t, hashing.ValidDualHash(root))
}
