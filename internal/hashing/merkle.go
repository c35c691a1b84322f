package hashing

import "fmt"

// MerkleRoot computes an order-sensitive Merkle root over items. Each item is
// canonicalized (byte slices and strings are taken verbatim, anything else is
// serialized with CanonicalJSON), leaf-hashed with DualHash, then parent
// levels combine adjacent pairs as DualHash(left || right). At an odd level
// the last hash is duplicated before combining. An empty input reduces to
// DualHash of the empty string, a single item to DualHash of its canonical
// form. Permuting the input changes the root.
func MerkleRoot(items []interface{}) (string, error) {
	if len(items) == 0 {
		return DualHash(nil), nil
	}

	level := make([]string, 0, len(items))
	for i, item := range items {
		leaf, err := canonicalBytes(item)
		if err != nil {
			return "", fmt.Errorf("merkle: canonicalize item %d: %w", i, err)
		}
		level = append(level, DualHash(leaf))
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]string, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, DualHashString(level[i]+level[i+1]))
		}
		level = next
	}

	return level[0], nil
}

func canonicalBytes(item interface{}) ([]byte, error) {
	switch v := item.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return CanonicalJSON(v)
	}
}
