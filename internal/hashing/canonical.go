package hashing

import (
	"bytes"
	"encoding/json"
)

// CanonicalJSON serializes v to deterministic JSON for hashing: object keys
// are emitted in sorted order (encoding/json sorts map keys at every nesting
// level) and HTML escaping is disabled so the bytes depend only on content.
// Two payloads with equal content always canonicalize to equal bytes.
func CanonicalJSON(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}
