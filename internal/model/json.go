package model

import (
	"bytes"
	"encoding/json"
)

// marshal encodes v without HTML escaping, so quotes and ampersands in
// filler strings survive verbatim.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
