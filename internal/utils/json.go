package utils

import (
	"bytes"
	"encoding/json"
)

// DecodeStrict decodes JSON data into out, rejecting unknown fields.
// Used for payloads we author ourselves; oracle output is decoded
// leniently instead, since its shape is untrusted by definition.
func DecodeStrict(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
