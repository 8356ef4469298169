package models

import (
	"encoding/json"
	"fmt"
)

// objectField maps one typed struct field onto a JSON member.
type objectField struct {
	key string
	ptr any  // Destination when decoding.
	val any  // Value when encoding.
	set bool // Whether val is non-zero.
}

// splitObject decodes the known members of a JSON object into their typed
// destinations and returns the remaining members untouched.
func splitObject(data []byte, fields []objectField) (extra map[string]json.RawMessage, present map[string]bool, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("expected JSON object, got null")
	}

	present = make(map[string]bool, len(fields))
	for _, f := range fields {
		msg, ok := raw[f.key]
		if !ok {
			continue
		}
		present[f.key] = true
		delete(raw, f.key)
		if string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, f.ptr); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", f.key, err)
		}
	}
	return raw, present, nil
}

// joinObject re-assembles a JSON object from its passthrough members and typed fields.
//
// A typed field is written when it is set, or when it was present in the source
// document (so explicit nulls survive a rewrite).
func joinObject(extra map[string]json.RawMessage, present map[string]bool, fields []objectField) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(extra)+len(fields))
	for k, v := range extra {
		out[k] = v
	}
	for _, f := range fields {
		if !f.set && !present[f.key] {
			continue
		}
		b, err := json.Marshal(f.val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.key, err)
		}
		out[f.key] = b
	}
	return json.Marshal(out)
}
