package dto

import (
	"encoding/json"
	"io"
	"strings"
)

// DecodeLenient decodes a JSON request body whose field names may arrive in
// camelCase, PascalCase or snake_case, since older clients disagree on the
// casing. snake_case keys are rewritten to camelCase before decoding;
// PascalCase is handled by encoding/json's case-insensitive field matching.
// When both spellings of a field are present, the non-underscored one wins.
func DecodeLenient(r io.Reader, v any) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return err
	}

	norm := make(map[string]json.RawMessage, len(raw))
	for k, val := range raw {
		if strings.Contains(k, "_") {
			norm[camelize(k)] = val
		}
	}
	for k, val := range raw {
		if !strings.Contains(k, "_") {
			norm[k] = val
		}
	}

	buf, err := json.Marshal(norm)
	if err != nil {
		return err
	}

	return json.Unmarshal(buf, v)
}

func camelize(key string) string {
	parts := strings.Split(key, "_")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(out) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}

	return strings.Join(out, "")
}
