package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Fields is one loosely-typed upstream JSON object. Accessors take an ordered
// list of candidate keys (e.g. "caseName", "case_name") and use the first
// present variant that decodes as the requested type. A variant is present
// when it exists, is not null, and is not the empty string.
type Fields map[string]json.RawMessage

// DecodeFields decodes a single JSON object. Non-objects yield nil.
func DecodeFields(raw []byte) Fields {
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}

// DecodeList decodes a JSON array of objects, skipping elements that are not
// objects. An absent or null value is an empty list; any other non-array
// value is ErrNotList.
func DecodeList(raw json.RawMessage) ([]Fields, error) {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return nil, ErrNotList
	}
	out := make([]Fields, 0, len(elems))
	for _, e := range elems {
		if f := DecodeFields(e); f != nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func present(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) > 0 && !bytes.Equal(v, []byte("null")) && !bytes.Equal(v, []byte(`""`))
}

// Has reports whether any of keys is present.
func (f Fields) Has(keys ...string) bool {
	_, ok := f.Raw(keys...)
	return ok
}

// Raw returns the first present variant.
func (f Fields) Raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

// String returns the first variant that is a string or a number. Numbers are
// returned in their JSON spelling.
func (f Fields) String(keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || !present(v) {
			continue
		}
		if s, ok := asString(v); ok {
			return s
		}
	}
	return ""
}

func asString(v json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// Int64 returns the first variant that is an integer or an integer string.
func (f Fields) Int64(keys ...string) (int64, bool) {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || !present(v) {
			continue
		}
		s, ok := asString(v)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Int is Int64 narrowed to int.
func (f Fields) Int(keys ...string) (int, bool) {
	n, ok := f.Int64(keys...)
	return int(n), ok
}

// IntPtr returns the first integer variant, or nil. Zero is a present value.
func (f Fields) IntPtr(keys ...string) *int {
	n, ok := f.Int(keys...)
	if !ok {
		return nil
	}
	return &n
}

// Object returns the first variant that is a JSON object.
func (f Fields) Object(keys ...string) Fields {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || !present(v) {
			continue
		}
		if obj := DecodeFields(v); obj != nil {
			return obj
		}
	}
	return nil
}

// List returns the first variant that is an array of objects.
func (f Fields) List(keys ...string) []Fields {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || !present(v) {
			continue
		}
		if list, err := DecodeList(v); err == nil {
			return list
		}
	}
	return nil
}

// Strings returns the first variant that is an array. String elements are
// kept as-is; object elements contribute their "name" member. Empty values
// are dropped. Nil means no variant was an array.
func (f Fields) Strings(keys ...string) []string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || !present(v) {
			continue
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(v, &elems); err != nil {
			continue
		}
		out := make([]string, 0, len(elems))
		for _, e := range elems {
			if s, ok := asString(e); ok {
				out = append(out, s)
				continue
			}
			if obj := DecodeFields(e); obj != nil {
				if name := obj.String("name"); name != "" {
					out = append(out, name)
				}
			}
		}
		return out
	}
	return nil
}
