// SPDX-License-Identifier: MPL-2.0

package console

import (
	"encoding/json"
	"fmt"
)

// Record is a loosely-typed document object as produced by a decoder.
// Nested objects may be either Record or map[string]any.
type Record map[string]any

// Get returns the value stored under key.
// A missing key and an explicit null are both reported as absent.
func (r Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key holds a non-null value.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// String returns the string stored under key. The second result is false when
// the key is absent or holds a non-string value.
func (r Record) String(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Map returns the object stored under key.
func (r Record) Map(key string) (Record, bool) {
	v, ok := r.Get(key)
	if !ok {
		return nil, false
	}
	return AsRecord(v)
}

// List returns the sequence stored under key.
func (r Record) List(key string) ([]any, bool) {
	v, ok := r.Get(key)
	if !ok {
		return nil, false
	}
	return asList(v)
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Render renders the record as compact JSON for error messages.
// Keys are sorted, so the rendering is stable.
func (r Record) Render() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(r))
	}
	return string(data)
}

// Lookup walks a nested value along path and returns the value found there.
// Every intermediate step must be an object; a missing key, a null value or a
// non-object step reports absent.
func Lookup(v any, path ...string) (any, bool) {
	cur := v
	for _, key := range path {
		rec, ok := AsRecord(cur)
		if !ok {
			return nil, false
		}
		cur, ok = rec.Get(key)
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// AsRecord converts an object value into a Record.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []Record:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.Clone()
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Plain returns a deep copy of the record in which every nested object is a
// map[string]any, as expected by encoders that do not know about Record.
func (r Record) Plain() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.Plain()
	case map[string]any:
		return Record(t).Plain()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plainValue(t[i])
		}
		return out
	case []Record, []map[string]any, []string:
		l, _ := asList(t)
		return plainValue(l)
	default:
		return v
	}
}
