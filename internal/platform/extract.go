package platform

import "strings"

// Extractor pulls one value out of a loosely-typed JSON payload.
// ok=false means the payload does not have this shape; the next extractor is tried.
type Extractor[T any] func(v any) (T, bool)

// FirstMatch runs extractors in priority order and returns the first success.
func FirstMatch[T any](v any, extractors ...Extractor[T]) (T, bool) {
	for _, ex := range extractors {
		if out, ok := ex(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// Lookup walks nested objects by key and returns the value found at the end.
// Keys are matched exactly first, then case-insensitively.
func Lookup(v any, keys ...string) (any, bool) {
	cur := v
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[k]
		if !ok {
			for mk, mv := range m {
				if strings.EqualFold(mk, k) {
					next, ok = mv, true
					break
				}
			}
		}
		if !ok || next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// ArrayAt returns an extractor for a JSON array under the given key path.
// With no keys it matches a bare array.
func ArrayAt(keys ...string) Extractor[[]any] {
	return func(v any) ([]any, bool) {
		found, ok := Lookup(v, keys...)
		if !ok {
			return nil, false
		}
		arr, ok := found.([]any)
		return arr, ok
	}
}

// FieldAt returns an extractor for any non-null value under a single key.
func FieldAt(key string) Extractor[any] {
	return func(v any) (any, bool) {
		return Lookup(v, key)
	}
}

// Fields builds one FieldAt extractor per candidate key, in priority order.
func Fields(keys ...string) []Extractor[any] {
	out := make([]Extractor[any], len(keys))
	for i, k := range keys {
		out[i] = FieldAt(k)
	}
	return out
}
