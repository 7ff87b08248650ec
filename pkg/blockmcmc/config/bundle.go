package config

import "maps"

// Bundle wraps a map[string]any carrying the parameters of one sampler
// invocation. Values are read through Extract and Decode.
type Bundle struct {
	data map[string]any
}

// New creates a Bundle from the given map.
// If data is nil, an empty Bundle is returned.
func New(data map[string]any) Bundle {
	if data == nil {
		data = make(map[string]any)
	}
	return Bundle{data: data}
}

// With returns a copy of the bundle with key set to value.
// The receiver is not modified.
func (b Bundle) With(key string, value any) Bundle {
	data := make(map[string]any, len(b.data)+1)
	maps.Copy(data, b.data)
	data[key] = value
	return Bundle{data: data}
}

// Merge returns a copy of the bundle overlaid with other's entries.
func (b Bundle) Merge(other Bundle) Bundle {
	data := make(map[string]any, len(b.data)+len(other.data))
	maps.Copy(data, b.data)
	maps.Copy(data, other.data)
	return Bundle{data: data}
}

// Lookup returns the raw value for key and whether it exists.
func (b Bundle) Lookup(key string) (any, bool) {
	v, ok := b.data[key]
	return v, ok
}

// Has returns true if the key exists in the bundle.
func (b Bundle) Has(key string) bool {
	_, ok := b.data[key]
	return ok
}
