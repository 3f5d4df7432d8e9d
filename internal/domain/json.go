package domain

// JSONMap is an opaque JSON object stored in a JSONB column (settings, metadata).
// Its shape is documented per entity, never enforced.
type JSONMap map[string]interface{}

// OrEmpty returns m, or an empty map when m is nil, so JSONB columns never receive NULL
func (m JSONMap) OrEmpty() JSONMap {
	if m == nil {
		return JSONMap{}
	}
	return m
}
