package controller

const (
	undefinedSentinel = "undefined"
	nullSentinel      = "null"
)

// Normalize replaces the literal strings "undefined" and "null" found inside
// objects and arrays. An "undefined" object property is removed and a "null"
// one becomes nil; array elements holding either sentinel become nil since
// arrays cannot have holes. Maps and slices are rewritten in place and
// returned. Top-level scalars are returned unchanged.
func Normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			switch child {
			case undefinedSentinel:
				delete(v, key)
			case nullSentinel:
				v[key] = nil
			default:
				v[key] = Normalize(child)
			}
		}
	case []any:
		for i, child := range v {
			if child == undefinedSentinel || child == nullSentinel {
				v[i] = nil
				continue
			}
			v[i] = Normalize(child)
		}
	}
	return value
}
