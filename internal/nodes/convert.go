package nodes

// asString приводит значение к строке.
func asString(value any) string {
	s, _ := value.(string)
	return s
}

// asBool приводит значение к bool.
func asBool(value any) bool {
	b, _ := value.(bool)
	return b
}

// asInt приводит значение к int.
// После JSON-декодирования числа приходят как float64.
func asInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// asStringSlice приводит значение к []string.
// Элементы, не являющиеся строками, отбрасываются.
func asStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
