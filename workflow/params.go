package workflow

// ParamHelper provides typed getters for safe access to map[string]any
// values such as decoded feedback objects.
type ParamHelper struct {
	params map[string]any
}

// NewParamHelper creates a ParamHelper from a params map.
func NewParamHelper(params map[string]any) *ParamHelper {
	if params == nil {
		params = make(map[string]any)
	}
	return &ParamHelper{params: params}
}

// String returns the string value for key, or defaultVal if not found or wrong type.
func (p *ParamHelper) String(key, defaultVal string) string {
	v, ok := p.params[key]
	if !ok {
		return defaultVal
	}
	s, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return s
}

// Has returns true if the key exists in the params map.
func (p *ParamHelper) Has(key string) bool {
	_, ok := p.params[key]
	return ok
}
