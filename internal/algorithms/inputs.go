package algorithms

import "fmt"

// Input coercion helpers. Inputs arrive either from Go callers (typed ints
// and slices) or from decoded JSON/YAML (float64 / []any), both must work.

func intInput(inputs map[string]any, key string) (int, error) {
	v, ok := inputs[key]
	if !ok {
		return 0, fmt.Errorf("input %q is required", key)
	}
	n, ok := asInt(v)
	if !ok {
		return 0, fmt.Errorf("input %q must be an integer, got %T", key, v)
	}
	return n, nil
}

func intSliceInput(inputs map[string]any, key string) ([]int, error) {
	v, ok := inputs[key]
	if !ok {
		return nil, fmt.Errorf("input %q is required", key)
	}

	switch vs := v.(type) {
	case []int:
		return append([]int(nil), vs...), nil
	case []any:
		ns := make([]int, len(vs))
		for i, item := range vs {
			n, ok := asInt(item)
			if !ok {
				return nil, fmt.Errorf("input %q must be a list of integers, element %d is %T", key, i, item)
			}
			ns[i] = n
		}
		return ns, nil
	}
	return nil, fmt.Errorf("input %q must be a list of integers, got %T", key, v)
}

func stringSliceInput(inputs map[string]any, key string) ([]string, error) {
	v, ok := inputs[key]
	if !ok {
		return nil, fmt.Errorf("input %q is required", key)
	}

	switch vs := v.(type) {
	case []string:
		return append([]string(nil), vs...), nil
	case []any:
		ss := make([]string, len(vs))
		for i, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("input %q must be a list of strings, element %d is %T", key, i, item)
			}
			ss[i] = s
		}
		return ss, nil
	}
	return nil, fmt.Errorf("input %q must be a list of strings, got %T", key, v)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
