package schema

import "sort"

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate parses every field of the schema from values. Fields not in the schema
// are ignored. Failures are reported together, in field order.
func Validate(schema Schema, values map[string]string) (map[string]any, error) {
	if len(schema) == 0 {
		return map[string]any{}, nil
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	typed := make(map[string]any, len(schema))
	var errs []error
	for _, key := range keys {
		fieldType := schema[key]
		raw, exists := values[key]
		if !exists {
			if !isOptional(fieldType) {
				errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		v, err := fieldType.Parse(raw)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: raw})
			continue
		}
		typed[key] = v
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return typed, nil
}
