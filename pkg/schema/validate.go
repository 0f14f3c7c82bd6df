package schema

// Schema is a map of field names to their expected types.
// Example: {"name": String(), "priority": Int(), "tags": Slice(String())}
type Schema map[string]Type

// Validate type-checks the fields present in data against the schema.
// Schemas are open: fields absent from data are not an error (required-ness
// is a per-action concern decided elsewhere), and fields absent from the
// schema pass through untouched for forward compatibility.
// Returns an error with all validation failures found, not just the first.
func Validate(s Schema, data map[string]any) error {
	if len(s) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for fieldName, value := range data {
		fieldType, declared := s[fieldName]
		if !declared {
			continue
		}
		if value == nil {
			// Explicit nulls are treated as absent, not as a type error.
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// RequireFields confirms every named field is present in data with a
// non-empty value. Empty strings, empty slices, empty maps and nils all
// count as missing; zero numbers and false count as present.
// Returns an error naming all missing fields, not just the first.
func RequireFields(data map[string]any, fields ...string) error {
	var errs []error

	for _, fieldName := range fields {
		value, exists := data[fieldName]
		if !exists || Empty(value) {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
				Value:  nil,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// Empty reports whether a value counts as "not provided": nil, empty
// string, or a slice/array/map with no elements.
func Empty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
