// Package schema provides a type-safe validation system for structured data.
//
// It defines a simple type system with built-in types (string, int, float,
// bool, object, enum) and support for slices and custom validators. Schemas
// map field names to types, enabling runtime validation of loosely typed
// payloads such as tool-call arguments.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "name":     schema.String(),
//	    "priority": schema.Enum("low", "medium", "high"),
//	    "tags":     schema.Slice(schema.String()),
//	}
//
//	data := map[string]any{
//	    "name":     "Launch checklist",
//	    "priority": "high",
//	    "tags":     []string{"release", "critical"},
//	}
//
//	if err := schema.Validate(s, data); err != nil {
//	    // err aggregates every failing field
//	}
//
// Validation is open-world: only fields present in the payload are
// type-checked, and fields not declared in the schema pass through. Whether
// a field must be present is a separate decision made per operation with
// RequireFields.
//
// Custom validators can be registered for domain-specific validation:
//
//	positiveInt := schema.Custom("positive_int", func(v any) error {
//	    i, ok := v.(int)
//	    if !ok {
//	        return fmt.Errorf("expected int")
//	    }
//	    if i <= 0 {
//	        return fmt.Errorf("must be positive")
//	    }
//	    return nil
//	})
//
// This package is designed to be library-agnostic, with zero external
// dependencies beyond the Go standard library.
package schema
