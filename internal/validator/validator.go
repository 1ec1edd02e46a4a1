package validator

// ValidationResult holds validation outcome
type ValidationResult struct {
	IsValid       bool
	MissingFields []string
}

// Field is one named presence check
type Field struct {
	Name    string
	Present bool
}

// String requires a non-empty string. Whitespace counts as a value.
func String(name string, value *string) Field {
	return Field{Name: name, Present: value != nil && *value != ""}
}

// Object requires a non-null JSON object
func Object[T any](name string, value *T) Field {
	return Field{Name: name, Present: value != nil}
}

// Validate runs every check and reports the fields that are missing, in order
func Validate(fields ...Field) ValidationResult {
	result := ValidationResult{IsValid: true}

	for _, f := range fields {
		if !f.Present {
			result.IsValid = false
			result.MissingFields = append(result.MissingFields, f.Name)
		}
	}

	return result
}
