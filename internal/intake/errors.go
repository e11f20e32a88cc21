package intake

import "strings"

// ValidationError lists the form fields that were out of range.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "intake: invalid fields: " + strings.Join(e.Fields, ", ")
}
