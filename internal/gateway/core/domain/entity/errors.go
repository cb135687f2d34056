package entity

import "fmt"

// ValidationError reports invalid user input. It is raised before any side
// effect takes place, so a rejected request leaves no trace.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
