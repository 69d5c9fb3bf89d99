package store

import "fmt"

// Messages shown to the user when a submitted form is rejected.
const (
	MessageMissingFields = "Please fill in all fields"
	MessageInvalidPhone  = "Invalid Phone Number. Please enter a valid Philippine number."
)

// ValidationError reports user input that cannot be stored. Message is meant to be displayed to
// the user as it is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports that no contact with the given id exists.
type NotFoundError struct {
	Id string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", e.Id)
}
