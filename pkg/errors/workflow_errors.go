package custom_error

import (
	"fmt"

	"github.com/ubbbj/laptop-rental/pkg/metadata"
)

// NotFoundError zgłaszany, gdy laptop o podanym ID nie istnieje.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// StateConflictError zgłaszany przy próbie przejścia z niewłaściwego stanu.
// Przenosi stan bieżący i oczekiwany, aby odpowiedź mogła powiedzieć dlaczego
// operacja została odrzucona, a nie tylko że się nie udała.
type StateConflictError struct {
	Current  metadata.RentalState
	Expected metadata.RentalState
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("illegal rental transition: laptop is %s, operation requires %s", e.Current, e.Expected)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
