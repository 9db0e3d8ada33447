package metadata

import "fmt"

// RentalState opisuje etap cyklu wypożyczenia laptopa.
type RentalState string

const (
	StateAvailable RentalState = "available"
	StatePending   RentalState = "pending"
	StateConfirmed RentalState = "confirmed"
)

func NewRentalState(value string) (RentalState, error) {
	state := RentalState(value)
	if !state.isValid() {
		return "", fmt.Errorf("invalid rental state: %s", value)
	}
	return state, nil
}

func (s RentalState) isValid() bool {
	switch s {
	case StateAvailable, StatePending, StateConfirmed:
		return true
	default:
		return false
	}
}

// Open zwraca true, gdy laptop ma otwarty cykl wypożyczenia.
func (s RentalState) Open() bool {
	return s == StatePending || s == StateConfirmed
}

func (s RentalState) String() string {
	return string(s)
}
