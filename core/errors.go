package core

import "errors"

var (
	// ErrInvalidInput is matched by every add-item validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrItemNotFound is returned for ids that are not in the catalog.
	ErrItemNotFound = errors.New("item not found")
)

// InputError describes a rejected add-item field. Its message is meant for the user.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Is makes every InputError match ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(message string) error {
	return &InputError{Message: message}
}
