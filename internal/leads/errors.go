package leads

import "errors"

var (
	// ErrInvalidName is returned when the first name is missing
	ErrInvalidName = errors.New("first name is required")

	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrInvalidEmail is returned when the email address is malformed
	ErrInvalidEmail = errors.New("email address is invalid")

	// ErrInvalidState is returned when the state is not a two-letter code
	ErrInvalidState = errors.New("state must be a two-letter code")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)

// IsValidationError reports whether err came from request validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrMissingContact) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidState)
}
