package domain

import "errors"

var (
	// ErrAccountNotFound is returned when the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount is returned when creating an account whose ID
	// is already provisioned.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrMessageNotFound is returned when the external display message
	// referenced by an account no longer exists.
	ErrMessageNotFound = errors.New("display message not found")

	// ErrConfigMissing is returned when a required external binding is
	// absent at startup. It is fatal.
	ErrConfigMissing = errors.New("missing required configuration")
)
