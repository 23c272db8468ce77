package domain

import "errors"

// Error taxonomy shared by services and the HTTP layer.
// Services wrap these with context; callers match with errors.Is.
var (
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingField       = errors.New("missing field")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrInvalidIndex       = errors.New("invalid index")
	ErrInvalidTerritory   = errors.New("invalid territory")
	ErrOutsideTerritory   = errors.New("point is outside every territory")
)
