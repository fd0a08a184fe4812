package types

import "errors"

// Error taxonomy shared by every layer. Wrap with fmt.Errorf("...: %w") and
// test with errors.Is.
var (
	// ErrNotFound means a project or item is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists means a project name is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation means an externally supplied value is not acceptable.
	ErrValidation = errors.New("invalid value")

	// ErrPersistence means a project document could not be read or written.
	ErrPersistence = errors.New("persistence error")

	// ErrParse means arguments or an input line could not be parsed.
	ErrParse = errors.New("parse error")
)
