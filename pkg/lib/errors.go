package lib

import "errors"

var (
	// ErrNotFound is returned when a project doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a project already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when the input is not valid.
	ErrNotValid = errors.New("not valid")
)
