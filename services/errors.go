package services

import "errors"

var (
	// ErrInvalidArgument indicates a malformed date or missing required field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidDate indicates a create/delete attempt on a date other than today.
	ErrInvalidDate = errors.New("workouts can only be logged or removed for the current date")
	// ErrDuplicateEntry indicates a workout already exists for that (user, date).
	ErrDuplicateEntry = errors.New("workout already logged for this date")
	// ErrNotFound indicates that the requested entry or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates a registration conflict.
	ErrUsernameTaken = errors.New("username already taken")
)
