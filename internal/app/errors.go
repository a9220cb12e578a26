package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserExists        = errors.New("username or email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrSeriesNotFound    = errors.New("series not found")
	// ErrThoughtNotFound deliberately collapses "absent" and "not yours";
	// existence is hidden from non-owners.
	ErrThoughtNotFound    = errors.New("thought not found or not yours")
	ErrMembershipNotFound = errors.New("series membership not found")
	ErrMembershipExists   = errors.New("question already in this series")
	ErrOrderConflict      = errors.New("order position already taken in this series")
	ErrAIGeneration       = errors.New("ai generation failed")
)
