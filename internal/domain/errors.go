package domain

import "errors"

var (
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidQuestion indicates a question violates its structural invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrEmptyName is returned when a score is submitted without a player name.
	ErrEmptyName = errors.New("player name must not be empty")
)
