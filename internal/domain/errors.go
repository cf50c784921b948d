package domain

import "errors"

var (
	// ErrInvalidCard is returned when a card is missing its prompt or answer.
	ErrInvalidCard = errors.New("card needs both a prompt and an answer")

	// ErrCardIndex is returned when a card index does not address a card.
	ErrCardIndex = errors.New("card index out of range")

	// ErrInputLocked is returned when a card is not accepting input, either
	// because it is not on top of the stack or because time is up.
	ErrInputLocked = errors.New("card is not accepting input")

	// ErrNoAlert is returned when dismissing an alert that is not showing.
	ErrNoAlert = errors.New("no alert is showing")
)
