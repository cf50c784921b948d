package domain

import "strings"

// Card is a single prompt/answer pair. Cards have no identity beyond value
// equality and are never mutated after creation.
type Card struct {
	Prompt string `json:"prompt" validate:"required"`
	Answer string `json:"answer" validate:"required"`
}

// NewCard trims both fields and returns ErrInvalidCard if either is empty.
func NewCard(prompt, answer string) (Card, error) {
	c := Card{
		Prompt: strings.TrimSpace(prompt),
		Answer: strings.TrimSpace(answer),
	}
	if c.Prompt == "" || c.Answer == "" {
		return Card{}, ErrInvalidCard
	}
	return c, nil
}

// ExampleCard is the sample card offered by `flashdeck cards add --example`.
func ExampleCard() Card {
	return Card{
		Prompt: "Who played the 13th Doctor in Doctor Who?",
		Answer: "Jodie Whittaker",
	}
}

// Settings holds the process-wide study preferences. They live in memory
// for the run of the process and are never persisted.
type Settings struct {
	// ReuseWrongCards requeues incorrectly answered cards instead of
	// discarding them.
	ReuseWrongCards bool
}
