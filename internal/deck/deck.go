// Package deck holds the ordered cards of a review session.
package deck

import "github.com/conorfennell/flashdeck/internal/domain"

// StackSpacing is the vertical distance between stacked cards.
const StackSpacing = 10.0

// Controller owns the card sequence. Index 0 is the front of the sequence,
// the last card is the top of the visual stack.
type Controller struct {
	cards    []domain.Card
	settings domain.Settings
}

// New returns an empty deck using settings.
func New(settings domain.Settings) *Controller {
	return &Controller{settings: settings}
}

// Reset replaces the sequence with a copy of cards.
func (c *Controller) Reset(cards []domain.Card) {
	c.cards = append([]domain.Card(nil), cards...)
}

func (c *Controller) Settings() domain.Settings {
	return c.settings
}

func (c *Controller) SetSettings(settings domain.Settings) {
	c.settings = settings
}

// RemoveCard grades the card at index. A correct card is dropped; an
// incorrect one is dropped, or moved to the front when ReuseWrongCards is
// set. It reports false and leaves the deck alone if index is invalid.
func (c *Controller) RemoveCard(index int, correct bool) bool {
	if index < 0 || index >= len(c.cards) {
		return false
	}
	card := c.cards[index]
	c.cards = append(c.cards[:index], c.cards[index+1:]...)
	if !correct && c.settings.ReuseWrongCards {
		c.cards = append([]domain.Card{card}, c.cards...)
	}
	return true
}

// Cards returns a copy of the sequence.
func (c *Controller) Cards() []domain.Card {
	return append([]domain.Card(nil), c.cards...)
}

// Card returns the card at index.
func (c *Controller) Card(index int) (domain.Card, bool) {
	if index < 0 || index >= len(c.cards) {
		return domain.Card{}, false
	}
	return c.cards[index], true
}

func (c *Controller) Len() int {
	return len(c.cards)
}

func (c *Controller) Empty() bool {
	return len(c.cards) == 0
}

// Top is the index of the card on top of the stack, or -1 when empty.
func (c *Controller) Top() int {
	return len(c.cards) - 1
}

// AllowsInput reports whether the card at index takes gestures. Only the
// top card does.
func (c *Controller) AllowsInput(index int) bool {
	return index >= 0 && index == c.Top()
}

// AccessibilityHidden reports whether the card at index is hidden from
// assistive technology.
func (c *Controller) AccessibilityHidden(index int) bool {
	return index < c.Top()
}

// StackOffset is the vertical offset of the card at position in a stack of
// total cards, fanning the deck out below the top card.
func StackOffset(position, total int) float64 {
	return float64(total-position) * StackSpacing
}
