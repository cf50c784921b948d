// Package cardkey derives a content key for cards so that cards which
// differ only in case, surrounding whitespace or line endings compare equal.
package cardkey

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// Normalize joins the cleaned prompt and answer with a newline. Each part
// is lowercased, trimmed and given Unix line endings.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}
	return normalizePart(card.Prompt) + "\n" + normalizePart(card.Answer)
}

// Key returns the SHA-256 of the normalized card as a hex string.
func Key(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}

// Set is a set of card keys.
type Set map[string]struct{}

// NewSet returns a Set holding the keys of cards.
func NewSet(cards []domain.Card) Set {
	s := make(Set, len(cards))
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add inserts card and reports whether it was not already present.
func (s Set) Add(card domain.Card) bool {
	k := Key(card)
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

func (s Set) Contains(card domain.Card) bool {
	_, ok := s[Key(card)]
	return ok
}
