package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// CardsKey is the fixed key the deck is persisted under.
const CardsKey = "Cards"

// KV is the blob store the card store reads and writes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CardStore persists the ordered card list as a single JSON blob.
type CardStore struct {
	kv     KV
	logger *slog.Logger
}

// NewCardStore returns a CardStore over kv.
func NewCardStore(kv KV, logger *slog.Logger) *CardStore {
	return &CardStore{kv: kv, logger: logger.With("component", "card_store")}
}

// Load returns the persisted cards. Missing, unreadable or undecodable data
// yields an empty deck; the failure is logged and never returned.
func (s *CardStore) Load(ctx context.Context) []domain.Card {
	data, err := s.kv.Get(ctx, CardsKey)
	if err != nil {
		s.logger.Warn("failed to read cards, using empty deck", "error", err)
		return []domain.Card{}
	}
	if data == nil {
		s.logger.Debug("no stored cards")
		return []domain.Card{}
	}

	var cards []domain.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		s.logger.Debug("stored cards could not be decoded, using empty deck", "error", err)
		return []domain.Card{}
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	return cards
}

// Save replaces the persisted card list.
func (s *CardStore) Save(ctx context.Context, cards []domain.Card) error {
	if cards == nil {
		cards = []domain.Card{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}
	if err := s.kv.Put(ctx, CardsKey, data); err != nil {
		return fmt.Errorf("failed to save cards: %w", err)
	}
	s.logger.Debug("cards saved", "count", len(cards))
	return nil
}

// Clear removes the persisted card list.
func (s *CardStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, CardsKey); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	return nil
}
