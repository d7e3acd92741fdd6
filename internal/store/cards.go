package store

import (
	"context"
	"fmt"

	"projecthub/internal/entity"
)

// CardStates returns the persisted dashboard card layout.
func (s *Store) CardStates(ctx context.Context) ([]entity.CardState, error) {
	rows, err := s.query(ctx, "SELECT card_key, position, pinned FROM card_state ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("list card state: %w", err)
	}
	defer rows.Close()

	var out []entity.CardState
	for rows.Next() {
		var card entity.CardState
		var pinned int
		if err := rows.Scan(&card.Key, &card.Position, &pinned); err != nil {
			return nil, fmt.Errorf("scan card state: %w", err)
		}
		card.Pinned = pinned != 0
		out = append(out, card)
	}
	return out, rows.Err()
}

// SetCardState updates one card's position and pin flag. Unknown keys are
// rejected before touching the database.
func (s *Store) SetCardState(ctx context.Context, card entity.CardState) error {
	if !entity.ValidCardKey(card.Key) {
		return fmt.Errorf("unknown card: %s", card.Key)
	}
	pinned := 0
	if card.Pinned {
		pinned = 1
	}
	res, err := s.exec(ctx,
		"UPDATE card_state SET position = ?, pinned = ? WHERE card_key = ?",
		card.Position, pinned, card.Key)
	if err != nil {
		return fmt.Errorf("update card state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card state: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
