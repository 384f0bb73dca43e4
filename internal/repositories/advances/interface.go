package advances

//go:generate mockgen -destination=mock/mock.go -package=mockadvances -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
)

// Repository persists the append-only advance history of finished characters
type Repository interface {
	// Append stores the next advance. Its number must follow the last stored one.
	Append(ctx context.Context, record *character.AdvanceRecord) error

	// ListByCharacter returns a character's advances ordered by advance number
	ListByCharacter(ctx context.Context, characterID string) ([]character.AdvanceRecord, error)

	// DeleteLatest removes the character's last advance, which must be advanceNumber
	DeleteLatest(ctx context.Context, characterID string, advanceNumber int) error
}
