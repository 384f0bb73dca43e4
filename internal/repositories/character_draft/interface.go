package character_draft

//go:generate mockgen -destination=mock/mock.go -package=mockcharacterdraft -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
)

// Repository defines the interface for character draft persistence.
// A draft is one edit session over a character, whether it is still being
// created or is taking advances.
type Repository interface {
	// Create stores a new character draft
	Create(ctx context.Context, draft *character.CharacterDraft) error

	// Get retrieves a character draft by ID
	Get(ctx context.Context, id string) (*character.CharacterDraft, error)

	// GetByCharacterID retrieves the draft holding a character
	GetByCharacterID(ctx context.Context, characterID string) (*character.CharacterDraft, error)

	// ListByOwner returns every draft an owner has open
	ListByOwner(ctx context.Context, ownerID string) ([]*character.CharacterDraft, error)

	// Update replaces an existing character draft
	Update(ctx context.Context, draft *character.CharacterDraft) error

	// Delete removes a character draft
	Delete(ctx context.Context, id string) error
}
