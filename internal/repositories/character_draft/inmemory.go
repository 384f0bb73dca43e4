package character_draft

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character draft repository.
// Drafts are copied on the way in and out so callers never share state with the store.
type InMemoryRepository struct {
	mu     sync.RWMutex
	drafts map[string]*character.CharacterDraft
}

// NewInMemoryRepository creates a new in-memory draft repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		drafts: make(map[string]*character.CharacterDraft),
	}
}

func checkDraft(draft *character.CharacterDraft) error {
	if draft == nil {
		return dnderr.InvalidArgument("draft cannot be nil")
	}
	if draft.ID == "" {
		return dnderr.InvalidArgument("draft ID is required")
	}
	if draft.OwnerID == "" {
		return dnderr.InvalidArgument("draft owner ID is required")
	}
	if draft.Character == nil || draft.Character.ID == "" {
		return dnderr.InvalidArgument("draft character is required")
	}
	return nil
}

// Create stores a new character draft
func (r *InMemoryRepository) Create(ctx context.Context, draft *character.CharacterDraft) error {
	if err := checkDraft(draft); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drafts[draft.ID]; exists {
		return dnderr.AlreadyExistsf("draft with ID '%s' already exists", draft.ID).
			WithMeta("draft_id", draft.ID)
	}
	for _, existing := range r.drafts {
		if existing.Character.ID == draft.Character.ID {
			return dnderr.AlreadyExistsf("character '%s' already has draft '%s'", draft.Character.ID, existing.ID).
				WithMeta("character_id", draft.Character.ID)
		}
	}

	r.drafts[draft.ID] = draft.Clone()
	return nil
}

// Get retrieves a character draft by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*character.CharacterDraft, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("draft ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, exists := r.drafts[id]
	if !exists {
		return nil, dnderr.NotFoundf("draft with ID '%s' not found", id).
			WithMeta("draft_id", id)
	}
	return draft.Clone(), nil
}

// GetByCharacterID retrieves the draft holding a character
func (r *InMemoryRepository) GetByCharacterID(ctx context.Context, characterID string) (*character.CharacterDraft, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, draft := range r.drafts {
		if draft.Character.ID == characterID {
			return draft.Clone(), nil
		}
	}

	return nil, dnderr.NotFoundf("no draft found for character '%s'", characterID).
		WithMeta("character_id", characterID)
}

// ListByOwner returns the owner's drafts, most recently updated first
func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*character.CharacterDraft, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var drafts []*character.CharacterDraft
	for _, draft := range r.drafts {
		if draft.OwnerID == ownerID {
			drafts = append(drafts, draft.Clone())
		}
	}
	sortDrafts(drafts)
	return drafts, nil
}

// Update replaces an existing character draft
func (r *InMemoryRepository) Update(ctx context.Context, draft *character.CharacterDraft) error {
	if err := checkDraft(draft); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drafts[draft.ID]; !exists {
		return dnderr.NotFoundf("draft with ID '%s' not found", draft.ID).
			WithMeta("draft_id", draft.ID)
	}

	r.drafts[draft.ID] = draft.Clone()
	return nil
}

// Delete removes a character draft
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("draft ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drafts[id]; !exists {
		return dnderr.NotFoundf("draft with ID '%s' not found", id).
			WithMeta("draft_id", id)
	}

	delete(r.drafts, id)
	return nil
}

func sortDrafts(drafts []*character.CharacterDraft) {
	sort.Slice(drafts, func(i, j int) bool {
		if !drafts[i].UpdatedAt.Equal(drafts[j].UpdatedAt) {
			return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
		}
		return drafts[i].ID < drafts[j].ID
	})
}
