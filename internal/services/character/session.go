package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// change edits a loaded draft in place. The returned rollback, if any, runs
// when the draft cannot be saved afterwards.
type change func(d *character.CharacterDraft) (rollback func(), err error)

// mutate loads the draft, applies fn and saves the result, all while holding
// the draft's lock so concurrent edits to one draft run one after another.
func (s *service) mutate(ctx context.Context, draftID, op string, fn change) (*character.CharacterDraft, error) {
	if draftID == "" {
		return nil, dnderr.InvalidArgument("draft ID is required")
	}

	unlock := s.locks.Lock(draftID)
	defer unlock()

	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to load draft %s", draftID).
			WithMeta("draft_id", draftID).
			WithMeta("operation", op)
	}
	if draft.Character == nil {
		return nil, dnderr.Statef("draft %s has no character", draftID).WithMeta("draft_id", draftID)
	}

	rollback, err := fn(draft)
	if err != nil {
		return nil, err
	}

	draft.UpdatedAt = s.now()
	if err := s.drafts.Update(ctx, draft); err != nil {
		if rollback != nil {
			rollback()
		}
		return nil, dnderr.Wrapf(err, "failed to save draft %s", draftID).
			WithMeta("draft_id", draftID).
			WithMeta("operation", op)
	}
	return draft, nil
}

// load reads a draft without taking its lock
func (s *service) load(ctx context.Context, draftID string) (*character.CharacterDraft, error) {
	if draftID == "" {
		return nil, dnderr.InvalidArgument("draft ID is required")
	}
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to load draft %s", draftID).WithMeta("draft_id", draftID)
	}
	if draft.Character == nil {
		return nil, dnderr.Statef("draft %s has no character", draftID).WithMeta("draft_id", draftID)
	}
	return draft, nil
}

// CreateDraft starts a new character for an owner
func (s *service) CreateDraft(ctx context.Context, ownerID string) (*character.CharacterDraft, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	now := s.now()
	draft := &character.CharacterDraft{
		ID:          s.uuidGen.New(),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		CurrentStep: character.ConceptStep,
		Character:   character.NewCharacter(s.uuidGen.New(), ownerID, s.catalog),
	}

	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, dnderr.Wrap(err, "failed to create draft").WithMeta("owner_id", ownerID)
	}

	log.Printf("CharacterService: created draft %s (character %s) for owner %s", draft.ID, draft.Character.ID, ownerID)
	return draft, nil
}

// GetDraft loads a draft
func (s *service) GetDraft(ctx context.Context, draftID string) (*character.CharacterDraft, error) {
	return s.load(ctx, draftID)
}

// ListDrafts returns an owner's open drafts
func (s *service) ListDrafts(ctx context.Context, ownerID string) ([]*character.CharacterDraft, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}
	drafts, err := s.drafts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list drafts").WithMeta("owner_id", ownerID)
	}
	return drafts, nil
}

// DeleteDraft closes an edit session. Stored advance history is kept.
func (s *service) DeleteDraft(ctx context.Context, draftID string) error {
	if draftID == "" {
		return dnderr.InvalidArgument("draft ID is required")
	}

	unlock := s.locks.Lock(draftID)
	defer unlock()

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		return dnderr.Wrapf(err, "failed to delete draft %s", draftID).WithMeta("draft_id", draftID)
	}
	log.Printf("CharacterService: deleted draft %s", draftID)
	return nil
}
