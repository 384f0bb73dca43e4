package character

import (
	"context"
	"log"
	"strings"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/advancement"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// Advance applies the next advance, stores it in the history and saves the
// draft. The stored record is removed again if the draft cannot be saved.
func (s *service) Advance(ctx context.Context, input *AdvanceInput) (*character.CharacterDraft, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	return s.mutate(ctx, input.DraftID, "advance "+string(input.Type), func(d *character.CharacterDraft) (func(), error) {
		out, err := s.applyAdvance(d.Character, input)
		if err != nil {
			return nil, err
		}

		rec := out.LastAdvance()
		rec.Notes = strings.TrimSpace(input.Notes)
		stored := *rec

		var rollback func()
		if s.history != nil {
			if err := s.history.Append(ctx, &stored); err != nil {
				return nil, dnderr.Wrapf(err, "failed to record advance %d", stored.AdvanceNumber).
					WithMeta("character_id", out.ID)
			}
			rollback = func() {
				if err := s.history.DeleteLatest(ctx, stored.CharacterID, stored.AdvanceNumber); err != nil {
					log.Printf("AdvancementService: failed to remove advance %d of %s after save error: %v",
						stored.AdvanceNumber, stored.CharacterID, err)
				}
			}
		}

		d.Character = out
		log.Printf("AdvancementService: character %s took advance %d (%s)", out.ID, stored.AdvanceNumber, stored.Type)
		return rollback, nil
	})
}

func (s *service) applyAdvance(c *character.Character, input *AdvanceInput) (*character.Character, error) {
	switch input.Type {
	case character.AdvanceEdge:
		return s.engine.ApplyEdgeAdvance(c, input.EdgeID)
	case character.AdvanceAttribute:
		return s.engine.ApplyAttributeAdvance(c, input.AttributeID)
	case character.AdvanceSkillExpensive:
		return s.engine.ApplyExpensiveSkillAdvance(c, input.SkillID1)
	case character.AdvanceSkillCheap:
		return s.engine.ApplyCheapSkillAdvance(c, input.SkillID1, input.SkillID2)
	case character.AdvanceHindrance:
		return s.engine.ApplyHindranceAdvance(c, input.HindranceID, input.HindranceAction)
	}
	return nil, dnderr.InvalidArgumentf("unknown advance type %q", input.Type).
		WithMeta("advance_type", string(input.Type))
}

// UndoAdvance reverses the most recent advance and drops it from the history
func (s *service) UndoAdvance(ctx context.Context, draftID string) (*character.CharacterDraft, error) {
	return s.mutate(ctx, draftID, "undo advance", func(d *character.CharacterDraft) (func(), error) {
		last := d.Character.LastAdvance()
		if last == nil {
			return nil, dnderr.NotFound("no advances to undo").WithMeta("character_id", d.Character.ID)
		}
		popped := *last

		out, err := s.engine.UndoAdvance(d.Character)
		if err != nil {
			return nil, err
		}

		var rollback func()
		if s.history != nil {
			err := s.history.DeleteLatest(ctx, popped.CharacterID, popped.AdvanceNumber)
			switch {
			case dnderr.IsNotFound(err):
				log.Printf("AdvancementService: advance %d of %s was never stored", popped.AdvanceNumber, popped.CharacterID)
			case err != nil:
				return nil, dnderr.Wrapf(err, "failed to remove advance %d from history", popped.AdvanceNumber).
					WithMeta("character_id", popped.CharacterID)
			default:
				rollback = func() {
					if err := s.history.Append(ctx, &popped); err != nil {
						log.Printf("AdvancementService: failed to restore advance %d of %s after save error: %v",
							popped.AdvanceNumber, popped.CharacterID, err)
					}
				}
			}
		}

		d.Character = out
		log.Printf("AdvancementService: character %s undid advance %d (%s)", out.ID, popped.AdvanceNumber, popped.Type)
		return rollback, nil
	})
}

// GetAdvancementOptions lists the legal choices for the next advance
func (s *service) GetAdvancementOptions(ctx context.Context, draftID string) (*advancement.Options, error) {
	draft, err := s.load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.engine.GetAdvancementOptions(draft.Character)
}

// GetHistory returns a character's advances. Without a history store the
// draft holding the character is read instead.
func (s *service) GetHistory(ctx context.Context, characterID string) ([]character.AdvanceRecord, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	if s.history != nil {
		records, err := s.history.ListByCharacter(ctx, characterID)
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to load advance history").WithMeta("character_id", characterID)
		}
		return records, nil
	}

	draft, err := s.drafts.GetByCharacterID(ctx, characterID)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to load character draft").WithMeta("character_id", characterID)
	}
	if draft.Character == nil {
		return nil, nil
	}
	return draft.Character.Advances, nil
}
