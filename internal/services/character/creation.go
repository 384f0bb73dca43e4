package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// actionSteps maps each creation change to the step it reopens
var actionSteps = map[CreationAction]character.CreateStep{
	ActionSetConcept:      character.ConceptStep,
	ActionRaiseAttribute:  character.AttributesStep,
	ActionLowerAttribute:  character.AttributesStep,
	ActionRaiseSkill:      character.SkillsStep,
	ActionLowerSkill:      character.SkillsStep,
	ActionAddEdge:         character.EdgesStep,
	ActionRemoveEdge:      character.EdgesStep,
	ActionAddPower:        character.EdgesStep,
	ActionRemovePower:     character.EdgesStep,
	ActionAddHindrance:    character.HindrancesStep,
	ActionRemoveHindrance: character.HindrancesStep,
	ActionConvertPoints:   character.HindrancesStep,
}

// UpdateCreation applies one point-buy change. A change to a completed step
// reopens it along with the steps that depend on it.
func (s *service) UpdateCreation(ctx context.Context, input *CreationInput) (*character.CharacterDraft, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	return s.mutate(ctx, input.DraftID, string(input.Action), func(d *character.CharacterDraft) (func(), error) {
		out, err := s.applyCreation(d.Character, input)
		if err != nil {
			return nil, err
		}
		d.Character = out

		if step, ok := actionSteps[input.Action]; ok && d.IsStepCompleted(step) {
			d.UncompleteStep(step)
		}
		log.Printf("CharacterService: %s %s on draft %s", input.Action, input.TargetID, d.ID)
		return nil, nil
	})
}

func (s *service) applyCreation(c *character.Character, input *CreationInput) (*character.Character, error) {
	switch input.Action {
	case ActionSetConcept:
		return s.creator.SetConcept(c, input.Name, input.AncestryID)
	case ActionRaiseAttribute:
		return s.creator.RaiseAttribute(c, input.TargetID)
	case ActionLowerAttribute:
		return s.creator.LowerAttribute(c, input.TargetID)
	case ActionRaiseSkill:
		return s.creator.RaiseSkill(c, input.TargetID)
	case ActionLowerSkill:
		return s.creator.LowerSkill(c, input.TargetID)
	case ActionAddEdge:
		return s.creator.AddEdge(c, input.TargetID)
	case ActionRemoveEdge:
		return s.creator.RemoveEdge(c, input.TargetID)
	case ActionAddHindrance:
		return s.creator.AddHindrance(c, input.TargetID)
	case ActionRemoveHindrance:
		return s.creator.RemoveHindrance(c, input.TargetID)
	case ActionConvertPoints:
		return s.creator.ConvertHindrancePoints(c, input.Amount, input.Category)
	case ActionAddPower:
		return s.creator.AddPower(c, input.TargetID)
	case ActionRemovePower:
		return s.creator.RemovePower(c, input.TargetID)
	case ActionAddGear:
		return s.creator.AddGear(c, input.TargetID)
	case ActionRemoveGear:
		return s.creator.RemoveGear(c, input.TargetID)
	}
	return nil, dnderr.InvalidArgumentf("unknown creation action %q", input.Action).
		WithMeta("action", string(input.Action))
}

// CompleteStep marks a creation step done
func (s *service) CompleteStep(ctx context.Context, draftID string, step character.CreateStep) (*character.CharacterDraft, error) {
	return s.mutate(ctx, draftID, "complete "+step.String(), func(d *character.CharacterDraft) (func(), error) {
		if d.Character.Status != shared.CharacterStatusDraft {
			return nil, dnderr.Validation("character creation is already finished").WithMeta("draft_id", d.ID)
		}
		return nil, d.CompleteStep(step)
	})
}

// UncompleteStep reopens a creation step
func (s *service) UncompleteStep(ctx context.Context, draftID string, step character.CreateStep) (*character.CharacterDraft, error) {
	return s.mutate(ctx, draftID, "reopen "+step.String(), func(d *character.CharacterDraft) (func(), error) {
		if d.Character.Status != shared.CharacterStatusDraft {
			return nil, dnderr.Validation("character creation is already finished").WithMeta("draft_id", d.ID)
		}
		d.UncompleteStep(step)
		return nil, nil
	})
}

// Finalize ends creation once every step is complete. The draft stays open
// so the finished character can take advances.
func (s *service) Finalize(ctx context.Context, draftID string) (*character.CharacterDraft, error) {
	return s.mutate(ctx, draftID, "finalize", func(d *character.CharacterDraft) (func(), error) {
		if d.Character.Status == shared.CharacterStatusDraft && !d.AllStepsCompleted() {
			return nil, dnderr.Validationf("the %s step is not complete", d.NextIncompleteStep()).
				WithMeta("draft_id", d.ID)
		}
		out, err := s.creator.Finalize(d.Character)
		if err != nil {
			return nil, err
		}
		d.Character = out
		log.Printf("CharacterService: finalized character %s (%s)", out.ID, out.Name)
		return nil, nil
	})
}

// SelectModifierTarget picks or clears a selection target. Finished
// characters go through the advancement engine, drafts through the creator.
func (s *service) SelectModifierTarget(ctx context.Context, draftID string, modifierID int64, targetID string) (*character.CharacterDraft, error) {
	return s.mutate(ctx, draftID, "select target", func(d *character.CharacterDraft) (func(), error) {
		var (
			out *character.Character
			err error
		)
		if d.Character.Status == shared.CharacterStatusDraft {
			out, err = s.creator.SelectModifierTarget(d.Character, modifierID, targetID)
		} else {
			out, err = s.engine.SelectModifierTarget(d.Character, modifierID, targetID)
		}
		if err != nil {
			return nil, err
		}
		d.Character = out
		return nil, nil
	})
}

// GetEffectiveValues derives the character's dice and stats after modifiers
func (s *service) GetEffectiveValues(ctx context.Context, draftID string) (*character.EffectiveValues, error) {
	draft, err := s.load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return character.ComputeEffectiveValues(draft.Character, s.catalog)
}
