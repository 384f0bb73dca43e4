package character

import (
	"context"
	"time"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/advancement"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/advances"
	draftRepo "github.com/KirkDiggler/savage-character-engine/internal/repositories/character_draft"
	"github.com/KirkDiggler/savage-character-engine/internal/uuid"
)

// DraftRepository is an alias for the draft repository interface
type DraftRepository = draftRepo.Repository

// HistoryRepository is an alias for the advance history interface
type HistoryRepository = advances.Repository

// Service runs edit sessions over characters: point-buy creation while the
// character is a draft, then advances once it is finished. Each call loads the
// draft, applies one change and saves it while holding that draft's lock.
type Service interface {
	// CreateDraft starts a new character for an owner
	CreateDraft(ctx context.Context, ownerID string) (*character.CharacterDraft, error)

	// GetDraft loads a draft
	GetDraft(ctx context.Context, draftID string) (*character.CharacterDraft, error)

	// ListDrafts returns an owner's open drafts
	ListDrafts(ctx context.Context, ownerID string) ([]*character.CharacterDraft, error)

	// DeleteDraft closes an edit session
	DeleteDraft(ctx context.Context, draftID string) error

	// UpdateCreation applies one point-buy change to a character in creation
	UpdateCreation(ctx context.Context, input *CreationInput) (*character.CharacterDraft, error)

	// CompleteStep marks a creation step done
	CompleteStep(ctx context.Context, draftID string, step character.CreateStep) (*character.CharacterDraft, error)

	// UncompleteStep reopens a creation step and the steps that depend on it
	UncompleteStep(ctx context.Context, draftID string, step character.CreateStep) (*character.CharacterDraft, error)

	// Finalize ends creation once every step is complete
	Finalize(ctx context.Context, draftID string) (*character.CharacterDraft, error)

	// SelectModifierTarget picks or clears the target of a selection modifier
	SelectModifierTarget(ctx context.Context, draftID string, modifierID int64, targetID string) (*character.CharacterDraft, error)

	// Advance applies the next advance and records it in the history
	Advance(ctx context.Context, input *AdvanceInput) (*character.CharacterDraft, error)

	// UndoAdvance reverses the most recent advance
	UndoAdvance(ctx context.Context, draftID string) (*character.CharacterDraft, error)

	// GetAdvancementOptions lists the legal choices for the next advance
	GetAdvancementOptions(ctx context.Context, draftID string) (*advancement.Options, error)

	// GetEffectiveValues derives the character's dice and stats after modifiers
	GetEffectiveValues(ctx context.Context, draftID string) (*character.EffectiveValues, error)

	// GetHistory returns the stored advance history for a character
	GetHistory(ctx context.Context, characterID string) ([]character.AdvanceRecord, error)
}

// CreationAction names a point-buy change
type CreationAction string

const (
	ActionSetConcept      CreationAction = "set_concept"
	ActionRaiseAttribute  CreationAction = "raise_attribute"
	ActionLowerAttribute  CreationAction = "lower_attribute"
	ActionRaiseSkill      CreationAction = "raise_skill"
	ActionLowerSkill      CreationAction = "lower_skill"
	ActionAddEdge         CreationAction = "add_edge"
	ActionRemoveEdge      CreationAction = "remove_edge"
	ActionAddHindrance    CreationAction = "add_hindrance"
	ActionRemoveHindrance CreationAction = "remove_hindrance"
	ActionConvertPoints   CreationAction = "convert_points"
	ActionAddPower        CreationAction = "add_power"
	ActionRemovePower     CreationAction = "remove_power"
	ActionAddGear         CreationAction = "add_gear"
	ActionRemoveGear      CreationAction = "remove_gear"
)

// CreationInput describes one point-buy change
type CreationInput struct {
	DraftID string
	Action  CreationAction

	// TargetID is the attribute, skill, edge, hindrance, power or gear acted on
	TargetID string

	// Name and AncestryID are used by set_concept
	Name       string
	AncestryID string

	// Amount and Category are used by convert_points
	Amount   int
	Category character.PointCategory
}

// AdvanceInput describes one advance. Only the fields its type uses are read.
type AdvanceInput struct {
	DraftID         string
	Type            character.AdvanceType
	EdgeID          string
	AttributeID     string
	SkillID1        string
	SkillID2        string
	HindranceID     string
	HindranceAction character.HindranceAction
	Notes           string
}

// service implements the Service interface
type service struct {
	drafts  DraftRepository
	history HistoryRepository
	catalog rulebook.Catalog
	creator *character.Creator
	engine  *advancement.Engine
	uuidGen uuid.Generator
	now     func() time.Time
	locks   *keyedMutex
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	DraftRepository DraftRepository  // Required
	Catalog         rulebook.Catalog // Required

	// HistoryRepository stores advances once characters are finished. Optional;
	// without it advances live only on the draft.
	HistoryRepository HistoryRepository

	UUIDGenerator uuid.Generator   // Optional, defaults to google uuids
	Now           func() time.Time // Optional, defaults to time.Now
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.DraftRepository == nil {
		panic("draft repository is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	uuidGen := cfg.UUIDGenerator
	if uuidGen == nil {
		uuidGen = uuid.NewGoogleUUIDGenerator()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		drafts:  cfg.DraftRepository,
		history: cfg.HistoryRepository,
		catalog: cfg.Catalog,
		creator: character.NewCreator(cfg.Catalog),
		engine: advancement.NewEngine(&advancement.EngineConfig{
			Catalog:       cfg.Catalog,
			UUIDGenerator: uuidGen,
			Now:           now,
		}),
		uuidGen: uuidGen,
		now:     now,
		locks:   newKeyedMutex(),
	}
}
