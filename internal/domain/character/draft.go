package character

import (
	"fmt"
	"time"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

type CreateStep int

const (
	ConceptStep    CreateStep = 1 << 0 // 0000 0001
	HindrancesStep CreateStep = 1 << 1 // 0000 0010
	AttributesStep CreateStep = 1 << 2 // 0000 0100
	SkillsStep     CreateStep = 1 << 3 // 0000 1000
	EdgesStep      CreateStep = 1 << 4 // 0001 0000
)

var stepNames = map[CreateStep]string{
	ConceptStep:    "concept",
	HindrancesStep: "hindrances",
	AttributesStep: "attributes",
	SkillsStep:     "skills",
	EdgesStep:      "edges",
}

func (s CreateStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ParseCreateStep accepts a step name
func ParseCreateStep(name string) (CreateStep, error) {
	for step, n := range stepNames {
		if n == name {
			return step, nil
		}
	}
	return 0, dnderr.InvalidArgumentf("unknown creation step %q", name)
}

// StepDependencies defines which steps need to be reset when a step changes
var StepDependencies = map[CreateStep][]CreateStep{
	ConceptStep: {
		AttributesStep, // Ancestry can raise attributes
		SkillsStep,     // and with them skill costs
	},
	HindrancesStep: {
		EdgesStep, // Hindrance points buy edges
	},
	AttributesStep: {
		SkillsStep, // Skill costs depend on the linked attribute
	},
}

// StepOrder defines the valid progression of steps
var StepOrder = []CreateStep{
	ConceptStep,
	HindrancesStep,
	AttributesStep,
	SkillsStep,
	EdgesStep,
}

const allSteps = ConceptStep | HindrancesStep | AttributesStep | SkillsStep | EdgesStep

// CharacterDraft is a character being built or advanced in an edit session
type CharacterDraft struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CurrentStep    CreateStep `json:"current_step"`
	CompletedSteps CreateStep `json:"completed_steps"`
	Character      *Character `json:"character"`
}

// Clone copies the draft and its character
func (d *CharacterDraft) Clone() *CharacterDraft {
	if d == nil {
		return nil
	}
	out := *d
	out.Character = d.Character.Clone()
	return &out
}

func (d *CharacterDraft) IsStepCompleted(step CreateStep) bool {
	return d.CompletedSteps&step != 0
}

// CompleteStep marks a step done once every earlier step is done and the
// character satisfies the step.
func (d *CharacterDraft) CompleteStep(step CreateStep) error {
	if err := d.canCompleteStep(step); err != nil {
		return err
	}
	if err := d.validateStep(step); err != nil {
		return err
	}

	d.CompletedSteps |= step
	d.CurrentStep = d.NextIncompleteStep()
	return nil
}

// UncompleteStep clears a step and the steps that depend on it
func (d *CharacterDraft) UncompleteStep(step CreateStep) {
	d.CompletedSteps &^= step

	if deps, ok := StepDependencies[step]; ok {
		for _, depStep := range deps {
			d.CompletedSteps &^= depStep
		}
	}
	d.CurrentStep = d.NextIncompleteStep()
}

func (d *CharacterDraft) AllStepsCompleted() bool {
	return d.CompletedSteps&allSteps == allSteps
}

func (d *CharacterDraft) canCompleteStep(step CreateStep) error {
	currentIdx := -1
	for i, s := range StepOrder {
		if s == step {
			currentIdx = i
			break
		}
	}

	if currentIdx == -1 {
		return dnderr.InvalidArgumentf("invalid step: %d", step)
	}

	for i := 0; i < currentIdx; i++ {
		if !d.IsStepCompleted(StepOrder[i]) {
			return dnderr.Validationf("the %s step must be completed first", StepOrder[i])
		}
	}

	return nil
}

func (d *CharacterDraft) NextIncompleteStep() CreateStep {
	for _, step := range StepOrder {
		if !d.IsStepCompleted(step) {
			return step
		}
	}
	return 0
}

// validateStep checks that the character's state allows the step to be done
func (d *CharacterDraft) validateStep(step CreateStep) error {
	if d.Character == nil {
		return dnderr.State("character not initialized")
	}
	c := d.Character

	switch step {
	case ConceptStep:
		if c.Name == "" {
			return dnderr.Validation("name is required")
		}
		if c.AncestryID == "" {
			return dnderr.Validation("ancestry must be selected")
		}
	case AttributesStep:
		if n := c.Points.Available(PointsAttribute); n > 0 {
			return dnderr.Validationf("%d attribute points left to spend", n)
		}
	case SkillsStep:
		if n := c.Points.Available(PointsSkill); n > 0 {
			return dnderr.Validationf("%d skill points left to spend", n)
		}
	}
	return nil
}
