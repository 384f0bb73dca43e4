package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	characterService "github.com/KirkDiggler/savage-character-engine/internal/services/character"
)

func newRootCmd(svc characterService.Service) *cobra.Command {
	root := &cobra.Command{
		Use:           "advancer",
		Short:         "Build and advance Savage Worlds characters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDraftCmd(svc),
		newCreateCmd(svc),
		newStepCmd(svc),
		newFinalizeCmd(svc),
		newSelectCmd(svc),
		newAdvanceCmd(svc),
		newUndoCmd(svc),
		newOptionsCmd(svc),
		newValuesCmd(svc),
		newHistoryCmd(svc),
		newRunCmd(svc),
	)
	return root
}

// printYAML writes v to the command's output
func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newDraftCmd(svc characterService.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage edit sessions",
	}

	var owner string
	create := &cobra.Command{
		Use:   "create",
		Short: "Start a new character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := svc.CreateDraft(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return printYAML(cmd, draft)
		},
	}
	create.Flags().StringVar(&owner, "owner", "", "owner of the new character")
	_ = create.MarkFlagRequired("owner")

	var listOwner string
	list := &cobra.Command{
		Use:   "list",
		Short: "List an owner's drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := svc.ListDrafts(cmd.Context(), listOwner)
			if err != nil {
				return err
			}
			for _, d := range drafts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", d.ID, d.Character.ID, d.Character.Status, d.Character.Name)
			}
			return nil
		},
	}
	list.Flags().StringVar(&listOwner, "owner", "", "owner whose drafts to list")
	_ = list.MarkFlagRequired("owner")

	show := &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Print a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := svc.GetDraft(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, draft)
		},
	}

	del := &cobra.Command{
		Use:   "delete <draft-id>",
		Short: "Close an edit session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.DeleteDraft(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, list, show, del)
	return cmd
}

func newCreateCmd(svc characterService.Service) *cobra.Command {
	input := &characterService.CreationInput{}
	var category string

	cmd := &cobra.Command{
		Use:   "create <draft-id> <action> [target]",
		Short: "Apply a point-buy change to a character in creation",
		Long: `Actions: set_concept, raise_attribute, lower_attribute, raise_skill,
lower_skill, add_edge, remove_edge, add_hindrance, remove_hindrance,
convert_points, add_power, remove_power, add_gear, remove_gear.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.DraftID = args[0]
			input.Action = characterService.CreationAction(args[1])
			if len(args) == 3 {
				input.TargetID = args[2]
			}
			input.Category = character.PointCategory(category)

			draft, err := svc.UpdateCreation(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printYAML(cmd, draft.Character)
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "character name for set_concept")
	cmd.Flags().StringVar(&input.AncestryID, "ancestry", "", "ancestry for set_concept")
	cmd.Flags().IntVar(&input.Amount, "amount", 0, "hindrance points to convert, negative gives them back")
	cmd.Flags().StringVar(&category, "category", "", "category to convert hindrance points into")
	return cmd
}

func newStepCmd(svc characterService.Service) *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "step <draft-id> <step>",
		Short: "Complete or reopen a creation step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := character.ParseCreateStep(args[1])
			if err != nil {
				return err
			}

			var draft *character.CharacterDraft
			if reopen {
				draft, err = svc.UncompleteStep(cmd.Context(), args[0], step)
			} else {
				draft, err = svc.CompleteStep(cmd.Context(), args[0], step)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "current step: %s\n", draft.CurrentStep)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "reopen the step instead of completing it")
	return cmd
}

func newFinalizeCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <draft-id>",
		Short: "Finish character creation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := svc.Finalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, draft.Character)
		},
	}
}

func newSelectCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "select <draft-id> <modifier-id> [target]",
		Short: "Choose the target of a selection modifier, or clear it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			modifierID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid modifier id %q", args[1])
			}
			target := ""
			if len(args) == 3 {
				target = args[2]
			}

			draft, err := svc.SelectModifierTarget(cmd.Context(), args[0], modifierID, target)
			if err != nil {
				return err
			}
			return printYAML(cmd, draft.Character.Selections)
		},
	}
}

func newAdvanceCmd(svc characterService.Service) *cobra.Command {
	input := &characterService.AdvanceInput{}
	var (
		skills []string
		action string
	)

	cmd := &cobra.Command{
		Use:   "advance <draft-id> <type>",
		Short: "Take the next advance",
		Long:  "Types: edge, attribute, skill_expensive, skill_cheap, hindrance.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.DraftID = args[0]
			input.Type = character.AdvanceType(args[1])
			if len(skills) > 2 {
				return fmt.Errorf("at most two skills per advance, got %d", len(skills))
			}
			if len(skills) > 0 {
				input.SkillID1 = skills[0]
			}
			if len(skills) > 1 {
				input.SkillID2 = skills[1]
			}
			input.HindranceAction = character.HindranceAction(action)

			draft, err := svc.Advance(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printYAML(cmd, draft.Character.LastAdvance())
		},
	}
	cmd.Flags().StringVar(&input.EdgeID, "edge", "", "edge to take")
	cmd.Flags().StringVar(&input.AttributeID, "attribute", "", "attribute to raise")
	cmd.Flags().StringSliceVar(&skills, "skill", nil, "skill to raise, repeat for a cheap advance")
	cmd.Flags().StringVar(&input.HindranceID, "hindrance", "", "hindrance to deal with")
	cmd.Flags().StringVar(&action, "action", "", "remove_minor, reduce_major or remove_major_half")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "free text kept with the advance")
	return cmd
}

func newUndoCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <draft-id>",
		Short: "Reverse the most recent advance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := svc.UndoAdvance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s has %d advances\n", draft.Character.Name, draft.Character.AdvanceCount())
			return nil
		},
	}
}

func newOptionsCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "options <draft-id>",
		Short: "List the legal choices for the next advance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := svc.GetAdvancementOptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, opts)
		},
	}
}

func newValuesCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "values <draft-id>",
		Short: "Print the character's dice and stats after modifiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := svc.GetEffectiveValues(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, ev)
		},
	}
}

func newHistoryCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "history <character-id>",
		Short: "Print a character's advance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := svc.GetHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", r.AdvanceNumber, r.Type, describeAdvance(r))
			}
			return nil
		},
	}
}

func describeAdvance(r character.AdvanceRecord) string {
	var parts []string
	for _, p := range []string{r.EdgeID, r.AttributeID, r.SkillID1, r.SkillID2, r.HindranceID, string(r.HindranceAction)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	desc := strings.Join(parts, " ")
	if r.Notes != "" {
		desc += " (" + r.Notes + ")"
	}
	return desc
}

// newRunCmd executes a file of commands, one per line, against the same
// stores. Arguments are split on whitespace; blank lines and lines starting
// with # are skipped.
func newRunCmd(svc characterService.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Run a file of commands in one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runScript(cmd, svc, in)
		},
	}
}

func runScript(cmd *cobra.Command, svc characterService.Service, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "run" {
			return fmt.Errorf("line %d: scripts cannot run other scripts", lineNo)
		}

		sub := newRootCmd(svc)
		sub.SetOut(cmd.OutOrStdout())
		sub.SetErr(cmd.ErrOrStderr())
		sub.SetArgs(fields)
		if err := sub.ExecuteContext(cmd.Context()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}
