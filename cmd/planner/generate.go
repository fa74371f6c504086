package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tendant/content-planner/pkg/planner"
)

var generateFlags struct {
	title    string
	platform string
	notes    string
	tags     string
	userID   string
	itemID   string
	useAI    bool
	save     bool
	asJSON   bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate titles, a description, hashtags and a pinned comment",
	Long: `Generate post copy for an ad hoc idea or for a stored item.

Examples:
  # Template output for an idea
  planner generate --title "How to brew cold coffee" --platform youtube --tags "coffee,summer"

  # Same output every run
  planner generate --title "Why cats purr" --platform tiktok --seed 42

  # AI output for a stored item, saved as output slots
  planner generate --user <uuid> --item <uuid> --ai --save`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.title, "title", "t", "", "working title")
	f.StringVarP(&generateFlags.platform, "platform", "p", "", "youtube, facebook, instagram or tiktok")
	f.StringVar(&generateFlags.notes, "notes", "", "free-form notes")
	f.StringVar(&generateFlags.tags, "tags", "", "comma separated tags")
	f.StringVar(&generateFlags.userID, "user", "", "owner UUID, required with --item")
	f.StringVar(&generateFlags.itemID, "item", "", "generate for a stored item instead of --title")
	f.BoolVar(&generateFlags.useAI, "ai", false, "use the configured AI provider")
	f.BoolVar(&generateFlags.save, "save", false, "store the result as output slots (requires --item)")
	f.BoolVar(&generateFlags.asJSON, "json", false, "print JSON instead of text")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFlags.save && generateFlags.itemID == "" {
		return fmt.Errorf("--save requires --item")
	}

	return withService(cmd.Context(), func(svc planner.Service) error {
		ctx := cmd.Context()

		var (
			generated *planner.GeneratedContent
			err       error
		)
		if generateFlags.itemID != "" {
			userID, itemID, perr := parseItemRef(generateFlags.userID, generateFlags.itemID)
			if perr != nil {
				return perr
			}
			item, gerr := svc.GetItem(ctx, userID, itemID)
			if gerr != nil {
				return gerr
			}
			generated, err = generate(cmd, svc, *item)
			if err != nil {
				return err
			}
			if generateFlags.save {
				slots, serr := svc.SaveGenerated(ctx, userID, itemID, generated)
				if serr != nil {
					return fmt.Errorf("failed to save output slots: %w", serr)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d output slots\n", len(slots))
			}
		} else {
			platform, perr := planner.ParsePlatform(generateFlags.platform)
			if perr != nil {
				return perr
			}
			item := planner.ContentItem{
				Title:    generateFlags.title,
				Platform: platform,
			}
			if generateFlags.notes != "" {
				item.Notes = planner.StringPtr(generateFlags.notes)
			}
			if generateFlags.tags != "" {
				item.Tags = planner.StringPtr(generateFlags.tags)
			}
			generated, err = generate(cmd, svc, item)
			if err != nil {
				return err
			}
		}

		if generateFlags.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(generated)
		}
		printGenerated(cmd.OutOrStdout(), generated)
		return nil
	})
}

func generate(cmd *cobra.Command, svc planner.Service, item planner.ContentItem) (*planner.GeneratedContent, error) {
	if generateFlags.useAI {
		return svc.GenerateWithAI(cmd.Context(), item)
	}
	return svc.GenerateFor(cmd.Context(), item)
}

func parseItemRef(rawUser, rawItem string) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --user %q: %w", rawUser, err)
	}
	itemID, err := uuid.Parse(rawItem)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --item %q: %w", rawItem, err)
	}
	return userID, itemID, nil
}

func printGenerated(w io.Writer, g *planner.GeneratedContent) {
	fmt.Fprintln(w, "Title ideas:")
	for i, title := range g.TitleIdeas {
		fmt.Fprintf(w, "  %d. %s\n", i+1, title)
	}
	fmt.Fprintf(w, "\nDescription:\n%s\n", g.Description)
	fmt.Fprintf(w, "\nHashtags:\n%s\n", strings.Join(g.Hashtags, " "))
	fmt.Fprintf(w, "\nPinned comment:\n%s\n", g.PinnedComment)
}
