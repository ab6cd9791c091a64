package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/nbai-go/internal/app"
	"github.com/doeshing/nbai-go/internal/domain"
)

// NewSuggestCommand creates the suggest command with all subcommands
func NewSuggestCommand(container *app.Container) *cobra.Command {
	suggestCmd := &cobra.Command{
		Use:   "suggest",
		Short: "Evaluate and rate snippet suggestions",
	}

	suggestCmd.AddCommand(
		newSuggestEvalCommand(container),
		newSuggestAcceptCommand(container),
		newSuggestDislikeCommand(container),
	)

	return suggestCmd
}

// newSuggestEvalCommand creates the 'suggest eval' subcommand
func newSuggestEvalCommand(container *app.Container) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "eval <cell-id>",
		Short: "Evaluate a cell for a trigger and propose a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCellID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return evaluateCell(ctx, cmd.OutOrStdout(), container, id)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Snippet request timeout")
	return cmd
}

// newSuggestAcceptCommand creates the 'suggest accept' subcommand
func newSuggestAcceptCommand(container *app.Container) *cobra.Command {
	return newFeedbackCommand(container, "accept", "Accept a suggestion (raises its score)", true)
}

// newSuggestDislikeCommand creates the 'suggest dislike' subcommand
func newSuggestDislikeCommand(container *app.Container) *cobra.Command {
	return newFeedbackCommand(container, "dislike", "Dislike a suggestion (lowers its score and suppresses it)", false)
}

func newFeedbackCommand(container *app.Container, use, short string, accepted bool) *cobra.Command {
	var trigger string
	var id string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if trigger == "" {
				return fmt.Errorf(ErrTriggerRequired)
			}
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			if !container.SuggestService.Feedback(trigger, id, accepted) {
				return fmt.Errorf("suggestion %s not found under trigger %s", id, trigger)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trigger, "trigger", "", "Trigger keyword the suggestion belongs to")
	cmd.Flags().StringVar(&id, "id", "", "Suggestion id")
	return cmd
}

// evaluateCell runs the full trigger-to-suggestion pipeline for one cell
func evaluateCell(ctx context.Context, out io.Writer, container *app.Container, id int) error {
	cell, ok := container.Store.Get(id)
	if !ok {
		return fmt.Errorf(ErrCellNotFound, id)
	}
	if cell.Kind != domain.CellKindCode {
		return fmt.Errorf("cell %d is not a code cell", id)
	}

	trigger, ok := container.SuggestService.DetectTrigger(cell.Content)
	if !ok {
		fmt.Fprintln(out, MsgNoSuggestions)
		return nil
	}

	suggestion, ok := container.SuggestService.Suggest(ctx, trigger, cell.Content)
	if !ok {
		fmt.Fprintln(out, MsgNoSuggestions)
		return nil
	}

	renderSuggestion(out, trigger, suggestion)
	return nil
}

func renderSuggestion(out io.Writer, trigger string, suggestion domain.Suggestion) {
	fmt.Fprintf(out, "Trigger: %s\nSuggestion %s (score %d):\n%s\n",
		trigger, suggestion.ID, suggestion.Score, suggestion.Snippet)
}
