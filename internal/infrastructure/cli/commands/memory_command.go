package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/nbai-go/internal/app"
)

// NewMemoryCommand creates the memory command with all subcommands
func NewMemoryCommand(container *app.Container) *cobra.Command {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or clear the suggestion memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMemory(cmd.OutOrStdout(), container, "")
		},
	}

	memoryCmd.AddCommand(
		newMemoryListCommand(container),
		newMemoryClearCommand(container),
	)

	return memoryCmd
}

// newMemoryListCommand creates the 'memory list' subcommand
func newMemoryListCommand(container *app.Container) *cobra.Command {
	var trigger string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List remembered suggestions per trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMemory(cmd.OutOrStdout(), container, trigger)
		},
	}

	cmd.Flags().StringVar(&trigger, "trigger", "", "Limit to a single trigger")
	return cmd
}

// newMemoryClearCommand creates the 'memory clear' subcommand
func newMemoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all remembered suggestions and dislikes",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Memory.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Suggestion memory cleared.")
			return nil
		},
	}
}

// listMemory prints the remembered suggestions grouped by trigger
func listMemory(out io.Writer, container *app.Container, only string) error {
	triggers := container.Memory.Triggers()
	if only != "" {
		triggers = []string{only}
	}

	printed := false
	for _, trigger := range triggers {
		entries := container.Memory.Get(trigger)
		if len(entries) == 0 {
			continue
		}
		printed = true
		fmt.Fprintf(out, "%s:\n", trigger)
		for _, entry := range entries {
			marker := " "
			if container.Memory.Disliked(entry.Snippet) {
				marker = "x"
			}
			fmt.Fprintf(out, "  [%s] %s | score %d | %s\n",
				marker, entry.ID, entry.Score, previewContent(entry.Snippet))
		}
	}

	if !printed {
		fmt.Fprintln(out, MsgNoMemory)
	}
	return nil
}
