package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/nbai-go/assets"
	"github.com/doeshing/nbai-go/internal/app"
	"github.com/doeshing/nbai-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/nbai-go/internal/infrastructure/notebookfmt"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	// Restore the persisted notebook, or seed from the bundled demo
	// document on first run.
	container.NotebookService.Start(notebookfmt.Parse(string(assets.DefaultNotebook)))

	root := &cobra.Command{
		Use:   "nbai",
		Short: "NBAI - AI-assisted notebook",
		Long:  "NBAI manages a persisted notebook of code and markdown cells with proactive AI snippet suggestions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewCellsCommand(container))
	root.AddCommand(commands.NewImportCommand(container))
	root.AddCommand(commands.NewExportCommand(container))
	root.AddCommand(commands.NewSuggestCommand(container))
	root.AddCommand(commands.NewMemoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}
