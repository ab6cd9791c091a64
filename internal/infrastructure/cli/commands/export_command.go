package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/nbai-go/internal/app"
	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/infrastructure/notebookfmt"
)

// NewExportCommand creates the export command
func NewExportCommand(container *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize the notebook to the interchange format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportNotebook(cmd.OutOrStdout(), container, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

// exportNotebook serializes the live document
func exportNotebook(out io.Writer, container *app.Container, path string) error {
	text := notebookfmt.Serialize(container.NotebookService.Export())

	if path == "" {
		fmt.Fprint(out, text)
		return nil
	}

	if err := os.WriteFile(path, []byte(text), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Exported to %s (%s)\n", path, humanize.Bytes(uint64(len(text))))
	return nil
}
