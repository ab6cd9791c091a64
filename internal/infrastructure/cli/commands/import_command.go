package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/nbai-go/internal/app"
	"github.com/doeshing/nbai-go/internal/infrastructure/notebookfmt"
)

// NewImportCommand creates the import command
func NewImportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the notebook from an interchange-format file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importNotebook(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// importNotebook parses the file and replaces the whole document
func importNotebook(out io.Writer, container *app.Container, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	specs := notebookfmt.Parse(string(data))
	container.NotebookService.Import(specs)

	fmt.Fprintf(out, "Imported %d cells from %s (%s)\n",
		len(specs), path, humanize.Bytes(uint64(len(data))))
	return nil
}
