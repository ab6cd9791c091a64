package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/nbai-go/internal/app"
	"github.com/doeshing/nbai-go/internal/domain"
)

const contentPreviewLength = 48

// NewCellsCommand creates the cells command with all subcommands
func NewCellsCommand(container *app.Container) *cobra.Command {
	cellsCmd := &cobra.Command{
		Use:   "cells",
		Short: "Inspect and edit notebook cells",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCells(cmd.OutOrStdout(), container)
		},
	}

	cellsCmd.AddCommand(
		newCellsListCommand(container),
		newCellsShowCommand(container),
		newCellsAddCommand(container),
		newCellsEditCommand(container),
		newCellsRemoveCommand(container),
		newCellsModeCommand(container),
	)

	return cellsCmd
}

// newCellsListCommand creates the 'cells list' subcommand
func newCellsListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cells in document order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCellsLimited(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultCellListLimit, "Maximum number of cells to list")
	return cmd
}

// newCellsShowCommand creates the 'cells show' subcommand
func newCellsShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a cell's full content and outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCellID(args[0])
			if err != nil {
				return err
			}
			return showCell(cmd.OutOrStdout(), container, id)
		},
	}
}

// newCellsAddCommand creates the 'cells add' subcommand
func newCellsAddCommand(container *app.Container) *cobra.Command {
	var kind string
	var render bool

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Append a new cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addCell(cmd.OutOrStdout(), container, kind, strings.Join(args, " "), render)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "code", "Cell kind (code or markdown)")
	cmd.Flags().BoolVar(&render, "render", false, "Start markdown cell in render mode")
	return cmd
}

// newCellsEditCommand creates the 'cells edit' subcommand
func newCellsEditCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content>",
		Short: "Replace a cell's content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCellID(args[0])
			if err != nil {
				return err
			}
			if !container.NotebookService.EditCell(id, strings.Join(args[1:], " ")) {
				return fmt.Errorf(ErrCellNotFound, id)
			}
			return nil
		},
	}
}

// newCellsRemoveCommand creates the 'cells remove' subcommand
func newCellsRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a cell",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Help()
			}
			id, err := parseCellID(args[0])
			if err != nil {
				return err
			}
			if !container.NotebookService.RemoveCell(id) {
				return fmt.Errorf(ErrCellNotFound, id)
			}
			return nil
		},
	}
}

// newCellsModeCommand creates the 'cells mode' subcommand
func newCellsModeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mode <id> <edit|render>",
		Short: "Toggle a markdown cell's display mode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCellID(args[0])
			if err != nil {
				return err
			}
			mode := domain.MarkdownMode(args[1])
			if mode != domain.ModeEdit && mode != domain.ModeRender {
				return fmt.Errorf("mode must be edit or render, got %q", args[1])
			}
			if !container.Store.SetMode(id, mode) {
				return fmt.Errorf("cell %d is not a markdown cell", id)
			}
			return nil
		},
	}
}

// listCells prints a one-line summary per cell
func listCells(out io.Writer, container *app.Container) error {
	return listCellsLimited(out, container, domain.DefaultCellListLimit)
}

func listCellsLimited(out io.Writer, container *app.Container, limit int) error {
	cells := container.NotebookService.Export()
	if len(cells) == 0 {
		fmt.Fprintln(out, MsgNoCells)
		return nil
	}

	shown := cells
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, cell := range shown {
		fmt.Fprintf(out, "%3d | %-8s | %s\n", cell.ID, describeKind(cell), previewContent(cell.Content))
	}
	if len(shown) < len(cells) {
		fmt.Fprintf(out, "... and %d more\n", len(cells)-len(shown))
	}
	return nil
}

// showCell prints a single cell in full
func showCell(out io.Writer, container *app.Container, id int) error {
	cell, ok := container.Store.Get(id)
	if !ok {
		return fmt.Errorf(ErrCellNotFound, id)
	}

	fmt.Fprintf(out, "Cell %d (%s)\n", cell.ID, describeKind(cell))
	fmt.Fprintln(out, cell.Content)

	for _, output := range cell.Outputs {
		fmt.Fprintf(out, "\n[%s]\n%s\n", output.Kind, output.Text)
	}
	return nil
}

// addCell appends a new cell of the requested kind
func addCell(out io.Writer, container *app.Container, kind, content string, render bool) error {
	spec := domain.CellSpec{Content: content}
	switch kind {
	case "code":
		spec.Kind = domain.CellKindCode
	case "markdown", "md":
		spec.Kind = domain.CellKindMarkdown
		spec.Mode = domain.ModeEdit
		if render {
			spec.Mode = domain.ModeRender
		}
	default:
		return fmt.Errorf("kind must be code or markdown, got %q", kind)
	}

	cell := container.NotebookService.InsertCell(spec)
	fmt.Fprintf(out, "Added cell %d\n", cell.ID)
	return nil
}

func describeKind(cell domain.Cell) string {
	if cell.Kind == domain.CellKindMarkdown {
		return fmt.Sprintf("md/%s", cell.Mode)
	}
	return string(cell.Kind)
}

func previewContent(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) > contentPreviewLength {
		line = line[:contentPreviewLength] + "..."
	}
	return line
}

func parseCellID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid cell id %q", raw)
	}
	return id, nil
}
