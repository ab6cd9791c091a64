// Package domain defines core business entities and value objects for NBAI.
//
// The domain layer is independent of infrastructure concerns and represents
// pure data structures: notebook cells, execution outputs, and the proactive
// suggestion records. Behavior lives in the application layer.
package domain

// CellKind distinguishes the two cell flavors of a notebook document.
type CellKind string

const (
	CellKindCode     CellKind = "code"
	CellKindMarkdown CellKind = "markdown"
)

// MarkdownMode controls how a markdown cell is presented.
// It is meaningful only for markdown cells and ignored for code cells.
type MarkdownMode string

const (
	ModeEdit   MarkdownMode = "edit"
	ModeRender MarkdownMode = "render"
)

// OutputKind tags the variants of an execution output.
type OutputKind string

const (
	OutputLog   OutputKind = "log"
	OutputError OutputKind = "error"
	OutputImage OutputKind = "image"
)

// Output is one typed result attached to a code cell after execution.
// Outputs are immutable once attached. Text carries log/error content;
// Data and MIME are set only for image outputs.
type Output struct {
	Kind OutputKind `json:"kind"`
	Text string     `json:"text,omitempty"`
	Data string     `json:"data,omitempty"`
	MIME string     `json:"mime,omitempty"`
}

// Cell is a single unit of the notebook document.
//
// Invariants maintained by the cell store: ids are unique for the store's
// lifetime, sequence order is the authoritative document order, and Outputs
// is non-empty only for cells that have been executed.
type Cell struct {
	ID                  int          `json:"id"`
	Kind                CellKind     `json:"kind"`
	Content             string       `json:"content"`
	Mode                MarkdownMode `json:"mode,omitempty"`
	Outputs             []Output     `json:"outputs,omitempty"`
	IsExecuted          bool         `json:"-"`
	LastExecutedContent string       `json:"-"`
}

// Dirty reports whether the cell content changed since its last execution.
func (c Cell) Dirty() bool {
	return c.IsExecuted && c.Content != c.LastExecutedContent
}

// CellSpec describes a cell to be inserted into the store. Specs carry no
// id; the store assigns one.
type CellSpec struct {
	Kind    CellKind
	Content string
	Mode    MarkdownMode
	Outputs []Output
}
