// Package notebook owns the in-memory notebook document: the ordered cell
// sequence, its id assignment, and the persistence round-trip through the
// key-value store.
package notebook

import (
	"sync"

	"github.com/doeshing/nbai-go/internal/domain"
)

// Store owns the ordered cell sequence. All mutation funnels through it.
// There is exactly one Store per running engine; it is passed explicitly to
// every consumer instead of living in package state.
type Store struct {
	mu       sync.Mutex
	cells    []domain.Cell
	nextID   int
	onChange func()
}

// NewStore creates an empty store. Ids start at 1 and only ever grow.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// SetOnChange registers the autosave hook fired after every Insert and
// Remove. ReplaceAll never fires it: a restore must not persist partial
// states mid-way through.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Insert appends a new cell at the end of the sequence and assigns the next
// id from the strictly increasing counter. When the spec carries initial
// outputs the cell is marked executed with its content snapshotted. Insert
// always succeeds.
func (s *Store) Insert(spec domain.CellSpec) domain.Cell {
	s.mu.Lock()
	cell := s.insertLocked(spec)
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
	return cell
}

func (s *Store) insertLocked(spec domain.CellSpec) domain.Cell {
	cell := domain.Cell{
		ID:      s.nextID,
		Kind:    spec.Kind,
		Content: spec.Content,
		Outputs: append([]domain.Output(nil), spec.Outputs...),
	}
	s.nextID++

	if spec.Kind == domain.CellKindMarkdown {
		cell.Mode = spec.Mode
		if cell.Mode == "" {
			cell.Mode = domain.ModeEdit
		}
	}
	if len(cell.Outputs) > 0 {
		cell.IsExecuted = true
		cell.LastExecutedContent = cell.Content
	}

	s.cells = append(s.cells, cell)
	return cell
}

// Remove deletes the cell with the given id. Removing an unknown id is a
// no-op, not an error; the return value tells callers whether any pending
// per-cell work needs cancelling.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	removed := false
	for i, cell := range s.cells {
		if cell.ID == id {
			s.cells = append(s.cells[:i], s.cells[i+1:]...)
			removed = true
			break
		}
	}
	fn := s.onChange
	s.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
	return removed
}

// ReplaceAll atomically clears the sequence and bulk-inserts specs in
// order. Used only during load. Ids are assigned fresh from the counter so
// they stay unique for the store's lifetime even across restores. The
// autosave hook is deliberately not fired.
func (s *Store) ReplaceAll(specs []domain.CellSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cells = s.cells[:0]
	for _, spec := range specs {
		s.insertLocked(spec)
	}
}

// UpdateContent overwrites a cell's content. Returns false for unknown ids.
func (s *Store) UpdateContent(id int, content string) bool {
	s.mu.Lock()
	updated := false
	for i := range s.cells {
		if s.cells[i].ID == id {
			s.cells[i].Content = content
			updated = true
			break
		}
	}
	fn := s.onChange
	s.mu.Unlock()

	if updated && fn != nil {
		fn()
	}
	return updated
}

// SetMode switches a markdown cell between edit and render presentation.
// Code cells are left untouched.
func (s *Store) SetMode(id int, mode domain.MarkdownMode) bool {
	s.mu.Lock()
	updated := false
	for i := range s.cells {
		if s.cells[i].ID == id && s.cells[i].Kind == domain.CellKindMarkdown {
			s.cells[i].Mode = mode
			updated = true
			break
		}
	}
	fn := s.onChange
	s.mu.Unlock()

	if updated && fn != nil {
		fn()
	}
	return updated
}

// Get returns a copy of the cell with the given id.
func (s *Store) Get(id int) (domain.Cell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cell := range s.cells {
		if cell.ID == id {
			return cell, true
		}
	}
	return domain.Cell{}, false
}

// Cells returns a copy of the live sequence in document order.
func (s *Store) Cells() []domain.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Len reports the number of cells.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cells)
}

// SerializeSnapshot produces the exact shape persisted by the gateway.
// Live, not-yet-committed edits sourced from the active editor view are
// passed in as overrides (cell id -> current text) and applied over the
// stored content without mutating it.
func (s *Store) SerializeSnapshot(overrides map[int]string) domain.NotebookSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := domain.NotebookSnapshot{Cells: make([]domain.CellRecord, 0, len(s.cells))}
	for _, cell := range s.cells {
		content := cell.Content
		if live, ok := overrides[cell.ID]; ok {
			content = live
		}
		snapshot.Cells = append(snapshot.Cells, domain.CellRecord{
			ID:      cell.ID,
			Kind:    cell.Kind,
			Content: content,
			Mode:    cell.Mode,
			Outputs: append([]domain.Output(nil), cell.Outputs...),
		})
	}
	return snapshot
}
