package notebook

import (
	"context"
	"sync"
	"time"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/pkg/sched"
	"github.com/doeshing/nbai-go/internal/ports"
)

// SnippetRequester is the callback used to obtain a suggestion for an
// edited cell. Implementations block until the provider answers or ctx is
// cancelled; ok=false means no suggestion is available.
type SnippetRequester func(ctx context.Context, trigger, cellContent string) (domain.Suggestion, bool)

// TriggerDetector extracts the trigger keyword from cell content, if any.
type TriggerDetector func(content string) (string, bool)

// Service orchestrates the notebook document lifecycle: startup restore,
// edit-driven autosave, debounced suggestion evaluation, and explicit
// import/export. All mutation of the underlying store goes through here or
// through UI handlers holding the same *Store.
type Service struct {
	Store   *Store
	Gateway *Gateway
	Logger  ports.Logger

	arena   *sched.Arena
	detect  TriggerDetector
	request SnippetRequester

	mu        sync.Mutex
	inflight  map[int]context.CancelFunc
	displayed map[int]domain.Suggestion
}

// NewService wires the store's autosave hook to the gateway and prepares
// the per-cell debounce arena.
func NewService(store *Store, gateway *Gateway, log ports.Logger, cfg domain.SuggestionSettings, detect TriggerDetector, request SnippetRequester) *Service {
	quiet := domain.DefaultDebounceQuiet
	if cfg.DebounceQuietMS > 0 {
		quiet = time.Duration(cfg.DebounceQuietMS) * time.Millisecond
	}

	s := &Service{
		Store:     store,
		Gateway:   gateway,
		Logger:    log,
		arena:     sched.NewArena(quiet),
		detect:    detect,
		request:   request,
		inflight:  make(map[int]context.CancelFunc),
		displayed: make(map[int]domain.Suggestion),
	}
	store.SetOnChange(s.autosave)
	return s
}

// Start restores the persisted notebook. When nothing usable is persisted
// the store is seeded from the demo document instead, and that seed is
// written back so the next run restores normally.
func (s *Service) Start(demo []domain.CellSpec) {
	if s.Gateway.Restore(s.Store) {
		s.Logger.Info("notebook restored", map[string]interface{}{"cells": s.Store.Len()})
		return
	}
	s.Store.ReplaceAll(demo)
	s.autosave()
	s.Logger.Info("notebook seeded from demo", map[string]interface{}{"cells": s.Store.Len()})
}

// InsertCell appends a cell and persists via the autosave hook.
func (s *Service) InsertCell(spec domain.CellSpec) domain.Cell {
	return s.Store.Insert(spec)
}

// EditCell commits new content for a cell and schedules a debounced
// suggestion evaluation. Each edit resets the cell's quiet-period timer.
func (s *Service) EditCell(id int, content string) bool {
	if !s.Store.UpdateContent(id, content) {
		return false
	}
	s.arena.Schedule(id, func() {
		s.evaluate(id)
	})
	return true
}

// RemoveCell deletes a cell and cancels everything pending for it: the
// debounce task, any in-flight snippet request, and the displayed
// suggestion guard.
func (s *Service) RemoveCell(id int) bool {
	s.arena.Cancel(id)

	s.mu.Lock()
	if cancel, ok := s.inflight[id]; ok {
		cancel()
		delete(s.inflight, id)
	}
	delete(s.displayed, id)
	s.mu.Unlock()

	return s.Store.Remove(id)
}

// Import replaces the whole document from parsed specs (explicit user
// action) and persists the result once.
func (s *Service) Import(specs []domain.CellSpec) {
	s.arena.Shutdown()

	s.mu.Lock()
	for id, cancel := range s.inflight {
		cancel()
		delete(s.inflight, id)
	}
	s.displayed = make(map[int]domain.Suggestion)
	s.mu.Unlock()

	s.Store.ReplaceAll(specs)
	s.autosave()
}

// Export returns the live sequence for serialization by the codec.
func (s *Service) Export() []domain.Cell {
	return s.Store.Cells()
}

// DisplayedSuggestion returns the suggestion currently shown for a cell.
func (s *Service) DisplayedSuggestion(id int) (domain.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.displayed[id]
	return sg, ok
}

// DismissSuggestion clears the displayed guard so a later edit may trigger
// a fresh evaluation.
func (s *Service) DismissSuggestion(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.displayed, id)
}

// evaluate runs after a cell's quiet period. It re-reads the cell (the
// debounce may have outlived an edit or a removal), detects the trigger,
// and issues at most one snippet request per cell at a time.
func (s *Service) evaluate(id int) {
	cell, ok := s.Store.Get(id)
	if !ok || cell.Kind != domain.CellKindCode {
		return
	}
	if s.detect == nil || s.request == nil {
		return
	}
	trigger, ok := s.detect(cell.Content)
	if !ok {
		return
	}

	s.mu.Lock()
	if _, shown := s.displayed[id]; shown {
		s.mu.Unlock()
		return
	}
	if _, busy := s.inflight[id]; busy {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.inflight[id] = cancel
	s.mu.Unlock()

	suggestion, got := s.request(ctx, trigger, cell.Content)

	s.mu.Lock()
	delete(s.inflight, id)
	if got && ctx.Err() == nil {
		s.displayed[id] = suggestion
	}
	s.mu.Unlock()
	cancel()
}

// autosave persists the current snapshot. Failures are logged and dropped:
// the in-memory state remains authoritative and no retry is queued.
func (s *Service) autosave() {
	if err := s.Gateway.Save(s.Store.SerializeSnapshot(nil)); err != nil {
		s.Logger.Warn("autosave failed", map[string]interface{}{"error": err.Error()})
	}
}
