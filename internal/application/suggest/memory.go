// Package suggest implements the proactive suggestion engine: persisted
// trigger -> snippet memory with weighted, feedback-adjusted selection.
package suggest

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

// Memory is the persisted mapping of trigger keyword to its ordered list of
// scored suggestions, plus the permanent dislike set. Mutations persist
// immediately; storage failures degrade to in-memory-only operation.
type Memory struct {
	mu       sync.Mutex
	triggers domain.SuggestionMap
	dislikes map[string]struct{}

	kv         ports.KeyValueStore
	log        ports.Logger
	base       int
	maxEntries int
}

// NewMemory loads the suggestion slots from the key-value store. Corrupt
// data is purged and the memory starts empty rather than failing.
func NewMemory(kv ports.KeyValueStore, log ports.Logger, cfg domain.SuggestionSettings) *Memory {
	m := &Memory{
		triggers:   make(domain.SuggestionMap),
		dislikes:   make(map[string]struct{}),
		kv:         kv,
		log:        log,
		base:       cfg.BaseScore,
		maxEntries: cfg.MaxPerTrigger,
	}
	if m.base <= 0 {
		m.base = domain.BaseSuggestionScore
	}
	if m.maxEntries <= 0 {
		m.maxEntries = domain.DefaultMaxPerTrigger
	}
	m.load()
	return m
}

// Get returns the suggestions stored for a trigger, empty if absent.
func (m *Memory) Get(trigger string) []domain.Suggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Suggestion(nil), m.triggers[trigger]...)
}

// Add creates a new suggestion at the base score, appends it to the
// trigger's list, and persists. When the list is at capacity the
// lowest-scored entry (earliest on ties) is evicted first.
func (m *Memory) Add(trigger, snippet string) domain.Suggestion {
	s := domain.Suggestion{
		ID:      uuid.NewString(),
		Trigger: trigger,
		Snippet: snippet,
		Score:   m.base,
	}

	m.mu.Lock()
	list := m.triggers[trigger]
	if len(list) >= m.maxEntries {
		list = append(list[:0:0], list...)
		drop := 0
		for i, existing := range list {
			if existing.Score < list[drop].Score {
				drop = i
			}
		}
		list = append(list[:drop], list[drop+1:]...)
	}
	m.triggers[trigger] = append(list, s)
	m.mu.Unlock()

	m.persistTriggers()
	return s
}

// UpdateScore adjusts a suggestion's score by delta, clamped at the floor
// of 1. Negative feedback additionally records the snippet in the permanent
// dislike set; the dislike set, not the floor, is what blocks future
// selection.
func (m *Memory) UpdateScore(id, trigger string, delta int) bool {
	m.mu.Lock()
	updated := false
	var snippet string
	list := m.triggers[trigger]
	for i := range list {
		if list[i].ID == id {
			list[i].Score += delta
			if list[i].Score < domain.MinSuggestionScore {
				list[i].Score = domain.MinSuggestionScore
			}
			snippet = list[i].Snippet
			updated = true
			break
		}
	}
	disliked := updated && delta < 0
	if disliked {
		m.dislikes[snippet] = struct{}{}
	}
	m.mu.Unlock()

	if updated {
		m.persistTriggers()
	}
	if disliked {
		m.persistDislikes()
	}
	return updated
}

// Disliked reports whether a snippet is permanently suppressed.
func (m *Memory) Disliked(snippet string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.dislikes[snippet]
	return ok
}

// Triggers lists the known trigger keywords in sorted order.
func (m *Memory) Triggers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.triggers))
	for trigger := range m.triggers {
		out = append(out, trigger)
	}
	sort.Strings(out)
	return out
}

// Clear wipes the in-memory state and both storage slots.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.triggers = make(domain.SuggestionMap)
	m.dislikes = make(map[string]struct{})
	m.mu.Unlock()

	if err := m.kv.Delete(domain.KeySuggestions); err != nil {
		m.log.Warn("clear suggestions failed", map[string]interface{}{"error": err.Error()})
	}
	if err := m.kv.Delete(domain.KeyDislikes); err != nil {
		m.log.Warn("clear dislikes failed", map[string]interface{}{"error": err.Error()})
	}
}

func (m *Memory) load() {
	if data, found, err := m.kv.Get(domain.KeySuggestions); err == nil && found {
		var triggers domain.SuggestionMap
		if jsonErr := json.Unmarshal(data, &triggers); jsonErr != nil {
			m.log.Warn("corrupt suggestion memory purged", map[string]interface{}{"error": jsonErr.Error()})
			_ = m.kv.Delete(domain.KeySuggestions)
		} else if triggers != nil {
			m.triggers = triggers
		}
	}

	if data, found, err := m.kv.Get(domain.KeyDislikes); err == nil && found {
		var snippets []string
		if jsonErr := json.Unmarshal(data, &snippets); jsonErr != nil {
			m.log.Warn("corrupt dislike set purged", map[string]interface{}{"error": jsonErr.Error()})
			_ = m.kv.Delete(domain.KeyDislikes)
		} else {
			for _, s := range snippets {
				m.dislikes[s] = struct{}{}
			}
		}
	}
}

func (m *Memory) persistTriggers() {
	m.mu.Lock()
	data, err := json.Marshal(m.triggers)
	m.mu.Unlock()
	if err != nil {
		m.log.Warn("encode suggestion memory failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := m.kv.Set(domain.KeySuggestions, data); err != nil {
		m.log.Warn("persist suggestion memory failed", map[string]interface{}{"error": err.Error()})
	}
}

func (m *Memory) persistDislikes() {
	m.mu.Lock()
	snippets := make([]string, 0, len(m.dislikes))
	for s := range m.dislikes {
		snippets = append(snippets, s)
	}
	m.mu.Unlock()
	sort.Strings(snippets)

	data, err := json.Marshal(snippets)
	if err != nil {
		m.log.Warn("encode dislike set failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := m.kv.Set(domain.KeyDislikes, data); err != nil {
		m.log.Warn("persist dislike set failed", map[string]interface{}{"error": err.Error()})
	}
}
