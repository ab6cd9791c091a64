package suggest

import (
	"encoding/json"
	"testing"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/pkg/logger"
)

type stubKV struct {
	data map[string][]byte
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string][]byte)}
}

func (s *stubKV) Get(key string) ([]byte, bool, error) {
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *stubKV) Set(key string, value []byte) error {
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubKV) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func testSettings() domain.SuggestionSettings {
	return domain.SuggestionSettings{
		BaseScore:     domain.BaseSuggestionScore,
		MaxPerTrigger: domain.DefaultMaxPerTrigger,
	}
}

func TestMemoryAddAssignsBaseScore(t *testing.T) {
	memory := NewMemory(newStubKV(), logger.NewStd(false), testSettings())

	s := memory.Add("loop", "for {}")
	if s.Score != domain.BaseSuggestionScore {
		t.Fatalf("expected base score %d, got %d", domain.BaseSuggestionScore, s.Score)
	}
	if s.ID == "" {
		t.Fatal("expected a generated id")
	}

	entries := memory.Get("loop")
	if len(entries) != 1 || entries[0].Snippet != "for {}" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestMemoryScoreNeverDropsBelowFloor(t *testing.T) {
	memory := NewMemory(newStubKV(), logger.NewStd(false), testSettings())
	s := memory.Add("loop", "for {}")

	deltas := []int{-5, -5, -100, 3, -50}
	for _, delta := range deltas {
		if !memory.UpdateScore(s.ID, "loop", delta) {
			t.Fatalf("UpdateScore(%d) did not find the entry", delta)
		}
		entries := memory.Get("loop")
		if entries[0].Score < domain.MinSuggestionScore {
			t.Fatalf("score %d fell below floor after delta %d", entries[0].Score, delta)
		}
	}
}

func TestMemoryNegativeFeedbackRecordsDislike(t *testing.T) {
	kv := newStubKV()
	memory := NewMemory(kv, logger.NewStd(false), testSettings())
	s := memory.Add("loop", "for {}")

	memory.UpdateScore(s.ID, "loop", -5)

	if !memory.Disliked("for {}") {
		t.Fatal("snippet not recorded as disliked")
	}
	// Positive feedback never un-dislikes.
	memory.UpdateScore(s.ID, "loop", 1)
	if !memory.Disliked("for {}") {
		t.Fatal("dislike was lifted by positive feedback")
	}

	// The dislike survives a reload from the same store.
	reloaded := NewMemory(kv, logger.NewStd(false), testSettings())
	if !reloaded.Disliked("for {}") {
		t.Fatal("dislike was not persisted")
	}
}

func TestMemoryUpdateScoreUnknownID(t *testing.T) {
	memory := NewMemory(newStubKV(), logger.NewStd(false), testSettings())
	memory.Add("loop", "for {}")

	if memory.UpdateScore("missing", "loop", 1) {
		t.Fatal("UpdateScore accepted an unknown id")
	}
	if memory.UpdateScore("missing", "fetch", 1) {
		t.Fatal("UpdateScore accepted an unknown trigger")
	}
}

func TestMemoryCapEvictsLowestScoredEntry(t *testing.T) {
	cfg := testSettings()
	cfg.MaxPerTrigger = 3
	memory := NewMemory(newStubKV(), logger.NewStd(false), cfg)

	a := memory.Add("loop", "a")
	memory.Add("loop", "b")
	memory.Add("loop", "c")
	memory.UpdateScore(a.ID, "loop", 5)

	memory.Add("loop", "d")

	entries := memory.Get("loop")
	if len(entries) != 3 {
		t.Fatalf("expected cap of 3, got %d entries", len(entries))
	}
	for _, entry := range entries {
		// b was the lowest-scored earliest entry.
		if entry.Snippet == "b" {
			t.Fatal("lowest-scored entry was not evicted")
		}
	}
}

func TestMemoryPersistsAcrossInstances(t *testing.T) {
	kv := newStubKV()
	memory := NewMemory(kv, logger.NewStd(false), testSettings())
	s := memory.Add("fetch", "http.Get")
	memory.UpdateScore(s.ID, "fetch", 2)

	reloaded := NewMemory(kv, logger.NewStd(false), testSettings())
	entries := reloaded.Get("fetch")
	if len(entries) != 1 {
		t.Fatalf("expected 1 persisted entry, got %d", len(entries))
	}
	if entries[0].Score != domain.BaseSuggestionScore+2 {
		t.Fatalf("expected persisted score %d, got %d", domain.BaseSuggestionScore+2, entries[0].Score)
	}
}

func TestMemoryCorruptSlotsArePurged(t *testing.T) {
	kv := newStubKV()
	kv.data[domain.KeySuggestions] = []byte("{broken")
	kv.data[domain.KeyDislikes] = []byte("{broken")

	memory := NewMemory(kv, logger.NewStd(false), testSettings())
	if len(memory.Triggers()) != 0 {
		t.Fatal("corrupt memory should start empty")
	}
	if _, found, _ := kv.Get(domain.KeySuggestions); found {
		t.Fatal("corrupt suggestions slot was not purged")
	}
	if _, found, _ := kv.Get(domain.KeyDislikes); found {
		t.Fatal("corrupt dislikes slot was not purged")
	}
}

func TestMemoryClearWipesBothSlots(t *testing.T) {
	kv := newStubKV()
	memory := NewMemory(kv, logger.NewStd(false), testSettings())
	s := memory.Add("loop", "for {}")
	memory.UpdateScore(s.ID, "loop", -5)

	memory.Clear()

	if len(memory.Triggers()) != 0 || memory.Disliked("for {}") {
		t.Fatal("Clear left in-memory state behind")
	}
	if _, found, _ := kv.Get(domain.KeySuggestions); found {
		t.Fatal("suggestions slot survived Clear")
	}
	if _, found, _ := kv.Get(domain.KeyDislikes); found {
		t.Fatal("dislikes slot survived Clear")
	}
}

func TestMemoryTriggersSorted(t *testing.T) {
	memory := NewMemory(newStubKV(), logger.NewStd(false), testSettings())
	memory.Add("plot", "p")
	memory.Add("fetch", "f")
	memory.Add("loop", "l")

	got := memory.Triggers()
	want := []string{"fetch", "loop", "plot"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMemoryPersistedFormat(t *testing.T) {
	kv := newStubKV()
	memory := NewMemory(kv, logger.NewStd(false), testSettings())
	memory.Add("loop", "for {}")

	raw, found, _ := kv.Get(domain.KeySuggestions)
	if !found {
		t.Fatal("suggestions slot not written")
	}
	var decoded domain.SuggestionMap
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("persisted payload is not a suggestion map: %v", err)
	}
	if len(decoded["loop"]) != 1 {
		t.Fatalf("unexpected persisted payload %s", raw)
	}
}
