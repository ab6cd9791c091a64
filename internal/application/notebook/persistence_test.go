package notebook

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/pkg/logger"
)

type memoryKV struct {
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(key string) ([]byte, bool, error) {
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memoryKV) Set(key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestGatewaySaveLoadRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	gateway := NewGateway(kv, logger.NewStd(false))

	want := domain.NotebookSnapshot{Cells: []domain.CellRecord{
		{ID: 1, Kind: domain.CellKindCode, Content: "x = 1", Outputs: []domain.Output{{Kind: domain.OutputLog, Text: "1"}}},
		{ID: 2, Kind: domain.CellKindMarkdown, Content: "# notes", Mode: domain.ModeRender},
	}}

	if err := gateway.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok := gateway.Load()
	if !ok {
		t.Fatal("Load() reported no snapshot after Save")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestGatewayLoadAbsentSlot(t *testing.T) {
	gateway := NewGateway(newMemoryKV(), logger.NewStd(false))
	if _, ok := gateway.Load(); ok {
		t.Fatal("Load() reported a snapshot for an empty store")
	}
}

func TestGatewayPurgesCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid json", raw: "{not json"},
		{name: "missing cells array", raw: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemoryKV()
			kv.data[domain.KeyNotebook] = []byte(tt.raw)
			gateway := NewGateway(kv, logger.NewStd(false))

			if _, ok := gateway.Load(); ok {
				t.Fatal("Load() accepted corrupt data")
			}
			if _, found, _ := kv.Get(domain.KeyNotebook); found {
				t.Fatal("corrupt slot was not purged")
			}
		})
	}
}

func TestGatewayRestorePopulatesStore(t *testing.T) {
	kv := newMemoryKV()
	gateway := NewGateway(kv, logger.NewStd(false))

	_ = gateway.Save(domain.NotebookSnapshot{Cells: []domain.CellRecord{
		{ID: 7, Kind: domain.CellKindCode, Content: "a"},
		{ID: 9, Kind: domain.CellKindCode, Content: "b"},
	}})

	store := NewStore()
	if !gateway.Restore(store) {
		t.Fatal("Restore() failed with a valid snapshot")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 cells, got %d", store.Len())
	}

	// Restored cells get fresh ids from the live counter, not the
	// persisted ones.
	cells := store.Cells()
	if cells[0].ID != 1 || cells[1].ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", cells[0].ID, cells[1].ID)
	}
}

func TestGatewaySettingsRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	gateway := NewGateway(kv, logger.NewStd(false))

	if err := gateway.SaveSettings(json.RawMessage(`{"theme":"dark"}`)); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, ok := gateway.LoadSettings()
	if !ok {
		t.Fatal("LoadSettings() missing after save")
	}
	if string(got) != `{"theme":"dark"}` {
		t.Fatalf("unexpected settings %s", got)
	}

	if err := gateway.SaveSettings(json.RawMessage(`[1,2]`)); err == nil {
		t.Fatal("SaveSettings() accepted a non-object document")
	}
}

func TestGatewayLoadSettingsPurgesCorrupt(t *testing.T) {
	kv := newMemoryKV()
	kv.data[domain.KeySettings] = []byte("not json")
	gateway := NewGateway(kv, logger.NewStd(false))

	if _, ok := gateway.LoadSettings(); ok {
		t.Fatal("LoadSettings() accepted corrupt data")
	}
	if _, found, _ := kv.Get(domain.KeySettings); found {
		t.Fatal("corrupt settings slot was not purged")
	}
}
