package notebook

import (
	"encoding/json"
	"fmt"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

// Gateway serializes the notebook snapshot to the key-value store and back.
// Save failures are non-fatal: the in-memory store stays authoritative and
// no retry is scheduled. Corrupt persisted data is purged rather than
// surfaced.
type Gateway struct {
	KV     ports.KeyValueStore
	Logger ports.Logger
}

// NewGateway builds a gateway over the given store slot backend.
func NewGateway(kv ports.KeyValueStore, log ports.Logger) *Gateway {
	return &Gateway{KV: kv, Logger: log}
}

// Save writes the JSON-encoded snapshot under the notebook slot. The error
// is returned for callers that care, but autosave call sites log and move
// on.
func (g *Gateway) Save(snapshot domain.NotebookSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := g.KV.Set(domain.KeyNotebook, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads and decodes the persisted snapshot. It returns ok=false when
// the slot was never written or held corrupt data; in the corrupt case the
// offending key is deleted so the next run starts clean.
func (g *Gateway) Load() (domain.NotebookSnapshot, bool) {
	data, found, err := g.KV.Get(domain.KeyNotebook)
	if err != nil {
		g.Logger.Warn("notebook load failed", map[string]interface{}{"error": err.Error()})
		return domain.NotebookSnapshot{}, false
	}
	if !found {
		return domain.NotebookSnapshot{}, false
	}

	var snapshot domain.NotebookSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		g.purgeCorrupt(err)
		return domain.NotebookSnapshot{}, false
	}
	if snapshot.Cells == nil {
		g.purgeCorrupt(fmt.Errorf("snapshot missing cells array"))
		return domain.NotebookSnapshot{}, false
	}
	return snapshot, true
}

// Restore replaces the store's contents from the persisted snapshot.
// ReplaceAll keeps the autosave hook quiet for the whole bulk insert, so no
// partial state is persisted mid-restore.
func (g *Gateway) Restore(store *Store) bool {
	snapshot, ok := g.Load()
	if !ok {
		return false
	}
	store.ReplaceAll(snapshot.Specs())
	return true
}

// SaveSettings stores the opaque application settings document. The engine
// validates that it is a JSON object but does not interpret it.
func (g *Gateway) SaveSettings(settings json.RawMessage) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(settings, &probe); err != nil {
		return fmt.Errorf("settings must be a JSON object: %w", err)
	}
	if err := g.KV.Set(domain.KeySettings, settings); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// LoadSettings reads the settings slot. Corrupt content is purged and
// reported as absent.
func (g *Gateway) LoadSettings() (json.RawMessage, bool) {
	data, found, err := g.KV.Get(domain.KeySettings)
	if err != nil || !found {
		return nil, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		g.Logger.Warn("corrupt settings purged", map[string]interface{}{"error": err.Error()})
		_ = g.KV.Delete(domain.KeySettings)
		return nil, false
	}
	return data, true
}

func (g *Gateway) purgeCorrupt(cause error) {
	g.Logger.Warn("corrupt notebook snapshot purged", map[string]interface{}{"error": cause.Error()})
	if err := g.KV.Delete(domain.KeyNotebook); err != nil {
		g.Logger.Warn("purge failed", map[string]interface{}{"error": err.Error()})
	}
}
