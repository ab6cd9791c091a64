// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). Following the Ports and Adapters
// (Hexagonal) pattern, these interfaces keep the notebook engine independent
// of specific implementations like SQLite, the filesystem, or a hosted
// generative-text service.
package ports

import (
	"context"

	"github.com/doeshing/nbai-go/internal/domain"
)

// KeyValueStore is the persistence boundary. Each key holds one independent
// JSON document. Get reports absence via the bool rather than an error so
// callers can distinguish "never written" from an actual storage failure.
type KeyValueStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.nbai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// SnippetRequest contains all data needed to generate a suggestion snippet.
type SnippetRequest struct {
	Trigger     string
	CellContent string
	Instruction string
	Model       domain.ModelDefinition
}

// SnippetResponse carries the generated snippet. An empty Snippet means the
// provider had nothing usable to offer; callers treat that as "no
// suggestion available", not as an error.
type SnippetResponse struct {
	Snippet string
	Raw     string
}

// SnippetProvider defines the opaque generative-text boundary. Each
// implementation wraps a specific service API (or an offline fallback).
type SnippetProvider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(context.Context, SnippetRequest) (SnippetResponse, error)
}

// ProviderFactory builds provider instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (SnippetProvider, error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external
// services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
