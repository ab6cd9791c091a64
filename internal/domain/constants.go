package domain

import "time"

// Storage slot keys. Each slot holds one independent JSON document.
const (
	// KeyNotebook stores the notebook snapshot ({"cells": [...]}).
	KeyNotebook = "nbai.notebook"
	// KeySuggestions stores the trigger -> suggestion list map.
	KeySuggestions = "nbai.suggestions"
	// KeyDislikes stores the permanent dislike set (snippet strings).
	KeyDislikes = "nbai.dislikes"
	// KeySettings stores the opaque application settings document.
	KeySettings = "nbai.settings"
)

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Suggestion scoring constants
const (
	// BaseSuggestionScore is the score assigned to a freshly created suggestion
	BaseSuggestionScore = 10
	// MinSuggestionScore is the floor no feedback can push a score below
	MinSuggestionScore = 1
	// DefaultAcceptDelta is the score adjustment for accepted suggestions
	DefaultAcceptDelta = 1
	// DefaultDislikeDelta is the score adjustment for rejected suggestions
	DefaultDislikeDelta = -5
	// DefaultMaxPerTrigger caps a trigger's suggestion list length
	DefaultMaxPerTrigger = 50
)

// Timing constants
const (
	// DefaultDebounceQuiet is the quiet period before an edited cell is re-evaluated
	DefaultDebounceQuiet = 1500 * time.Millisecond
	// DefaultHTTPClientTimeout is the timeout for provider HTTP requests
	DefaultHTTPClientTimeout = 60 * time.Second
)

// Limit constants
const (
	// DefaultMaxTokens is the default generation budget for snippet requests
	DefaultMaxTokens = 512
	// DefaultCellListLimit is the default number of cells shown by listings
	DefaultCellListLimit = 50
)
