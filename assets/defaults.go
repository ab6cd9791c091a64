package assets

import (
	_ "embed"
)

// DefaultNotebook contains the embedded demo document in the interchange
// format. It seeds the store when nothing usable is persisted.
//
//go:embed defaults/demo.nb
var DefaultNotebook []byte
