package domain

// CellRecord is the persisted shape of a cell inside a notebook snapshot.
type CellRecord struct {
	ID      int          `json:"id"`
	Kind    CellKind     `json:"kind"`
	Content string       `json:"content"`
	Mode    MarkdownMode `json:"mode,omitempty"`
	Outputs []Output     `json:"outputs,omitempty"`
}

// NotebookSnapshot is the JSON document stored under the notebook slot.
type NotebookSnapshot struct {
	Cells []CellRecord `json:"cells"`
}

// Spec converts a persisted record back into an insertable spec.
func (r CellRecord) Spec() CellSpec {
	return CellSpec{
		Kind:    r.Kind,
		Content: r.Content,
		Mode:    r.Mode,
		Outputs: r.Outputs,
	}
}

// Specs converts a snapshot into the ordered spec list used by ReplaceAll.
func (s NotebookSnapshot) Specs() []CellSpec {
	specs := make([]CellSpec, 0, len(s.Cells))
	for _, rec := range s.Cells {
		specs = append(specs, rec.Spec())
	}
	return specs
}
