// Package notebookfmt converts between the live cell sequence and the
// plain-text interchange format used for notebook import and export.
//
// The format is line-oriented and marker-delimited:
//
//	// [CODE STARTS]
//	let x = 1;
//	// [CODE ENDS]
//	/* Output
//	hello
//	*/
//	/* Markdown (render)
//	# Title
//	*/
//
// Parsing is a tolerant single pass: lines outside any recognized block are
// ignored, never an error. Serialization is the structural inverse; the
// round-trip preserves kinds, content (modulo surrounding whitespace),
// modes, and output attachment, not bytes.
package notebookfmt

import (
	"strings"

	"github.com/doeshing/nbai-go/internal/domain"
)

// Block markers.
const (
	markerCodeStart  = "// [CODE STARTS]"
	markerCodeEnd    = "// [CODE ENDS]"
	markerMarkdown   = "/* Markdown"
	markerRenderFlag = "(render)"
	markerOutput     = "/* Output"
	markerClose      = "*/"
)

type parseState int

const (
	stateNone parseState = iota
	stateInCode
	stateInMarkdown
	stateInOutput
)

// Parse scans text into an ordered list of cell specifications. Output
// blocks become log outputs attached to the most recently emitted code
// cell; output blocks seen before any code cell are silently dropped.
func Parse(text string) []domain.CellSpec {
	p := &parser{lastCode: -1}
	for _, line := range strings.Split(text, "\n") {
		p.feed(strings.TrimSuffix(line, "\r"))
	}
	p.finish()
	return p.specs
}

type parser struct {
	state    parseState
	buf      []string
	mdRender bool
	specs    []domain.CellSpec
	lastCode int
}

func (p *parser) feed(line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == markerCodeStart:
		p.flush()
		p.state = stateInCode
		return
	case trimmed == markerCodeEnd:
		p.flush()
		p.state = stateNone
		return
	case strings.HasPrefix(trimmed, markerMarkdown):
		p.flush()
		p.state = stateInMarkdown
		p.mdRender = strings.Contains(trimmed, markerRenderFlag)
		return
	case trimmed == markerOutput:
		p.flush()
		p.state = stateInOutput
		return
	}

	if (p.state == stateInMarkdown || p.state == stateInOutput) && strings.Contains(line, markerClose) {
		// The portion before */ is the final content line; anything after
		// the marker on the same physical line is discarded.
		before := strings.TrimSpace(line[:strings.Index(line, markerClose)])
		if before != "" {
			p.buf = append(p.buf, before)
		}
		p.flush()
		p.state = stateNone
		return
	}

	switch p.state {
	case stateInCode, stateInMarkdown, stateInOutput:
		p.buf = append(p.buf, line)
	case stateNone:
		// Stray text outside any block is ignored.
	}
}

// flush closes whatever block is pending and resets the buffer. Empty code
// blocks emit no cell; markdown blocks always emit; output blocks attach to
// the last code cell or are dropped.
func (p *parser) flush() {
	content := strings.TrimSpace(strings.Join(p.buf, "\n"))
	p.buf = p.buf[:0]

	switch p.state {
	case stateInCode:
		if content == "" {
			return
		}
		p.specs = append(p.specs, domain.CellSpec{
			Kind:    domain.CellKindCode,
			Content: content,
		})
		p.lastCode = len(p.specs) - 1
	case stateInMarkdown:
		mode := domain.ModeEdit
		if p.mdRender {
			mode = domain.ModeRender
		}
		p.mdRender = false
		p.specs = append(p.specs, domain.CellSpec{
			Kind:    domain.CellKindMarkdown,
			Content: content,
			Mode:    mode,
		})
	case stateInOutput:
		if p.lastCode < 0 {
			return
		}
		p.specs[p.lastCode].Outputs = append(p.specs[p.lastCode].Outputs, domain.Output{
			Kind: domain.OutputLog,
			Text: content,
		})
	}
}

func (p *parser) finish() {
	p.flush()
	p.state = stateNone
}

// Serialize renders cells into the canonical interchange form: code cells
// wrapped in the code markers with each of their outputs as its own Output
// block immediately after, markdown cells as Markdown blocks carrying the
// render flag when applicable.
func Serialize(cells []domain.Cell) string {
	var b strings.Builder
	for _, cell := range cells {
		switch cell.Kind {
		case domain.CellKindCode:
			b.WriteString(markerCodeStart)
			b.WriteString("\n")
			b.WriteString(cell.Content)
			b.WriteString("\n")
			b.WriteString(markerCodeEnd)
			b.WriteString("\n\n")
			for _, out := range cell.Outputs {
				b.WriteString(markerOutput)
				b.WriteString("\n")
				b.WriteString(outputText(out))
				b.WriteString("\n")
				b.WriteString(markerClose)
				b.WriteString("\n\n")
			}
		case domain.CellKindMarkdown:
			b.WriteString(markerMarkdown)
			if cell.Mode == domain.ModeRender {
				b.WriteString(" " + markerRenderFlag)
			}
			b.WriteString("\n")
			b.WriteString(cell.Content)
			b.WriteString("\n")
			b.WriteString(markerClose)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// outputText flattens an output for the text format. The format has no
// binary escape, so images export as a placeholder.
func outputText(out domain.Output) string {
	if out.Kind == domain.OutputImage {
		mime := out.MIME
		if mime == "" {
			mime = "image"
		}
		return "[image " + mime + "]"
	}
	return out.Text
}
