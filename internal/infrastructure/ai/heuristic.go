package ai

import (
	"context"
	"strings"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

type heuristicProvider struct {
	model domain.ModelDefinition
}

func newHeuristicProvider(model domain.ModelDefinition) ports.SnippetProvider {
	return &heuristicProvider{model: model}
}

func (p *heuristicProvider) Name() string {
	return "heuristic"
}

func (p *heuristicProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *heuristicProvider) Generate(_ context.Context, req ports.SnippetRequest) (ports.SnippetResponse, error) {
	snippet := cannedSnippet(req.Trigger)
	return ports.SnippetResponse{
		Snippet: snippet,
		Raw:     "Heuristic provider suggestion (offline fallback)",
	}, nil
}

// cannedSnippet returns a stock snippet per trigger, or nothing. An empty
// snippet is the "no suggestion available" signal, never an error.
func cannedSnippet(trigger string) string {
	switch strings.ToLower(trigger) {
	case "loop":
		return "for (let i = 0; i < items.length; i++) {\n  console.log(items[i]);\n}"
	case "fetch":
		return "const res = await fetch(url);\nconst data = await res.json();"
	case "function":
		return "function process(input) {\n  return input;\n}"
	case "plot":
		return "const canvas = document.querySelector('canvas');\nconst ctx = canvas.getContext('2d');"
	default:
		return ""
	}
}
