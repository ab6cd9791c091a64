package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

// Service glues memory, selection, and the generative-text boundary into
// the suggestion lifecycle: detect trigger, lazily create memory on first
// miss, then pick a non-disliked snippet by weight.
type Service struct {
	Memory   *Memory
	Selector *Selector
	Factory  ports.ProviderFactory
	Logger   ports.Logger

	config domain.Config
}

// NewService builds the suggestion service.
func NewService(memory *Memory, selector *Selector, factory ports.ProviderFactory, log ports.Logger, cfg domain.Config) *Service {
	return &Service{
		Memory:   memory,
		Selector: selector,
		Factory:  factory,
		Logger:   log,
		config:   cfg,
	}
}

// DetectTrigger returns the first configured trigger keyword that appears
// as a whole word in the cell content.
func (s *Service) DetectTrigger(content string) (string, bool) {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '_'
	}) {
		words[w] = struct{}{}
	}
	for _, trigger := range s.config.Suggestions.Triggers {
		if _, ok := words[strings.ToLower(trigger)]; ok {
			return trigger, true
		}
	}
	return "", false
}

// Suggest resolves a suggestion for a fired trigger. When the trigger has
// no memory entry yet, one snippet is requested from the provider and
// remembered at the base score. Provider failures mean "no suggestion
// available", never a user-facing error.
func (s *Service) Suggest(ctx context.Context, trigger, cellContent string) (domain.Suggestion, bool) {
	entries := s.Memory.Get(trigger)
	if len(entries) == 0 {
		snippet, err := s.generate(ctx, trigger, cellContent)
		if err != nil {
			s.Logger.Warn("snippet generation failed", map[string]interface{}{
				"trigger": trigger,
				"error":   err.Error(),
			})
			return domain.Suggestion{}, false
		}
		if snippet == "" {
			return domain.Suggestion{}, false
		}
		entries = append(entries, s.Memory.Add(trigger, snippet))
	}

	return s.Selector.Select(entries, s.Memory.Disliked)
}

// Feedback applies the user's verdict on a suggestion. Accepts bump the
// score; dislikes lower it and permanently suppress the snippet.
func (s *Service) Feedback(trigger, id string, accepted bool) bool {
	delta := s.config.Suggestions.AcceptDelta
	if delta == 0 {
		delta = domain.DefaultAcceptDelta
	}
	if !accepted {
		delta = s.config.Suggestions.DislikeDelta
		if delta == 0 {
			delta = domain.DefaultDislikeDelta
		}
	}
	return s.Memory.UpdateScore(id, trigger, delta)
}

func (s *Service) generate(ctx context.Context, trigger, cellContent string) (string, error) {
	model, err := s.pickModel()
	if err != nil {
		return "", err
	}
	provider, err := s.Factory.ForModel(model)
	if err != nil {
		return "", fmt.Errorf("provider init: %w", err)
	}

	s.Logger.Info("requesting snippet", map[string]interface{}{
		"provider": provider.Name(),
		"trigger":  trigger,
	})

	resp, err := provider.Generate(ctx, ports.SnippetRequest{
		Trigger:     trigger,
		CellContent: cellContent,
		Instruction: fmt.Sprintf("Propose one short, self-contained code snippet related to %q.", trigger),
		Model:       model,
	})
	if err != nil {
		return "", fmt.Errorf("provider generate: %w", err)
	}
	return strings.TrimSpace(resp.Snippet), nil
}

func (s *Service) pickModel() (domain.ModelDefinition, error) {
	name := s.config.Preferences.DefaultModel
	if name == "" && len(s.config.Models) > 0 {
		return s.config.Models[0], nil
	}
	for _, model := range s.config.Models {
		if model.Name == name {
			return model, nil
		}
	}
	return domain.ModelDefinition{}, fmt.Errorf("model %s not configured", name)
}
