package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/pkg/logger"
	"github.com/doeshing/nbai-go/internal/ports"
)

type stubProvider struct {
	snippet string
	err     error
	calls   int
}

func (p *stubProvider) Name() string                  { return "stub" }
func (p *stubProvider) Model() domain.ModelDefinition { return domain.ModelDefinition{Name: "stub"} }

func (p *stubProvider) Generate(context.Context, ports.SnippetRequest) (ports.SnippetResponse, error) {
	p.calls++
	return ports.SnippetResponse{Snippet: p.snippet}, p.err
}

type stubFactory struct {
	provider ports.SnippetProvider
	err      error
}

func (f stubFactory) ForModel(domain.ModelDefinition) (ports.SnippetProvider, error) {
	return f.provider, f.err
}

func testConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultModel: "stub"},
		Suggestions: domain.SuggestionSettings{
			BaseScore:    domain.BaseSuggestionScore,
			AcceptDelta:  domain.DefaultAcceptDelta,
			DislikeDelta: domain.DefaultDislikeDelta,
			Triggers:     []string{"loop", "fetch", "plot"},
		},
		Models: []domain.ModelDefinition{{Name: "stub"}},
	}
}

func newTestService(provider ports.SnippetProvider, factoryErr error) *Service {
	memory := NewMemory(newStubKV(), logger.NewStd(false), testConfig().Suggestions)
	return NewService(
		memory,
		NewSelector(),
		stubFactory{provider: provider, err: factoryErr},
		logger.NewStd(false),
		testConfig(),
	)
}

func TestDetectTriggerMatchesWholeWordsOnly(t *testing.T) {
	svc := newTestService(&stubProvider{}, nil)

	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{name: "plain keyword", content: "write a loop here", want: "loop", ok: true},
		{name: "case insensitive", content: "LOOP over items", want: "loop", ok: true},
		{name: "punctuation boundary", content: "fetch(url)", want: "fetch", ok: true},
		{name: "substring does not fire", content: "looped around", ok: false},
		{name: "underscore keeps word intact", content: "my_loop = 1", ok: false},
		{name: "no keyword", content: "x = 1", ok: false},
		{name: "first configured trigger wins", content: "plot the fetch loop", want: "loop", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := svc.DetectTrigger(tt.content)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("DetectTrigger(%q) = %q, %v; want %q, %v", tt.content, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSuggestCreatesMemoryEntryOnFirstMiss(t *testing.T) {
	provider := &stubProvider{snippet: "for x := range xs {}"}
	svc := newTestService(provider, nil)

	got, ok := svc.Suggest(context.Background(), "loop", "a loop")
	if !ok {
		t.Fatal("Suggest() returned nothing despite working provider")
	}
	if got.Snippet != "for x := range xs {}" {
		t.Fatalf("unexpected snippet %q", got.Snippet)
	}
	if got.Score != domain.BaseSuggestionScore {
		t.Fatalf("new entry should carry base score, got %d", got.Score)
	}

	// The entry is remembered; a second call reuses it without another
	// provider round-trip.
	if _, ok := svc.Suggest(context.Background(), "loop", "a loop"); !ok {
		t.Fatal("second Suggest() failed")
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestSuggestProviderFailureMeansNoSuggestion(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		factory  error
	}{
		{name: "generate error", provider: &stubProvider{err: errors.New("boom")}},
		{name: "factory error", provider: &stubProvider{}, factory: errors.New("no provider")},
		{name: "empty snippet", provider: &stubProvider{snippet: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.provider, tt.factory)
			if _, ok := svc.Suggest(context.Background(), "loop", "a loop"); ok {
				t.Fatal("Suggest() produced a suggestion from a failing provider")
			}
			if len(svc.Memory.Get("loop")) != 0 {
				t.Fatal("failed generation must not be remembered")
			}
		})
	}
}

func TestSuggestSkipsDislikedEntries(t *testing.T) {
	svc := newTestService(&stubProvider{}, nil)
	bad := svc.Memory.Add("loop", "bad snippet")
	good := svc.Memory.Add("loop", "good snippet")
	svc.Memory.UpdateScore(bad.ID, "loop", domain.DefaultDislikeDelta)

	for i := 0; i < 20; i++ {
		got, ok := svc.Suggest(context.Background(), "loop", "a loop")
		if !ok {
			t.Fatal("Suggest() returned nothing")
		}
		if got.ID != good.ID {
			t.Fatalf("disliked suggestion %q was selected", got.Snippet)
		}
	}
}

func TestFeedbackAppliesConfiguredDeltas(t *testing.T) {
	svc := newTestService(&stubProvider{}, nil)
	s := svc.Memory.Add("loop", "for {}")

	if !svc.Feedback("loop", s.ID, true) {
		t.Fatal("accept feedback failed")
	}
	entries := svc.Memory.Get("loop")
	if entries[0].Score != domain.BaseSuggestionScore+domain.DefaultAcceptDelta {
		t.Fatalf("accept delta not applied, score %d", entries[0].Score)
	}

	if !svc.Feedback("loop", s.ID, false) {
		t.Fatal("dislike feedback failed")
	}
	entries = svc.Memory.Get("loop")
	want := domain.BaseSuggestionScore + domain.DefaultAcceptDelta + domain.DefaultDislikeDelta
	if want < domain.MinSuggestionScore {
		want = domain.MinSuggestionScore
	}
	if entries[0].Score != want {
		t.Fatalf("dislike delta not applied, score %d want %d", entries[0].Score, want)
	}
	if !svc.Memory.Disliked("for {}") {
		t.Fatal("dislike feedback did not suppress the snippet")
	}
}
