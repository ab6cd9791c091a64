package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doeshing/nbai-go/internal/domain"
	"github.com/doeshing/nbai-go/internal/ports"
)

func TestExtractSnippet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "fenced block with language tag",
			content: "Here you go:\n```js\nconsole.log(1);\n```\nEnjoy!",
			want:    "console.log(1);",
		},
		{
			name:    "fenced block without tag",
			content: "```\nx = 1\ny = 2\n```",
			want:    "x = 1\ny = 2",
		},
		{
			name:    "single-word first line is code, not a tag",
			content: "```\nreturn\n```",
			want:    "return",
		},
		{
			name:    "no fence falls back to whole reply",
			content: "  just use a for loop  ",
			want:    "just use a for loop",
		},
		{
			name:    "unterminated fence falls back",
			content: "```js\nconsole.log(1);",
			want:    "```js\nconsole.log(1);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSnippet(tt.content); got != tt.want {
				t.Fatalf("extractSnippet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeuristicProviderCannedSnippets(t *testing.T) {
	provider := newHeuristicProvider(domain.ModelDefinition{Name: "offline"})

	resp, err := provider.Generate(context.Background(), ports.SnippetRequest{Trigger: "loop"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(resp.Snippet, "for (") {
		t.Fatalf("unexpected loop snippet %q", resp.Snippet)
	}

	resp, err = provider.Generate(context.Background(), ports.SnippetRequest{Trigger: "unknown-trigger"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Snippet != "" {
		t.Fatalf("unknown trigger should yield no snippet, got %q", resp.Snippet)
	}
}

func TestAnthropicProviderGenerate(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	var captured struct {
		System   string `json:"system"`
		Model    string `json:"model"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"text": "```js\nfetch(url);\n```"},
			},
		})
	}))
	defer server.Close()

	model := domain.ModelDefinition{
		Name:     "claude",
		Endpoint: server.URL,
		ModelID:  "claude-test",
	}
	provider := newHTTPProvider("anthropic", model, server.Client(), anthropicAdapter())

	resp, err := provider.Generate(context.Background(), ports.SnippetRequest{
		Trigger:     "fetch",
		CellContent: "fetch the data",
		Instruction: "propose a snippet",
		Model:       model,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Snippet != "fetch(url);" {
		t.Fatalf("unexpected snippet %q", resp.Snippet)
	}

	if captured.Model != "claude-test" {
		t.Fatalf("model id not forwarded: %q", captured.Model)
	}
	if captured.System == "" {
		t.Fatal("default system prompt not sent")
	}
	for _, msg := range captured.Messages {
		if msg.Role == "system" {
			t.Fatal("system prompt leaked into messages array")
		}
	}
}

func TestHTTPProviderSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Endpoint: server.URL}
	provider := newHTTPProvider("ollama", model, server.Client(), ollamaAdapter())

	if _, err := provider.Generate(context.Background(), ports.SnippetRequest{}); err == nil {
		t.Fatal("Generate() swallowed an HTTP error status")
	}
}

func TestAnthropicHeadersRequireAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	req, _ := http.NewRequest(http.MethodPost, "https://api.anthropic.com", nil)
	if err := setAnthropicHeaders(req, domain.ModelDefinition{}); err == nil {
		t.Fatal("expected error when no API key is set")
	}
}
