package prompt

import (
	"strings"
	"testing"

	"github.com/storechat/ragengine/schema"
	"github.com/storechat/ragengine/session"
)

func testWindow() *schema.ContextWindow {
	return &schema.ContextWindow{
		Query: "what is your return policy",
		RelevantContent: []schema.ContextItem{
			{Content: "Returns are accepted within 30 days.", Type: "policy", Source: "Return Policy", SourceURL: "https://store.example/returns", RelevanceScore: 0.9},
			{Content: "Refunds arrive within 5 business days.", Type: "faq", Source: "Refund FAQ", RelevanceScore: 0.8},
		},
		TotalChunks:     2,
		EstimatedTokens: 40,
		UserContext:     map[string]string{"page_type": "policy", "intent": "support"},
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(6)
	history := []session.ChatMessage{
		{Role: session.RoleUser, Content: "hi"},
		{Role: session.RoleAssistant, Content: "hello, how can I help?"},
	}
	first := b.Build("what is your return policy", testWindow(), history, ModeStandard)
	for i := 0; i < 10; i++ {
		if got := b.Build("what is your return policy", testWindow(), history, ModeStandard); got != first {
			t.Fatal("same inputs produced different prompts")
		}
	}
}

func TestBuildIncludesSourcesAndQuery(t *testing.T) {
	b := NewBuilder(6)
	got := b.Build("what is your return policy", testWindow(), nil, ModeStandard)

	for _, want := range []string{
		"Relevant store information:",
		"[1] (policy) Return Policy <https://store.example/returns>",
		"Returns are accepted within 30 days.",
		"[2] (faq) Refund FAQ",
		"Shopper context:",
		"- intent: support",
		"- page_type: policy",
		"Customer question: what is your return policy",
		"Response Guidelines:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n%s", want, got)
		}
	}
}

func TestBuildEmptyWindow(t *testing.T) {
	b := NewBuilder(6)
	got := b.Build("anything in stock?", &schema.ContextWindow{}, nil, ModeStandard)
	if !strings.Contains(got, "No store information matched this question.") {
		t.Errorf("empty window prompt missing fallback line:\n%s", got)
	}
}

func TestBuildModesDiffer(t *testing.T) {
	b := NewBuilder(6)
	cw := testWindow()
	standard := b.Build("q", cw, nil, ModeStandard)
	detailed := b.Build("q", cw, nil, ModeDetailed)
	concise := b.Build("q", cw, nil, ModeConcise)

	if standard == detailed || standard == concise || detailed == concise {
		t.Error("response modes produced identical prompts")
	}
	if !strings.Contains(concise, "one or two short sentences") {
		t.Error("concise guideline missing")
	}
	if !strings.Contains(detailed, "thorough answer") {
		t.Error("detailed guideline missing")
	}
}

func TestBuildHistoryCapped(t *testing.T) {
	b := NewBuilder(2)
	history := []session.ChatMessage{
		{Role: session.RoleUser, Content: "first message"},
		{Role: session.RoleUser, Content: "second message"},
		{Role: session.RoleUser, Content: "third message"},
	}
	got := b.Build("q", testWindow(), history, ModeStandard)
	if strings.Contains(got, "first message") {
		t.Error("history not capped to the most recent turns")
	}
	if !strings.Contains(got, "third message") {
		t.Error("most recent turn missing from prompt")
	}
}

func TestNormalizeMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"detailed", ModeDetailed},
		{"CONCISE", ModeConcise},
		{"standard", ModeStandard},
		{"", ModeStandard},
		{"verbose", ModeStandard},
	}
	for _, tt := range tests {
		if got := NormalizeMode(tt.in); got != tt.want {
			t.Errorf("NormalizeMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
