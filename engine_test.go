package ragengine

import (
	"strings"
	"testing"
)

func TestSplitTextParagraphs(t *testing.T) {
	text := "First paragraph about returns.\n\nSecond paragraph about shipping.\n\n\n\nThird."
	got := splitText(text, 1200)
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3: %v", len(got), got)
	}
	if got[0] != "First paragraph about returns." || got[2] != "Third." {
		t.Errorf("chunks = %v", got)
	}
}

func TestSplitTextLongParagraph(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("This sentence fills out a long paragraph about store policies. ")
	}
	got := splitText(b.String(), 200)
	if len(got) < 2 {
		t.Fatalf("long paragraph not split: %d chunks", len(got))
	}
	for i, chunk := range got {
		if chunk == "" {
			t.Fatalf("chunk %d empty", i)
		}
		if !strings.HasSuffix(strings.TrimSpace(chunk), ".") {
			t.Errorf("chunk %d ends mid-sentence: %q", i, chunk)
		}
	}
}

func TestSplitTextDoubleSpacedProse(t *testing.T) {
	text := "Alpha sentence one.  Beta sentence two.  Gamma sentence three.  Delta sentence four."
	got := splitText(text, 45)
	want := []string{
		"Alpha sentence one. Beta sentence two.",
		"Gamma sentence three. Delta sentence four.",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitTextOversizedSentenceKeptWhole(t *testing.T) {
	text := "This one sentence runs far beyond the configured budget without any terminator until here. Short tail."
	got := splitText(text, 30)
	if len(got) != 2 {
		t.Fatalf("got %d chunks %q, want 2", len(got), got)
	}
	if !strings.HasPrefix(got[0], "This one sentence") || !strings.HasSuffix(got[0], "until here.") {
		t.Errorf("oversized sentence not kept whole: %q", got[0])
	}
	if got[1] != "Short tail." {
		t.Errorf("tail chunk = %q", got[1])
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if got := splitText("  \n\n  ", 100); got != nil {
		t.Errorf("blank input produced chunks: %v", got)
	}
}
