package window

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"three sentences",
			"Returns are free. Refunds take 5 days! Questions? Contact us.",
			[]string{"Returns are free.", "Refunds take 5 days!", "Questions?", "Contact us."},
		},
		{
			"no terminator",
			"a sentence without an ending",
			[]string{"a sentence without an ending"},
		},
		{
			"decimal point not a boundary",
			"The price is 19.99 per unit.",
			[]string{"The price is 19.99 per unit."},
		},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncateSentencesKeepsWholeSentences(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one is last."
	got := TruncateSentences(text, 45)
	if got != "First sentence here. Second sentence follows." {
		t.Errorf("TruncateSentences = %q", got)
	}
}

func TestTruncateSentencesNeverSplitsMidSentence(t *testing.T) {
	text := "Our returns window is thirty days. Shipping is free above fifty euros. Contact support for exchanges."
	for limit := 10; limit <= len(text); limit += 7 {
		got := TruncateSentences(text, limit)
		if got == "" {
			t.Fatalf("limit %d produced empty output", limit)
		}
		if !strings.HasPrefix(text, got) {
			t.Fatalf("limit %d: output %q is not a prefix of input", limit, got)
		}
		last := got[len(got)-1]
		if last != '.' && last != '!' && last != '?' {
			t.Errorf("limit %d: output ends mid-sentence: %q", limit, got)
		}
	}
}

func TestTruncateSentencesShortInputUntouched(t *testing.T) {
	text := "Short."
	if got := TruncateSentences(text, 100); got != text {
		t.Errorf("short input changed: %q", got)
	}
}

func TestTruncateSentencesOversizedFirstSentence(t *testing.T) {
	text := "This single sentence is considerably longer than the allowed character budget for one chunk."
	got := TruncateSentences(text, 20)
	if got != text {
		t.Errorf("oversized first sentence should be kept whole, got %q", got)
	}
}

func TestCharEstimatorMonotone(t *testing.T) {
	e := CharEstimator{CharsPerToken: 4}
	if got := e.Estimate(""); got != 0 {
		t.Errorf("empty estimate = %d, want 0", got)
	}
	prev := 0
	for n := 1; n < 200; n += 13 {
		got := e.Estimate(strings.Repeat("a", n))
		if got < prev {
			t.Fatalf("estimate decreased at length %d: %d < %d", n, got, prev)
		}
		prev = got
	}
	if got := e.Estimate("abcd"); got != 1 {
		t.Errorf("4 chars at 4 cpt = %d tokens, want 1", got)
	}
	if got := e.Estimate("abcde"); got != 2 {
		t.Errorf("5 chars at 4 cpt = %d tokens, want 2 (round up)", got)
	}
}

func TestNewEstimatorFallsBack(t *testing.T) {
	e := NewEstimator("no_such_encoding", 4)
	if _, ok := e.(CharEstimator); !ok {
		t.Fatalf("unknown encoding should fall back to CharEstimator, got %T", e)
	}
}
