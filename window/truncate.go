package window

import "strings"

// SplitSentences breaks text on sentence terminators (. ! ?) followed by
// whitespace or end of input. Terminators stay attached to their sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				if s := strings.TrimSpace(b.String()); s != "" {
					sentences = append(sentences, s)
				}
				b.Reset()
			}
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// TruncateSentences trims text to at most limit characters without ever
// cutting mid-sentence: whole leading sentences are kept until the budget
// would be exceeded. If even the first sentence exceeds the limit it is kept
// whole, so non-empty input never truncates to the empty string.
func TruncateSentences(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return text
	}
	var b strings.Builder
	for _, s := range sentences {
		added := len(s)
		if b.Len() > 0 {
			added++ // joining space
		}
		if b.Len()+added > limit {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return sentences[0]
	}
	return b.String()
}
