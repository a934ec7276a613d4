package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storechat/ragengine/schema"
	"github.com/storechat/ragengine/session"
)

// Mode selects the response guideline wording. It affects length and tone
// instructions only.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeDetailed Mode = "detailed"
	ModeConcise  Mode = "concise"
)

// NormalizeMode maps unknown values to standard.
func NormalizeMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDetailed:
		return ModeDetailed
	case ModeConcise:
		return ModeConcise
	default:
		return ModeStandard
	}
}

// Builder renders the context window and query into the instruction prompt.
// Same inputs produce a byte-identical prompt.
type Builder struct {
	historyTurns int
}

func NewBuilder(historyTurns int) *Builder {
	if historyTurns <= 0 {
		historyTurns = 6
	}
	return &Builder{historyTurns: historyTurns}
}

func (b *Builder) Build(query string, cw *schema.ContextWindow, history []session.ChatMessage, mode Mode) string {
	var sb strings.Builder

	if cw != nil && len(cw.RelevantContent) > 0 {
		sb.WriteString("Relevant store information:\n")
		for i, item := range cw.RelevantContent {
			source := item.Source
			if source == "" {
				source = "untitled"
			}
			fmt.Fprintf(&sb, "[%d] (%s) %s", i+1, item.Type, source)
			if item.SourceURL != "" {
				fmt.Fprintf(&sb, " <%s>", item.SourceURL)
			}
			sb.WriteString("\n")
			sb.WriteString(item.Content)
			sb.WriteString("\n\n")
		}
	} else {
		sb.WriteString("No store information matched this question.\n\n")
	}

	if len(history) > 0 {
		turns := history
		if len(turns) > b.historyTurns {
			turns = turns[len(turns)-b.historyTurns:]
		}
		sb.WriteString("Conversation so far:\n")
		for _, msg := range turns {
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		}
		sb.WriteString("\n")
	}

	if cw != nil && len(cw.UserContext) > 0 {
		keys := make([]string, 0, len(cw.UserContext))
		for k := range cw.UserContext {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("Shopper context:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "- %s: %s\n", k, cw.UserContext[k])
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Customer question: %s\n\n", query)

	sb.WriteString("Response Guidelines:\n")
	sb.WriteString("- Answer using only the store information above; do not invent policies, prices or stock levels.\n")
	sb.WriteString("- When the information does not cover the question, say so and suggest contacting the store.\n")
	switch mode {
	case ModeDetailed:
		sb.WriteString("- Give a thorough answer covering relevant details, steps and caveats.\n")
	case ModeConcise:
		sb.WriteString("- Answer in one or two short sentences.\n")
	default:
		sb.WriteString("- Keep the answer friendly, focused and reasonably brief.\n")
	}
	return sb.String()
}
