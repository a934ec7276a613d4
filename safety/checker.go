package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// Level grades how wide a pattern set the checker applies.
type Level string

const (
	LevelStrict   Level = "strict"
	LevelModerate Level = "moderate"
	LevelRelaxed  Level = "relaxed"
)

// ParseLevel maps unknown values to the moderate default.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelStrict:
		return LevelStrict
	case LevelRelaxed:
		return LevelRelaxed
	default:
		return LevelModerate
	}
}

// Violation reports which pattern blocked the text.
type Violation struct {
	Level   Level
	Pattern string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("blocked by %s safety pattern %q", v.Level, v.Pattern)
}

// Unambiguous attack phrasing, blocked at every level. Polysemous tokens
// ("crack", "exploit") require an attack target so benign usage passes.
var relaxedPatterns = compile([]string{
	`(?i)\bhack(?:ing)?\s+(?:the\s+|into\s+|this\s+)?(?:system|site|website|server|store|account|database)\b`,
	`(?i)\bsql\s+injection\b`,
	`(?i)\bignore\s+(?:all\s+)?(?:previous|prior)\s+instructions\b`,
	`(?i)\bcrack(?:ing)?\s+(?:the\s+|a\s+)?(?:password|passwords|software|license|serial|drm|account)\b`,
	`(?i)\bsteal\s+(?:credit\s+card|card\s+number|identit)`,
	`(?i)\bbypass\s+(?:the\s+)?(?:security|authentication|login|paywall)\b`,
})

// Added at moderate: injection probes and clearly illegal-activity phrasing.
var moderatePatterns = compile([]string{
	`(?i)\bjailbreak\b`,
	`(?i)\bsystem\s+prompt\b`,
	`(?i)\bexploit(?:ing)?\s+(?:a\s+|the\s+)?(?:vulnerabilit|bug|flaw|weakness)`,
	`(?i)\bdisable\s+(?:the\s+)?(?:safety|content\s+filter|moderation)\b`,
	`(?i)\bhow\s+to\s+(?:launder|forge|counterfeit)\b`,
})

// Added at strict: any mention of attack vocabulary, tolerating more false
// positives in exchange for coverage.
var strictPatterns = compile([]string{
	`(?i)\bhack\w*\b`,
	`(?i)\bexploit\w*\b`,
	`(?i)\bmalware\b`,
	`(?i)\bphish\w*\b`,
	`(?i)\bddos\b`,
	`(?i)\badmin(?:istrator)?\s+(?:access|password|credentials)\b`,
})

func compile(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Checker screens text against the graded blocklist.
type Checker struct{}

func NewChecker() *Checker { return &Checker{} }

// Check returns a *Violation when the text matches a disallowed pattern for
// the given level, nil otherwise.
func (c *Checker) Check(text string, level Level) error {
	sets := [][]*regexp.Regexp{relaxedPatterns}
	switch level {
	case LevelModerate:
		sets = append(sets, moderatePatterns)
	case LevelStrict:
		sets = append(sets, moderatePatterns, strictPatterns)
	}
	for _, set := range sets {
		for _, re := range set {
			if re.MatchString(text) {
				return &Violation{Level: level, Pattern: re.String()}
			}
		}
	}
	return nil
}
