package extract

import (
	"fmt"
	"regexp"
)

// Rule is one pattern to replacement substitution for a systematic
// recognition confusion. Patterns are applied case-insensitively, in table
// order.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// Corrector applies an ordered table of cleanup rules to fused transcripts.
// Application is idempotent: running a corrector twice yields the same text
// as running it once.
type Corrector struct {
	rules []compiledRule
}

// NewCorrector compiles the rule table. An invalid pattern fails the whole
// table so broken rules are caught at construction, not mid-evaluation.
func NewCorrector(rules []Rule) (*Corrector, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile correction %q: %w", r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{re: re, replacement: r.Replacement})
	}
	return &Corrector{rules: compiled}, nil
}

// Apply runs every rule over text in order.
func (c *Corrector) Apply(text string) string {
	for _, r := range c.rules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}

// defaultRules covers confusions observed repeatedly in graded scans:
// stroke-level character swaps in function words and domain vocabulary that
// recognition engines consistently mangle.
var defaultRules = []Rule{
	{`\bteh\b`, "the"},
	{`\btbe\b`, "the"},
	{`\badn\b`, "and"},
	{`\banc\b`, "and"},
	{`\b0f\b`, "of"},
	{`\b1s\b`, "is"},
	{`\b1n\b`, "in"},
	{`\bvve\b`, "we"},
	{`\bwbich\b`, "which"},
	{`\bwbat\b`, "what"},
	{`\bfrom tbe\b`, "from the"},
	{`\bphotosynthesls\b`, "photosynthesis"},
	{`\bchlorophyl\b`, "chlorophyll"},
	{`\bmitochondna\b`, "mitochondria"},
	{`\bequaton\b`, "equation"},
	{`\bdefintion\b`, "definition"},
}

// DefaultCorrector returns the built-in rule table.
func DefaultCorrector() *Corrector {
	c, err := NewCorrector(defaultRules)
	if err != nil {
		panic(err)
	}
	return c
}
