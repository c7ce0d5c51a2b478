// Package prompt assembles the prompts sent to the generation and polishing
// models. The built-in sections match the production prompts; a deployment
// may override individual sections through a small YAML file.
package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Builder renders generation and polish prompts.
type Builder struct {
	sources      string
	writingRules string
	scoringRules string
	outputFormat string
	polishPrompt string
}

type overrides struct {
	Sources      string `yaml:"sources"`
	WritingRules string `yaml:"writing_rules"`
	ScoringRules string `yaml:"scoring_rules"`
	OutputFormat string `yaml:"output_format"`
	PolishPrompt string `yaml:"polish_prompt"`
}

// NewBuilder returns a builder with the built-in prompt sections.
func NewBuilder() *Builder {
	return &Builder{
		sources:      defaultSources,
		writingRules: defaultWritingRules,
		scoringRules: defaultScoringRules,
		outputFormat: defaultOutputFormat,
		polishPrompt: defaultPolishPrompt,
	}
}

// Load returns a builder with sections overridden from the given YAML file.
// An empty path means built-in defaults; empty fields in the file keep their
// defaults.
func Load(path string) (*Builder, error) {
	b := NewBuilder()
	if path == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var o overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}

	if o.Sources != "" {
		b.sources = o.Sources
	}
	if o.WritingRules != "" {
		b.writingRules = o.WritingRules
	}
	if o.ScoringRules != "" {
		b.scoringRules = o.ScoringRules
	}
	if o.OutputFormat != "" {
		b.outputFormat = o.OutputFormat
	}
	if o.PolishPrompt != "" {
		b.polishPrompt = o.PolishPrompt
	}

	return b, nil
}

// Generation builds the full flash news generation prompt for the given
// trailing time window in hours.
func (b *Builder) Generation(hours int) string {
	return fmt.Sprintf(`You are a crypto news copywriter.

After **%d hours**, provide short flash news updates on the latest developments in **Web3, cryptocurrencies, exchanges, and blockchain**. Each flash must:

%s

Prioritize reliable information from these verified X accounts:
%s

Your goal is to deliver clear, authoritative flash news that explains:
**what happened, what came before, and why it matters - with source attribution in the body using source names instead of Twitter handles.**

---

%s

---

%s`, hours, b.writingRules, b.sources, b.scoringRules, b.outputFormat)
}

// Polish builds the rewrite prompt for one item.
func (b *Builder) Polish(title, body string) string {
	return fmt.Sprintf(b.polishPrompt, title, body)
}
