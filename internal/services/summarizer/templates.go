package summarizer

import "fmt"

// Known template names
const (
	TemplateKeyIdeas        = "key_ideas"
	TemplateConcepts        = "concepts"
	TemplateQuotes          = "quotes"
	TemplateActionableItems = "actionable_items"
	TemplateExperimental    = "experimental"
)

const keyIdeasPrompt = `Extract and list the key ideas from the content:

1. First key idea
2. Second key idea
...
N. Last key idea

Be concise and focus on the most important points.`

const conceptsPrompt = `Break down the main concepts discussed:

A. Major Concept 1
   - Supporting point 1
   - Supporting point 2

B. Major Concept 2
   - Supporting point 1
   - Supporting point 2
...`

const quotesPrompt = `Extract significant quotes from the content:

1. "First important quote" - Speaker
2. "Second important quote" - Speaker
...`

const actionableItemsPrompt = `List actionable takeaways from the content:

1. First actionable item
2. Second actionable item
...`

const experimentalPrompt = `# Content Analysis

## One-Sentence Summary
[A single sentence that captures the essence of the content]

## Main Points
1. First main point
2. Second main point
...

## Key Takeaways
1. First takeaway
2. Second takeaway
...

## Tools & Technologies Mentioned
- Tool 1: Brief description
- Tool 2: Brief description
...`

// mapPrompt condenses a single chunk before the per-template combine
// pass runs over the joined chunk summaries
const mapPrompt = `Summarize this section of the podcast transcript, focusing on key points and insights:`

var templatePrompts = map[string]string{
	TemplateKeyIdeas:        keyIdeasPrompt,
	TemplateConcepts:        conceptsPrompt,
	TemplateQuotes:          quotesPrompt,
	TemplateActionableItems: actionableItemsPrompt,
	TemplateExperimental:    experimentalPrompt,
}

// DefaultTemplates lists the templates rendered when none are
// configured explicitly
func DefaultTemplates() []string {
	return []string{
		TemplateKeyIdeas,
		TemplateConcepts,
		TemplateQuotes,
		TemplateActionableItems,
		TemplateExperimental,
	}
}

// PromptFor returns the instruction text for a template name
func PromptFor(templateName string) (string, error) {
	prompt, ok := templatePrompts[templateName]
	if !ok {
		return "", fmt.Errorf("unknown summary template %q", templateName)
	}
	return prompt, nil
}

// KnownTemplate reports whether a template name is recognized
func KnownTemplate(templateName string) bool {
	_, ok := templatePrompts[templateName]
	return ok
}
