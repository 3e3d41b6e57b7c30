package coach

import (
	"fmt"
	"strings"
)

const tipSystemPrompt = `You are a friendly Lithuanian language coach for an adult English-speaking beginner. You give one short, memorable grammar tip at a time.`

func buildTipUserMessage(input TipInput) string {
	var b strings.Builder

	if len(input.Words) > 0 {
		b.WriteString("The learner is currently studying these Lithuanian words:\n")
		for _, w := range input.Words {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	} else {
		b.WriteString("The learner is just starting out.\n")
	}

	if input.Accuracy > 0 {
		b.WriteString(fmt.Sprintf("Overall answer accuracy so far: %.0f%%\n", input.Accuracy*100))
	}

	b.WriteString(`
Instructions:
Give ONE grammar tip:
1. Pick a rule relevant to the words above when possible (noun endings, cases, verb forms, pronunciation).
2. State the rule in one or two plain sentences an absolute beginner can follow. No linguistic jargon beyond case names.
3. Give one short Lithuanian example with an English gloss in parentheses. Prefer the learner's own words in the example.
4. Do not repeat vocabulary definitions. The tip must teach grammar or pronunciation, not translations.`)

	return b.String()
}
