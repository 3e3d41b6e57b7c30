package journey

import "github.com/trakaido/trakaido/internal/vocab"

// DefaultChoiceCount is how many options a multiple-choice style turn
// presents, correct answer included.
const DefaultChoiceCount = 4

// ChoiceSide selects which half of each word pair is shown as an option.
type ChoiceSide int

const (
	// SideEnglish shows translations; used by multiple choice and hard
	// listening, where the learner answers in the target language.
	SideEnglish ChoiceSide = iota
	// SideLithuanian shows source terms; used by easy listening, where
	// the learner matches sound to written form.
	SideLithuanian
)

// BuildChoices returns up to count answer options for a turn on the
// correct word: the right answer plus distractors drawn from pool,
// shuffled. Options are deduplicated by display text so two pool words
// sharing a translation cannot produce twin buttons.
func BuildChoices(rng Rand, correct vocab.Word, pool []vocab.Word, count int, side ChoiceSide) []string {
	if count < 2 {
		count = 2
	}
	display := func(w vocab.Word) string {
		if side == SideLithuanian {
			return w.Lithuanian
		}
		return w.English
	}

	answer := display(correct)
	seen := map[string]bool{answer: true}
	distractors := make([]string, 0, len(pool))
	for _, w := range pool {
		if w.Key() == correct.Key() {
			continue
		}
		d := display(w)
		if seen[d] {
			continue
		}
		seen[d] = true
		distractors = append(distractors, d)
	}

	shuffle(rng, distractors)
	if len(distractors) > count-1 {
		distractors = distractors[:count-1]
	}

	choices := append(distractors, answer)
	shuffle(rng, choices)
	return choices
}

// shuffle is Fisher-Yates on the injected source.
func shuffle(rng Rand, items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
