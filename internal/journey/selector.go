package journey

import "github.com/trakaido/trakaido/internal/vocab"

// Selection policy constants.
const (
	// ColdStartExposedTarget is how many distinct words must be exposed
	// before the selector starts mixing review activities into the
	// session. Below it, every turn introduces a new word.
	ColdStartExposedTarget = 10

	// MotivationalBreakPercent is the chance of a motivational
	// interstitial, checked before anything else once the cold start
	// is over.
	MotivationalBreakPercent = 3.0

	// NewWordPercent is the chance of introducing a new word after the
	// break check has passed. 25.77 ≈ 25/97, which puts the
	// unconditional new-word rate at 25% of all turns after the 3%
	// break carve-out.
	NewWordPercent = 25.77

	// MatureCorrectThreshold is the total-correct count at which a
	// word becomes subject to the de-duplication filter.
	MatureCorrectThreshold = 10

	// DedupExclusionChance is the per-word probability that a
	// well-known word sits out the current turn.
	DedupExclusionChance = 0.75

	// EarlyExposureMax is the total-correct count below which a word
	// stays in the easy activity tier.
	EarlyExposureMax = 3
)

// Turn is one unit of a journey session: an activity on a word, a
// new-word introduction, or a break. Word is nil for breaks and may be
// nil for the empty-pool fallback.
type Turn struct {
	Kind ActivityKind
	Word *vocab.Word
}

// Selector picks the next turn from the word set and the learner's
// stats. It never mutates stats; marking a newly introduced word
// exposed is the caller's job.
type Selector struct {
	stats StatsReader
	rng   Rand
	audio bool
}

// NewSelector creates a selector. audioEnabled gates the listening
// activities.
func NewSelector(reader StatsReader, rng Rand, audioEnabled bool) *Selector {
	return &Selector{stats: reader, rng: rng, audio: audioEnabled}
}

// SetAudioEnabled toggles listening activities for subsequent turns.
func (s *Selector) SetAudioEnabled(enabled bool) {
	s.audio = enabled
}

// Next returns the next turn for the given word set. fallback is the
// word to reuse when the set is empty, typically the previous turn's
// word. Next never fails: with nothing to select it degrades to a
// grammar break.
//
// The policy is an ordered decision procedure; each step either
// returns or falls through to the next.
func (s *Selector) Next(words []vocab.Word, fallback *vocab.Word) Turn {
	if len(words) == 0 {
		return Turn{Kind: KindNewWord, Word: fallback}
	}

	exposed := ExposedWords(words, s.stats)
	fresh := FreshWords(words, s.stats)

	// Force breadth of exposure before review variety.
	if len(exposed) < ColdStartExposedTarget && len(fresh) > 0 {
		return s.newWordTurn(fresh)
	}

	if s.rng.Float64()*100 < MotivationalBreakPercent {
		return Turn{Kind: KindMotivationalBreak}
	}

	if r := s.rng.Float64() * 100; r < NewWordPercent && len(fresh) > 0 {
		return s.newWordTurn(fresh)
	}

	if len(exposed) == 0 {
		if len(fresh) > 0 {
			return s.newWordTurn(fresh)
		}
		return Turn{Kind: KindGrammarBreak}
	}

	candidates := s.dedupFilter(exposed)
	if len(candidates) == 0 {
		// Terminal guard: selection must not fail.
		return Turn{Kind: KindGrammarBreak}
	}

	word := candidates[s.rng.IntN(len(candidates))]
	exposures := s.stats.Get(word.Key()).TotalCorrect()
	return s.activityTurn(word, exposures)
}

func (s *Selector) newWordTurn(fresh []vocab.Word) Turn {
	w := fresh[s.rng.IntN(len(fresh))]
	return Turn{Kind: KindNewWord, Word: &w}
}

// dedupFilter gives every well-known word an independent chance to sit
// out this turn. Words under the threshold are never excluded. When
// the filter would leave nothing it returns the exposed list unfiltered
// so the session always makes progress.
func (s *Selector) dedupFilter(exposed []vocab.Word) []vocab.Word {
	candidates := make([]vocab.Word, 0, len(exposed))
	for _, w := range exposed {
		if s.stats.Get(w.Key()).TotalCorrect() >= MatureCorrectThreshold &&
			s.rng.Float64() < DedupExclusionChance {
			continue
		}
		candidates = append(candidates, w)
	}
	if len(candidates) == 0 {
		return exposed
	}
	return candidates
}

// activityTurn picks the quiz format for word given how many times it
// has been answered correctly across all activities.
func (s *Selector) activityTurn(word vocab.Word, exposures int) Turn {
	w := &word

	if exposures < EarlyExposureMax {
		if !s.audio {
			return Turn{Kind: KindMultipleChoice, Word: w}
		}
		if s.rng.Float64() < 0.5 {
			return Turn{Kind: KindMultipleChoice, Word: w}
		}
		return Turn{Kind: KindListeningEasy, Word: w}
	}

	if !s.audio {
		if s.rng.Float64() < 0.5 {
			return Turn{Kind: KindMultipleChoice, Word: w}
		}
		return Turn{Kind: KindTyping, Word: w}
	}

	switch r := s.rng.Float64() * 100; {
	case r < 33:
		return Turn{Kind: KindMultipleChoice, Word: w}
	case r < 66:
		return Turn{Kind: KindListeningHard, Word: w}
	default:
		return Turn{Kind: KindTyping, Word: w}
	}
}
