package journey

import (
	"github.com/samber/lo"

	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/vocab"
)

// StatsReader is the slice of the stats tracker the selection policy
// reads. Reads must not create or mutate entries.
type StatsReader interface {
	Get(key string) stats.WordStats
}

// ExposedWords returns the words the learner has already met, in input
// order. Recomputed on every call; vocabulary sets are small.
func ExposedWords(words []vocab.Word, reader StatsReader) []vocab.Word {
	return lo.Filter(words, func(w vocab.Word, _ int) bool {
		return reader.Get(w.Key()).Exposed
	})
}

// FreshWords returns the complement: words never exposed yet.
func FreshWords(words []vocab.Word, reader StatsReader) []vocab.Word {
	return lo.Filter(words, func(w vocab.Word, _ int) bool {
		return !reader.Get(w.Key()).Exposed
	})
}
