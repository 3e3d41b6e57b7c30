package journey

import (
	"testing"

	"github.com/trakaido/trakaido/internal/stats"
)

func TestPoolPartition(t *testing.T) {
	words := wordSet("žodis", 5)
	reader := fakeStats{
		words[1].Key(): {Exposed: true},
		words[3].Key(): exposedWith(4),
		// words[4] has answers recorded but only wrong ones: still fresh.
		words[4].Key(): {Typing: stats.Counter{Incorrect: 3}},
	}

	exposed := ExposedWords(words, reader)
	fresh := FreshWords(words, reader)

	if len(exposed) != 2 {
		t.Fatalf("exposed = %d words, want 2", len(exposed))
	}
	if exposed[0].Key() != words[1].Key() || exposed[1].Key() != words[3].Key() {
		t.Errorf("exposed = %v, input order not preserved", exposed)
	}

	if len(fresh) != 3 {
		t.Fatalf("fresh = %d words, want 3", len(fresh))
	}
	if len(exposed)+len(fresh) != len(words) {
		t.Errorf("partition lost words: %d + %d != %d", len(exposed), len(fresh), len(words))
	}
}

func TestPoolRecomputesEveryCall(t *testing.T) {
	words := wordSet("žodis", 2)
	reader := fakeStats{}

	if got := len(ExposedWords(words, reader)); got != 0 {
		t.Fatalf("exposed = %d, want 0", got)
	}

	reader[words[0].Key()] = stats.WordStats{Exposed: true}

	if got := len(ExposedWords(words, reader)); got != 1 {
		t.Errorf("exposed after update = %d, want 1 (no caching)", got)
	}
	if got := len(FreshWords(words, reader)); got != 1 {
		t.Errorf("fresh after update = %d, want 1", got)
	}
}

func TestPoolEmptyInput(t *testing.T) {
	reader := fakeStats{}
	if got := ExposedWords(nil, reader); len(got) != 0 {
		t.Errorf("exposed on nil input = %v, want empty", got)
	}
	if got := FreshWords(nil, reader); len(got) != 0 {
		t.Errorf("fresh on nil input = %v, want empty", got)
	}
}
