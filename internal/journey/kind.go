package journey

import (
	"fmt"

	"github.com/trakaido/trakaido/internal/stats"
)

// ActivityKind enumerates what a single journey turn presents.
type ActivityKind int

const (
	KindNewWord ActivityKind = iota + 1
	KindMultipleChoice
	KindListeningEasy
	KindListeningHard
	KindTyping
	KindMotivationalBreak
	KindGrammarBreak
)

var kindNames = [...]string{
	KindNewWord:           "NewWord",
	KindMultipleChoice:    "MultipleChoice",
	KindListeningEasy:     "ListeningEasy",
	KindListeningHard:     "ListeningHard",
	KindTyping:            "Typing",
	KindMotivationalBreak: "MotivationalBreak",
	KindGrammarBreak:      "GrammarBreak",
}

// Compile-time interface check.
var _ fmt.Stringer = ActivityKind(0)

// String returns the kind name. Invalid values render as "ActivityKind(n)".
func (k ActivityKind) String() string {
	if k.IsValid() {
		return kindNames[k]
	}
	return fmt.Sprintf("ActivityKind(%d)", int(k))
}

// IsValid reports whether k is one of the defined kinds.
func (k ActivityKind) IsValid() bool {
	return k >= KindNewWord && k <= KindGrammarBreak
}

// IsBreak reports whether k is an interstitial with no word attached.
func (k ActivityKind) IsBreak() bool {
	return k == KindMotivationalBreak || k == KindGrammarBreak
}

// Activity maps gradeable kinds to their stats activity. The second
// return is false for new-word introductions and breaks, which are
// never graded.
func (k ActivityKind) Activity() (stats.Activity, bool) {
	switch k {
	case KindMultipleChoice:
		return stats.ActivityMultipleChoice, true
	case KindListeningEasy:
		return stats.ActivityListeningEasy, true
	case KindListeningHard:
		return stats.ActivityListeningHard, true
	case KindTyping:
		return stats.ActivityTyping, true
	}
	return "", false
}
