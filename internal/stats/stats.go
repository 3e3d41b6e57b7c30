package stats

import "time"

// Activity identifies one gradeable practice activity. The values
// double as the JSON field names in persisted stats and as the
// activity column in answer events.
type Activity string

const (
	ActivityMultipleChoice Activity = "multipleChoice"
	ActivityListeningEasy  Activity = "listeningEasy"
	ActivityListeningHard  Activity = "listeningHard"
	ActivityTyping         Activity = "typing"
)

// Activities lists every gradeable activity in stable order.
var Activities = []Activity{
	ActivityMultipleChoice,
	ActivityListeningEasy,
	ActivityListeningHard,
	ActivityTyping,
}

// Counter tallies correct and incorrect answers for one activity.
type Counter struct {
	Correct   int
	Incorrect int
}

// Total returns the number of answers recorded on this counter.
func (c Counter) Total() int {
	return c.Correct + c.Incorrect
}

// WordStats is everything tracked for a single word. Exposed means the
// learner has either answered the word correctly at least once or had
// it introduced as a new word; wrong answers alone never expose a word.
type WordStats struct {
	Exposed        bool
	MultipleChoice Counter
	ListeningEasy  Counter
	ListeningHard  Counter
	Typing         Counter
	LastSeen       *time.Time
}

// CounterFor returns the counter for the given activity.
func (ws WordStats) CounterFor(a Activity) Counter {
	switch a {
	case ActivityMultipleChoice:
		return ws.MultipleChoice
	case ActivityListeningEasy:
		return ws.ListeningEasy
	case ActivityListeningHard:
		return ws.ListeningHard
	case ActivityTyping:
		return ws.Typing
	}
	return Counter{}
}

func (ws *WordStats) counterRef(a Activity) *Counter {
	switch a {
	case ActivityMultipleChoice:
		return &ws.MultipleChoice
	case ActivityListeningEasy:
		return &ws.ListeningEasy
	case ActivityListeningHard:
		return &ws.ListeningHard
	case ActivityTyping:
		return &ws.Typing
	}
	return nil
}

// TotalCorrect sums correct answers across all activities.
func (ws WordStats) TotalCorrect() int {
	return ws.MultipleChoice.Correct + ws.ListeningEasy.Correct +
		ws.ListeningHard.Correct + ws.Typing.Correct
}

// TotalIncorrect sums incorrect answers across all activities.
func (ws WordStats) TotalIncorrect() int {
	return ws.MultipleChoice.Incorrect + ws.ListeningEasy.Incorrect +
		ws.ListeningHard.Incorrect + ws.Typing.Incorrect
}

// TotalAnswers sums all recorded answers across all activities.
func (ws WordStats) TotalAnswers() int {
	return ws.TotalCorrect() + ws.TotalIncorrect()
}

// Accuracy returns the fraction of answers that were correct, or 0
// when nothing has been answered yet.
func (ws WordStats) Accuracy() float64 {
	total := ws.TotalAnswers()
	if total == 0 {
		return 0
	}
	return float64(ws.TotalCorrect()) / float64(total)
}

func (ws WordStats) clone() WordStats {
	out := ws
	if ws.LastSeen != nil {
		t := *ws.LastSeen
		out.LastSeen = &t
	}
	return out
}
