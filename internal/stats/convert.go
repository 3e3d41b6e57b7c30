package stats

import (
	"time"

	"github.com/trakaido/trakaido/internal/store"
)

// fromData converts a persisted mapping into domain stats. Records
// written by older versions carry a single combined listening counter;
// its counts are folded into the easy listening counter once here and
// the legacy field is never written back.
func fromData(data map[string]*store.WordStatsData) map[string]*WordStats {
	words := make(map[string]*WordStats, len(data))
	for key, d := range data {
		if d == nil {
			continue
		}
		ws := &WordStats{
			Exposed:        d.Exposed,
			MultipleChoice: Counter(d.MultipleChoice),
			ListeningEasy:  Counter(d.ListeningEasy),
			ListeningHard:  Counter(d.ListeningHard),
			Typing:         Counter(d.Typing),
		}
		if d.Listening != nil {
			ws.ListeningEasy.Correct += d.Listening.Correct
			ws.ListeningEasy.Incorrect += d.Listening.Incorrect
		}
		if d.LastSeen != nil {
			t := time.UnixMilli(*d.LastSeen)
			ws.LastSeen = &t
		}
		words[key] = ws
	}
	return words
}

// toData converts domain stats into the persisted mapping.
func toData(words map[string]*WordStats) map[string]*store.WordStatsData {
	data := make(map[string]*store.WordStatsData, len(words))
	for key, ws := range words {
		d := &store.WordStatsData{
			Exposed:        ws.Exposed,
			MultipleChoice: store.CountData(ws.MultipleChoice),
			ListeningEasy:  store.CountData(ws.ListeningEasy),
			ListeningHard:  store.CountData(ws.ListeningHard),
			Typing:         store.CountData(ws.Typing),
		}
		if ws.LastSeen != nil {
			ms := ws.LastSeen.UnixMilli()
			d.LastSeen = &ms
		}
		data[key] = d
	}
	return data
}
