package vocab

import "fmt"

// Word is a single Lithuanian/English vocabulary pair. Identity is the
// (Lithuanian, English) pair; Corpus and Group classify but do not
// distinguish words. Words are immutable once loaded.
type Word struct {
	Lithuanian string `json:"lithuanian"`
	English    string `json:"english"`
	Corpus     string `json:"corpus"`
	Group      string `json:"group"`
}

// Key returns the stats lookup key for the word. Two words with the same
// (Lithuanian, English) pair share a key regardless of corpus or group.
// The format matches the persisted JSON mapping keys, e.g. "katė-cat".
func (w Word) Key() string {
	return w.Lithuanian + "-" + w.English
}

func (w Word) String() string {
	return fmt.Sprintf("%s (%s)", w.Lithuanian, w.English)
}

// SpecialCharacters are the nine Lithuanian letters absent from an English
// keyboard, in alphabet order. The typing helper maps digit keys onto them.
const SpecialCharacters = "ąčęėįšųūž"
