package vocab

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

//go:embed data/*.json
var corpusFS embed.FS

// corpusFile is the on-disk shape of one embedded corpus.
type corpusFile struct {
	Corpus string                `json:"corpus"`
	Groups map[string][]wordPair `json:"groups"`
}

type wordPair struct {
	English    string `json:"english"`
	Lithuanian string `json:"lithuanian"`
}

// Catalog holds the full vocabulary, loaded once at startup.
type Catalog struct {
	words    []Word
	byCorpus map[string][]Word
	corpora  []string
}

// Load reads and validates every embedded corpus file.
// A malformed corpus is a build defect, so Load fails hard.
func Load() (*Catalog, error) {
	entries, err := corpusFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	c := &Catalog{byCorpus: make(map[string][]Word)}
	for _, e := range entries {
		raw, err := corpusFS.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", e.Name(), err)
		}
		if err := validateCorpus(e.Name(), raw); err != nil {
			return nil, err
		}

		var cf corpusFile
		if err := json.Unmarshal(raw, &cf); err != nil {
			return nil, fmt.Errorf("parse corpus %s: %w", e.Name(), err)
		}

		groups := lo.Keys(cf.Groups)
		sort.Strings(groups)
		for _, g := range groups {
			for _, p := range cf.Groups[g] {
				w := Word{
					Lithuanian: p.Lithuanian,
					English:    p.English,
					Corpus:     cf.Corpus,
					Group:      g,
				}
				c.words = append(c.words, w)
				c.byCorpus[cf.Corpus] = append(c.byCorpus[cf.Corpus], w)
			}
		}
		c.corpora = append(c.corpora, cf.Corpus)
	}
	sort.Strings(c.corpora)

	if dups := duplicateKeys(c.words); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate word pairs across corpora: %v", dups)
	}
	return c, nil
}

// All returns every word as a flat slice, corpus by corpus.
func (c *Catalog) All() []Word {
	out := make([]Word, len(c.words))
	copy(out, c.words)
	return out
}

// Corpora returns the sorted corpus names.
func (c *Catalog) Corpora() []string {
	out := make([]string, len(c.corpora))
	copy(out, c.corpora)
	return out
}

// ByCorpus returns the words of one corpus, or nil if unknown.
func (c *Catalog) ByCorpus(name string) []Word {
	ws := c.byCorpus[name]
	out := make([]Word, len(ws))
	copy(out, ws)
	return out
}

// Groups returns the sorted group names within a corpus.
func (c *Catalog) Groups(corpus string) []string {
	groups := lo.Uniq(lo.Map(c.byCorpus[corpus], func(w Word, _ int) string {
		return w.Group
	}))
	sort.Strings(groups)
	return groups
}

// ByGroup returns the words of one group within a corpus.
func (c *Catalog) ByGroup(corpus, group string) []Word {
	return lo.Filter(c.byCorpus[corpus], func(w Word, _ int) bool {
		return w.Group == group
	})
}

// Len returns the total word count.
func (c *Catalog) Len() int {
	return len(c.words)
}

func duplicateKeys(words []Word) []string {
	seen := make(map[string]bool, len(words))
	var dups []string
	for _, w := range words {
		k := w.Key()
		if seen[k] {
			dups = append(dups, k)
		}
		seen[k] = true
	}
	return dups
}
