package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trakaido/trakaido/internal/vocab"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Browse the vocabulary corpora",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, _ := cmd.Flags().GetString("corpus")
		group, _ := cmd.Flags().GetString("group")

		catalog, err := vocab.Load()
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}

		switch {
		case group != "" && corpus == "":
			return fmt.Errorf("--group requires --corpus")
		case corpus == "":
			return listCorpora(catalog)
		case group == "":
			return listGroups(catalog, corpus)
		default:
			return listWords(catalog, corpus, group)
		}
	},
}

func listCorpora(c *vocab.Catalog) error {
	fmt.Printf("%-16s  %-20s  %6s  %6s\n", "Corpus", "Name", "Groups", "Words")
	fmt.Println(strings.Repeat("─", 54))

	for _, name := range c.Corpora() {
		fmt.Printf("%-16s  %-20s  %6d  %6d\n",
			name, vocab.DisplayName(name), len(c.Groups(name)), len(c.ByCorpus(name)))
	}

	fmt.Printf("\n%d words total\n", c.Len())
	return nil
}

func listGroups(c *vocab.Catalog, corpus string) error {
	words := c.ByCorpus(corpus)
	if len(words) == 0 {
		return fmt.Errorf("unknown corpus %q, run 'trakaido words' for the list", corpus)
	}

	fmt.Printf("%s (%s)\n", vocab.DisplayName(corpus), corpus)
	fmt.Println(strings.Repeat("─", 44))

	for _, g := range c.Groups(corpus) {
		fmt.Printf("%-36s  %4d\n", g, len(c.ByGroup(corpus, g)))
	}

	fmt.Printf("\n%d words\n", len(words))
	return nil
}

func listWords(c *vocab.Catalog, corpus, group string) error {
	words := c.ByGroup(corpus, group)
	if len(words) == 0 {
		return fmt.Errorf("no words in corpus %q group %q", corpus, group)
	}

	fmt.Printf("%-24s  %s\n", "Lithuanian", "English")
	fmt.Println(strings.Repeat("─", 52))

	for _, w := range words {
		fmt.Printf("%-24s  %s\n", w.Lithuanian, w.English)
	}

	fmt.Printf("\n%d words\n", len(words))
	return nil
}

func init() {
	wordsCmd.Flags().String("corpus", "", "Show one corpus's groups (e.g. nouns_one)")
	wordsCmd.Flags().String("group", "", "List the words of one group (requires --corpus)")
}
