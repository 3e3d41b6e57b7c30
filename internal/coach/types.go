package coach

// Tip is one grammar interstitial shown during a break turn.
type Tip struct {
	// Text states the rule in one or two plain sentences.
	Text string

	// Example is a short Lithuanian illustration with an English gloss.
	// May be empty.
	Example string
}

// TipInput seeds personalized tip generation with the learner's
// current material.
type TipInput struct {
	// Words are Lithuanian words from the learner's recent turns.
	Words []string

	// Accuracy is the learner's overall answer accuracy, 0..1.
	Accuracy float64
}
