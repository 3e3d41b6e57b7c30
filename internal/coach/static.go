package coach

import "math/rand/v2"

// grammarTips is the embedded fallback set. Always available, no
// provider required.
var grammarTips = []Tip{
	{
		Text:    "Most masculine nouns end in -as, -is, or -us; most feminine nouns end in -a or -ė.",
		Example: "vyras (man), brolis (brother), knyga (book), katė (cat)",
	},
	{
		Text:    "The accusative marks the direct object: -as becomes -ą and -ė becomes -ę.",
		Example: "matau vyrą (I see the man), matau katę (I see the cat)",
	},
	{
		Text:    "The genitive marks possession: -as becomes -o and -ė becomes -ės.",
		Example: "vyro namas (the man's house), katės uodega (the cat's tail)",
	},
	{
		Text:    "Plural nominative: -as becomes -ai and -ė becomes -ės.",
		Example: "vyras → vyrai, katė → katės",
	},
	{
		Text:    "The locative answers 'where' and usually ends in -e or -oje.",
		Example: "namas → name (in the house), Lietuva → Lietuvoje (in Lithuania)",
	},
	{
		Text:    "Dictionary-form verbs end in -ti.",
		Example: "kalbėti (to speak), eiti (to go), valgyti (to eat)",
	},
	{
		Text:    "With 'aš' (I) the verb ends in -u, with 'tu' (you) it ends in -i.",
		Example: "aš kalbu, tu kalbi (I speak, you speak)",
	},
	{
		Text:    "Simple past tense verbs usually end in -o.",
		Example: "jis dirbo (he worked), ji valgė (she ate)",
	},
	{
		Text:    "Yes/no questions start with 'ar'; the word order stays the same.",
		Example: "Ar tu kalbi lietuviškai? (Do you speak Lithuanian?)",
	},
	{
		Text:    "Negation glues ne- onto the front of the verb.",
		Example: "žinau → nežinau (I know → I don't know)",
	},
	{
		Text:    "Lithuanian has no articles. Context tells you 'a cat' from 'the cat'.",
		Example: "katė miega (a cat sleeps / the cat sleeps)",
	},
	{
		Text:    "Every vowel is pronounced clearly; nothing reduces the way unstressed English vowels do.",
		Example: "vanduo (water) sounds like vahn-DWAW, both vowels full",
	},
	{
		Text:    "Diminutives are everywhere and always affectionate.",
		Example: "katė → katytė (kitty), namas → namelis (little house)",
	},
	{
		Text:    "The nine special letters ą č ę ė į š ų ū ž are distinct letters, not accents. katė and kate are different words.",
		Example: "katė (cat, nominative) vs kate (cat, instrumental)",
	},
}

// motivationalLines is the embedded set shown on motivational breaks.
var motivationalLines = []string{
	"Šaunu! Every word you meet today is one you'll own tomorrow.",
	"Puiku! Small steps, every day.",
	"Languages are built one word at a time. You're building.",
	"Valio! Your effort matters more than any score.",
	"Mistakes are proof you're trying. Pirmyn!",
	"Ten minutes a day beats two hours once a week.",
	"You just taught your brain something it didn't know this morning.",
	"Gerai sekasi! You're doing well.",
	"Every expert was once a beginner who kept showing up.",
	"Progress over perfection.",
	"Take a breath. The words will wait for you.",
	"Consistency is your superpower.",
	"Kiekviena diena — nauja pradžia. Every day is a fresh start.",
	"The best time to review a word is right now.",
}

// StaticGrammarTip returns a random tip from the embedded set.
func StaticGrammarTip() Tip {
	return grammarTips[rand.IntN(len(grammarTips))]
}

// Motivation returns a random line from the embedded set.
func Motivation() string {
	return motivationalLines[rand.IntN(len(motivationalLines))]
}
