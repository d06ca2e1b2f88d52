// Package coach implements the scripted conversational coach: a phrase-table
// lookup with a rule-based fallback, staged through thinking and typing
// phases to feel conversational without any real inference.
package coach

import (
	"math/rand"
	"strings"
)

// demoEntry maps a trigger phrase to its candidate reply templates.
// Matching is case-insensitive substring containment; entries are tried in
// order and the first hit wins.
type demoEntry struct {
	trigger string
	answers []string
}

var demoAnswers = []demoEntry{
	{
		trigger: "where did my money go",
		answers: []string{
			"This week most spending is in **Food** ($59.7), then **Transportation** ($42), then **Utilities** ($60). You have spent about **$329** total, mostly on essentials.",
			"Let me check... **Food** leads at $59.7, followed by **Transportation** and **Utilities**. Overall, you are at about **$329** this period.",
		},
	},
	{
		trigger: "how do i start saving",
		answers: []string{
			"Two quick wins: turn on **round-ups** and add **$5** to your emergency fund today. That builds momentum. I can also set a **$2/day** auto-rule if you like.",
			"Start small! Try **$5** today into your Emergency Fund. Enable **round-ups** on purchases. Small steps compound fast.",
		},
	},
	{
		trigger: "am i on track this week",
		answers: []string{
			"You are at about **65%** of your weekly plan. If you keep today pace, you will land around **$380**. To finish strong, try capping **Food** spending for the next few days.",
			"You have used **65%** of your budget. Staying on track means keeping **Food** and **Entertainment** light through the weekend.",
		},
	},
	{
		trigger: "is this a subscription",
		answers: []string{
			"I spotted at least one repeating merchant: **streaming service** ($9.99). Want to set a **$0** test week and see if you miss it?",
			"Yes, **streaming service** appears to be recurring. Consider pausing it for a week to test if you really need it.",
		},
	},
	{
		trigger: "if i invest $10/wk",
		answers: []string{
			"At **8%** for **5 years**, **$10/week** grows to about **$3,200**. Try it in the **Invest** tab; we will show a clear projection and a confidence band.",
			"Great question! **$10/week** at **8%** becomes roughly **$3,200** after **5 years**. Check the Invest tab for a visual breakdown.",
		},
	},
}

// preludes open every coach reply. One is picked at random per response,
// independent of which answer was chosen.
var preludes = []string{
	"Hmm...",
	"Let me check that...",
	"One sec...",
	"Looking into it...",
	"Give me a moment...",
}

// findDemoAnswer returns a random candidate answer for the first trigger
// phrase contained in the question, or false when nothing matches.
func findDemoAnswer(question string, rng *rand.Rand) (string, bool) {
	lower := strings.ToLower(question)
	for _, entry := range demoAnswers {
		if strings.Contains(lower, entry.trigger) {
			return entry.answers[rng.Intn(len(entry.answers))], true
		}
	}
	return "", false
}

func randomPrelude(rng *rand.Rand) string {
	return preludes[rng.Intn(len(preludes))]
}
