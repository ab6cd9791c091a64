package domain

// Suggestion is one scored snippet remembered for a trigger keyword.
type Suggestion struct {
	ID      string `json:"id"`
	Trigger string `json:"trigger"`
	Snippet string `json:"snippet"`
	Score   int    `json:"score"`
}

// SuggestionMap is the JSON document stored under the suggestion-memory
// slot: trigger keyword to its ordered suggestion list. Insertion order is
// preserved; the list is not sorted by score.
type SuggestionMap map[string][]Suggestion
