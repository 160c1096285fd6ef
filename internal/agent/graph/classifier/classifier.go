// Package classifier maps a free-text pet question to a topic, an urgency
// tier and a fixed confidence score using ordered keyword sets.
package classifier

import (
	"strings"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

const maxKeywords = 10

type rule struct {
	category   model.Category
	urgency    model.Urgency
	confidence float64
	keywords   []string
}

// rules are checked in order and the first match wins. Emergency must stay
// first: a message that mentions both an emergency and a diet term is an
// emergency.
var rules = []rule{
	{
		category:   model.CategoryEmergency,
		urgency:    model.UrgencyCritical,
		confidence: 0.95,
		keywords: []string{
			"emergency", "urgent", "dying", "bleeding", "poisoning", "seizure",
			"unconscious", "choking", "accident", "can't breathe", "hit by car",
		},
	},
	{
		category:   model.CategoryHealth,
		urgency:    model.UrgencyHigh,
		confidence: 0.85,
		keywords: []string{
			"sick", "ill", "vomiting", "pain", "fever", "wound", "injured",
			"diarrhea", "symptoms", "lethargic", "limping", "medicine", "disease",
		},
	},
	{
		category:   model.CategoryBehavior,
		urgency:    model.UrgencyMedium,
		confidence: 0.80,
		keywords: []string{
			"aggressive", "biting", "barking", "anxiety", "training",
			"destructive", "scared", "socialization", "discipline", "behavior",
		},
	},
	{
		category:   model.CategoryNutrition,
		urgency:    model.UrgencyLow,
		confidence: 0.75,
		keywords: []string{
			"food", "feed", "diet", "appetite", "weight", "nutrition", "treats", "hungry",
		},
	},
}

var general = rule{
	category:   model.CategoryGeneral,
	urgency:    model.UrgencyLow,
	confidence: 0.60,
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "are": {}, "was": {},
	"were": {}, "been": {}, "have": {}, "has": {}, "had": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"can": {}, "your": {}, "his": {}, "her": {}, "its": {}, "our": {}, "their": {},
}

// Classify never fails and keeps no state between calls.
func Classify(message string) model.Classification {
	lower := strings.ToLower(message)

	matched := general
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			matched = r
			break
		}
	}

	return model.Classification{
		Category:   matched.category,
		Urgency:    matched.urgency,
		Confidence: matched.confidence,
		Keywords:   extractKeywords(lower),
		NeedsVet:   matched.category == model.CategoryEmergency || matched.category == model.CategoryHealth,
	}
}

// UrgencyFor returns the urgency tier tied to a category.
func UrgencyFor(c model.Category) model.Urgency {
	for _, r := range rules {
		if r.category == c {
			return r.urgency
		}
	}
	return general.urgency
}

// ContainsEmergencyLanguage reports whether message hits the emergency keyword set.
func ContainsEmergencyLanguage(message string) bool {
	return containsAny(strings.ToLower(message), rules[0].keywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func extractKeywords(lower string) []string {
	var out []string
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if len(word) <= 2 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		out = append(out, word)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
