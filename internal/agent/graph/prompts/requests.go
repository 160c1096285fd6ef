package prompts

import (
	"fmt"
	"strings"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

// EmergencyCheckMessage turns a symptom report into the message PawsBot
// processes for an emergency assessment. It always carries emergency language.
func EmergencyCheckMessage(symptoms string, pet *model.PetInfo) string {
	var b strings.Builder
	b.WriteString("URGENT: Emergency assessment needed! Symptoms: ")
	b.WriteString(strings.TrimSpace(symptoms))
	if pet != nil {
		fmt.Fprintf(&b, "\n\nPet Details:\n- Type: %s\n- Age: %s\n- Breed: %s\n- Weight: %s",
			orUnspecified(pet.Type), orUnspecified(pet.Age), orUnspecified(pet.Breed), orUnspecified(pet.Weight))
	}
	b.WriteString("\n\nPlease assess urgency and provide immediate guidance!")
	return b.String()
}

// SummaryMessage asks PawsBot to condense community answers to a question.
func SummaryMessage(answers []string) string {
	var b strings.Builder
	b.WriteString("Please summarize these community answers about a pet care question:\n\n")
	for i, a := range answers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Answer %d: %s", i+1, strings.TrimSpace(a))
	}
	b.WriteString("\n\nProvide a concise, helpful summary highlighting the main consensus and key advice.")
	return b.String()
}
