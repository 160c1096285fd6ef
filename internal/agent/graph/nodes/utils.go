package nodes

import (
	"fmt"
	"strings"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
)

func boolPtr(b bool) *bool {
	return &b
}

// wrapTopic frames generated prose with the topic header and the standard
// reminders, disclaimer and follow-up question.
func wrapTopic(category model.Category, text string) string {
	text = strings.TrimSpace(text)
	switch category {
	case model.CategoryHealth:
		return fmt.Sprintf(`🏥 **Pet Health Guidance**

%s

⚠️ **Important Reminder:**
This advice doesn't replace professional veterinary care. For any health concerns, please consult with your veterinarian who can properly examine and diagnose your pet.

🔔 Would you like me to help you find emergency vet services in your area?`, text)
	case model.CategoryBehavior:
		return fmt.Sprintf(`🎓 **Pet Behavior Guidance**

%s

💡 **Remember:**
• Consistency is key - everyone in the household should use the same approach
• Positive reinforcement works better than punishment
• Be patient - behavior change takes time
• Consider a professional trainer, and check with your vet if the behavior appeared suddenly

🤔 Do you have any specific questions about implementing these techniques?`, text)
	case model.CategoryNutrition:
		return fmt.Sprintf(`🍽️ **Pet Nutrition Guidance**

%s

⚠️ **Safety First:**
• Always introduce new foods gradually
• Consult your vet before major dietary changes
• Every pet is different - what works for one may not work for another

🥗 Would you like specific feeding schedule recommendations for your pet's age and size?`, text)
	default:
		return fmt.Sprintf(`🐾 %s

ℹ️ I'm an AI assistant, not a veterinarian. For health concerns, please contact your vet.

💬 Is there anything else you'd like to know about pet care?`, text)
	}
}
