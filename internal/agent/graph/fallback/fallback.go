// Package fallback holds the static replies PawsBot gives when the
// generation backend is unavailable, plus the last-resort reply used when a
// whole run fails.
package fallback

import (
	"github.com/PawsConnect/pawsbot/internal/agent/graph/classifier"
	"github.com/PawsConnect/pawsbot/internal/agent/model"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

// PoisonControl is quoted verbatim in every emergency-flavored reply.
const PoisonControl = "(888) 426-4435"

// EmergencyScript is the fixed emergency reply. It never depends on the generation backend.
const EmergencyScript = `🚨 **EMERGENCY DETECTED** 🚨

This appears to be an urgent situation. Here's what you should do IMMEDIATELY:

🏥 **SEEK EMERGENCY VET CARE NOW**
• Call your emergency vet clinic right away
• If no emergency clinic is available, call the Pet Poison Helpline: ` + PoisonControl + `
• Keep your pet calm and warm
• Do NOT give human medications

⚡ **While getting help:**
• Monitor breathing and consciousness
• Keep airways clear
• Apply gentle pressure to bleeding wounds
• Note all symptoms and when they started

🚗 **Transport safely:**
• Use a blanket as a stretcher for large pets
• Keep head elevated if conscious
• Drive carefully - your pet needs you safe too

This is NOT a substitute for professional emergency care. GET VETERINARY HELP IMMEDIATELY.`

const health = `🏥 I'm having trouble accessing my full knowledge right now, but health concerns are important!

**General Health Red Flags:**
• Loss of appetite for 24+ hours
• Persistent vomiting or diarrhea
• Difficulty breathing
• Extreme lethargy
• Signs of pain

📞 **When in doubt, call your vet!** It's always better to be safe. If you suspect poisoning, call ` + PoisonControl + ` right away.`

const behavior = `🎓 Training takes patience! Here are some universal tips:

• **Positive reinforcement** works best
• **Consistency** from all family members
• **Short training sessions** (5-10 minutes)
• **High-value treats** for motivation
• **Never punish** - redirect instead

🩺 Sudden aggression or anxiety can have a medical cause, so contact your veterinarian if the change came on quickly.

🏆 Every pet learns at their own pace!`

const nutrition = `🍽️ Nutrition basics while I'm offline:

• **Fresh water** always available
• **Age-appropriate** pet food
• **Regular feeding schedule**
• **Avoid** chocolate, onions, grapes, xylitol
• **Portion control** based on size/activity

⚠️ Always consult your vet before dietary changes, and call your vet if your pet stops eating for more than a day.`

const general = `🐾 I'm temporarily offline, but here's what you can do:

• 📱 Ask our community for advice
• 🔍 Browse our knowledge base
• 📞 Contact your vet for health concerns
• 🆘 Call an emergency vet for urgent issues

I'll be back soon with better answers! 🤖`

const catastrophicEmergency = `🚨 I'm experiencing technical difficulties, but this seems urgent! Please contact your emergency veterinarian immediately or call animal poison control: ` + PoisonControl

const catastrophicGeneral = `🤖 I'm having some technical difficulties right now, but I don't want to leave you without help! While I'm getting back online, you can:

• 📱 Post your question in our community
• 📞 Contact your veterinarian for health concerns
• 🆘 Call an emergency vet for urgent situations

I'll be back online soon! 🐾`

// ForCategory returns the static reply for a topic. rawErr is the backend
// failure text; it is logged, never shown to the user.
func ForCategory(category model.Category, rawErr string) string {
	logx.Debug().Str("category", string(category)).Str("cause", rawErr).Msg("Serving fallback reply")
	switch category {
	case model.CategoryEmergency:
		return EmergencyScript
	case model.CategoryHealth:
		return health
	case model.CategoryBehavior:
		return behavior
	case model.CategoryNutrition:
		return nutrition
	default:
		return general
	}
}

// Resolution is the last-resort reply for a run that failed outright.
type Resolution struct {
	Response string
	Category model.Category
	Urgency  model.Urgency
}

// Catastrophic picks the reply for a run that failed before a handler could
// answer. It looks at the caller's raw message, so emergencies still get the
// poison-control line even when classification never ran.
func Catastrophic(message string) Resolution {
	if classifier.ContainsEmergencyLanguage(message) {
		return Resolution{
			Response: catastrophicEmergency,
			Category: model.CategoryEmergency,
			Urgency:  model.UrgencyCritical,
		}
	}
	return Resolution{
		Response: catastrophicGeneral,
		Category: model.CategoryGeneral,
		Urgency:  model.UrgencyLow,
	}
}
