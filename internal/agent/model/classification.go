package model

// Category is the topic a message was routed to.
type Category string

const (
	CategoryEmergency Category = "emergency"
	CategoryHealth    Category = "health"
	CategoryBehavior  Category = "behavior"
	CategoryNutrition Category = "nutrition"
	CategoryGeneral   Category = "general"
)

// Urgency tiers, lowest first.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Classification is the per-message output of the keyword classifier.
type Classification struct {
	Category   Category `json:"category"`
	Urgency    Urgency  `json:"urgency"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords,omitempty"`
	NeedsVet   bool     `json:"needs_vet"`
}
