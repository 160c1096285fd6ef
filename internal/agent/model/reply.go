package model

import "time"

// Reply is what ProcessMessage hands back to the HTTP layer.
// Success is true even when a fallback text replaced generated prose.
type Reply struct {
	Success       bool           `json:"success"`
	Response      string         `json:"response"`
	Urgency       Urgency        `json:"urgency"`
	Category      Category       `json:"category"`
	NeedsFollowup bool           `json:"needsFollowup"`
	Confidence    float64        `json:"confidence"`
	Context       map[string]any `json:"context"`
	Timestamp     time.Time      `json:"timestamp"`
	RunID         string         `json:"runId,omitempty"`
}

// EmergencyAssessment is the result of an emergency symptom check.
type EmergencyAssessment struct {
	Symptoms        string    `json:"symptoms"`
	Assessment      string    `json:"assessment"`
	UrgencyLevel    Urgency   `json:"urgencyLevel"`
	Category        Category  `json:"category"`
	ImmediateAction bool      `json:"immediateAction"`
	VetRecommended  bool      `json:"vetRecommended"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
}

// AnswerSummary is the result of summarizing community answers to a post.
type AnswerSummary struct {
	PostID       string    `json:"postId"`
	Summary      string    `json:"summary"`
	AnswersCount int       `json:"answersCount"`
	Confidence   float64   `json:"confidence"`
	Timestamp    time.Time `json:"timestamp"`
}
