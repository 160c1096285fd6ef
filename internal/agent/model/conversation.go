package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Exchange is one user message and the reply PawsBot gave to it.
type Exchange struct {
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Category    Category  `json:"category"`
	Urgency     Urgency   `json:"urgency"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConversationState is everything PawsBot remembers about one user.
// It lives only in process memory.
type ConversationState struct {
	UserID          string
	History         []Exchange
	Context         map[string]any
	LastInteraction time.Time
}

// Clone returns a copy that shares no slices or maps with s.
func (s ConversationState) Clone() ConversationState {
	out := s
	out.History = slices.Clone(s.History)
	if out.History == nil {
		out.History = []Exchange{}
	}
	out.Context = maps.Clone(s.Context)
	if out.Context == nil {
		out.Context = map[string]any{}
	}
	return out
}

// PetInfo is the optional pet profile a caller can pass under the "petInfo" context key.
type PetInfo struct {
	Type   string `json:"type,omitempty"`
	Age    string `json:"age,omitempty"`
	Breed  string `json:"breed,omitempty"`
	Weight string `json:"weight,omitempty"`
}

// IsZero reports whether no pet detail is set.
func (p PetInfo) IsZero() bool {
	return p == PetInfo{}
}

// PetInfoKey is the caller context key carrying the pet profile.
const PetInfoKey = "petInfo"

// PetInfoFromContext reads the pet profile from caller context. It accepts a
// PetInfo value or pointer, or a decoded JSON object.
func PetInfoFromContext(ctx map[string]any) (PetInfo, bool) {
	raw, ok := ctx[PetInfoKey]
	if !ok || raw == nil {
		return PetInfo{}, false
	}

	var p PetInfo
	switch v := raw.(type) {
	case PetInfo:
		p = v
	case *PetInfo:
		if v == nil {
			return PetInfo{}, false
		}
		p = *v
	case map[string]any:
		p = PetInfo{
			Type:   stringField(v, "type"),
			Age:    stringField(v, "age"),
			Breed:  stringField(v, "breed"),
			Weight: stringField(v, "weight"),
		}
	default:
		return PetInfo{}, false
	}
	return p, !p.IsZero()
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}
