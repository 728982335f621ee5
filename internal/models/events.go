package models

import "encoding/json"

// Realtime event types fanned out to every feed subscriber.
const (
	EventPostCreated         = "post_created"
	EventPostReactionUpdated = "post_reaction_updated"
	EventCommentCreated      = "comment_created"
	EventMessagesDropped     = "messages_dropped"
)

// RealtimeEvent is the envelope written to WebSocket subscribers.
type RealtimeEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewRealtimeEvent encodes payload into an event envelope.
func NewRealtimeEvent(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(RealtimeEvent{Type: eventType, Payload: raw})
}
