package models

import "time"

// Session records one processed speech turn. Sessions are never modified
// after creation.
type Session struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Transcription  string    `json:"transcription"`
	AudioData      string    `json:"audioData,omitempty"`
	AIResponse     string    `json:"aiResponse"`
	Confidence     int       `json:"confidence"`
	Latency        int       `json:"latency"`
	CreatedAt      time.Time `json:"createdAt"`
}

type NewSession struct {
	ConversationID string
	Transcription  string
	AudioData      string
	AIResponse     string
	Confidence     int
	Latency        int
}
