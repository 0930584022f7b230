package models

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusEscalated Status = "escalated"
	StatusCompleted Status = "completed"
)

type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentFrustrated Sentiment = "frustrated"
)

type MessageType string

const (
	MessageAI   MessageType = "ai"
	MessageUser MessageType = "user"
)

// Message is one turn inside a Conversation. It has no identity of its own.
type Message struct {
	Type       MessageType `json:"type" binding:"required,oneof=ai user"`
	Content    string      `json:"content" binding:"required"`
	Timestamp  string      `json:"timestamp"`
	Confidence *int        `json:"confidence,omitempty" binding:"omitempty,min=0,max=100"`
	Latency    *int        `json:"latency,omitempty" binding:"omitempty,min=0"`
	Sentiment  Sentiment   `json:"sentiment,omitempty" binding:"omitempty,oneof=positive neutral negative frustrated"`
}

// Conversation is a support interaction between a customer and the assistant.
// Messages are kept in chronological order.
type Conversation struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Status       Status    `json:"status"`
	Messages     []Message `json:"messages"`
	Sentiment    Sentiment `json:"sentiment"`
	Duration     int       `json:"duration"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewConversation carries the caller-supplied fields of a conversation.
// Zero values fall back to the defaults applied by the store.
type NewConversation struct {
	CustomerName string    `json:"customerName" binding:"required"`
	Status       Status    `json:"status" binding:"omitempty,oneof=active escalated completed"`
	Messages     []Message `json:"messages" binding:"omitempty,dive"`
	Sentiment    Sentiment `json:"sentiment" binding:"omitempty,oneof=positive neutral negative frustrated"`
	Duration     int       `json:"duration" binding:"min=0"`
}

// ConversationPatch is a partial update. Nil fields are left untouched; a
// non-nil Messages slice replaces the whole sequence.
type ConversationPatch struct {
	CustomerName *string    `json:"customerName" binding:"omitempty,min=1"`
	Status       *Status    `json:"status" binding:"omitempty,oneof=active escalated completed"`
	Messages     []Message  `json:"messages" binding:"omitempty,dive"`
	Sentiment    *Sentiment `json:"sentiment" binding:"omitempty,oneof=positive neutral negative frustrated"`
	Duration     *int       `json:"duration" binding:"omitempty,min=0"`
}

// Apply returns c with the patch fields overwritten. c itself is not modified.
func (p ConversationPatch) Apply(c Conversation) Conversation {
	if p.CustomerName != nil {
		c.CustomerName = *p.CustomerName
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Messages != nil {
		c.Messages = append([]Message(nil), p.Messages...)
	}
	if p.Sentiment != nil {
		c.Sentiment = *p.Sentiment
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	return c
}

// Clone returns a copy that shares no slices with c.
func (c Conversation) Clone() Conversation {
	msgs := make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = m.clone()
	}
	c.Messages = msgs
	return c
}

func (m Message) clone() Message {
	if m.Confidence != nil {
		v := *m.Confidence
		m.Confidence = &v
	}
	if m.Latency != nil {
		v := *m.Latency
		m.Latency = &v
	}
	return m
}
