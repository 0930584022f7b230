package models

// Reply is a synthesized assistant answer plus the reasoning shown alongside it.
type Reply struct {
	Content   string   `json:"content"`
	Reasoning []string `json:"reasoning"`
}

type ProcessSpeechRequest struct {
	Transcription  string `json:"transcription" binding:"required"`
	ConversationID string `json:"conversationId"`
}

type ProcessSpeechResponse struct {
	Response   Reply     `json:"response"`
	Confidence int       `json:"confidence"`
	Latency    int       `json:"latency"`
	Sentiment  Sentiment `json:"sentiment"`
}

type ProcessAudioRequest struct {
	AudioData      string `json:"audioData" binding:"required,base64"`
	ConversationID string `json:"conversationId"`
}

type ProcessAudioResponse struct {
	Transcription string    `json:"transcription"`
	Confidence    int       `json:"confidence"`
	Response      Reply     `json:"response"`
	Sentiment     Sentiment `json:"sentiment"`
	Latency       int       `json:"latency"`
}

type TranscriptionToken struct {
	Token        string `json:"token"`
	WebsocketURL string `json:"websocketUrl"`
	ExpiresIn    int    `json:"expiresIn"`
}

type TimelinePoint struct {
	Sentiment Sentiment `json:"sentiment"`
	Value     float64   `json:"value"`
}

type FeatureProgress struct {
	Active   bool `json:"active"`
	Progress int  `json:"progress"`
}

type FeatureSuggestions struct {
	Active      bool `json:"active"`
	Suggestions int  `json:"suggestions"`
}

type ActiveFeatures struct {
	CrossSessionMemory   FeatureProgress    `json:"crossSessionMemory"`
	DynamicLearning      FeatureProgress    `json:"dynamicLearning"`
	ProactiveSuggestions FeatureSuggestions `json:"proactiveSuggestions"`
}

// Analytics is the dashboard metrics payload. All values are synthetic.
type Analytics struct {
	ResponseTime      int             `json:"responseTime"`
	Accuracy          int             `json:"accuracy"`
	Satisfaction      string          `json:"satisfaction"`
	EscalationRate    int             `json:"escalationRate"`
	SentimentTimeline []TimelinePoint `json:"sentimentTimeline"`
	ActiveFeatures    ActiveFeatures  `json:"activeFeatures"`
}

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}
