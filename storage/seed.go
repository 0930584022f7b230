package storage

import (
	"context"
	"fmt"
	"time"

	"supportdesk/models"
)

var _ Store = (*MemStore)(nil)

// DemoCustomers returns the customers loaded at startup, with lastContact
// relative to now.
func DemoCustomers(now time.Time) []models.NewCustomer {
	threeWeeksAgo := now.Add(-21 * 24 * time.Hour)
	twoDaysAgo := now.Add(-2 * 24 * time.Hour)
	return []models.NewCustomer{
		{
			ID:               "customer-1",
			Name:             "Sarah Johnson",
			Tier:             models.TierPremium,
			AccountAge:       "2 years",
			LastContact:      &threeWeeksAgo,
			SentimentHistory: string(models.SentimentPositive),
			Language:         "English",
			PreviousIssues:   []string{"Wi-Fi setup assistance", "Billing inquiry (resolved)", "Service upgrade"},
		},
		{
			ID:               "customer-2",
			Name:             "Mike Chen",
			Tier:             models.TierStandard,
			AccountAge:       "1 year",
			LastContact:      &twoDaysAgo,
			SentimentHistory: string(models.SentimentFrustrated),
			Language:         "English",
			PreviousIssues:   []string{"Account billing inquiry", "Service downtime"},
		},
	}
}

// DemoConversations returns the conversations loaded at startup.
func DemoConversations(now time.Time) []models.Conversation {
	ts := now.Format(time.RFC3339Nano)
	conf98, conf95, lat200 := 98, 95, 200
	return []models.Conversation{
		{
			ID:           "conv-1",
			CustomerName: "Sarah Johnson",
			Status:       models.StatusActive,
			Messages: []models.Message{
				{
					Type:       models.MessageAI,
					Content:    "Hello! I'm AudiaGenix, your intelligent voice assistant. How can I assist you today?",
					Timestamp:  ts,
					Confidence: &conf98,
					Latency:    &lat200,
				},
				{
					Type:      models.MessageUser,
					Content:   "Hi, I'm having trouble with my internet connection. It keeps dropping out every few minutes.",
					Timestamp: ts,
					Sentiment: models.SentimentFrustrated,
				},
			},
			Sentiment: models.SentimentFrustrated,
			Duration:  204,
			CreatedAt: now,
		},
		{
			ID:           "conv-2",
			CustomerName: "Mike Chen",
			Status:       models.StatusEscalated,
			Messages: []models.Message{
				{
					Type:       models.MessageAI,
					Content:    "I understand you have a billing inquiry. Let me help you with that.",
					Timestamp:  ts,
					Confidence: &conf95,
				},
				{
					Type:      models.MessageUser,
					Content:   "I've been charged twice for the same service.",
					Timestamp: ts,
					Sentiment: models.SentimentFrustrated,
				},
			},
			Sentiment: models.SentimentFrustrated,
			Duration:  495,
			CreatedAt: now,
		},
	}
}

// Seed loads the demo customers and conversations. Existing records with the
// same ids are replaced.
func (s *MemStore) Seed(ctx context.Context) error {
	now := s.now()
	for _, c := range DemoCustomers(now) {
		if _, err := s.CreateCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range DemoConversations(now) {
		s.putConversationLocked(c.Clone())
	}
	return nil
}
