// Package assist produces the assistant's side of a conversation turn.
//
// Nothing here is real inference. Canned picks replies, confidence, latency
// and dashboard metrics at random so the demo dashboard has something to
// show; a model-backed Decider can replace it without touching the handlers.
package assist

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"supportdesk/models"
)

// Decider is everything the request handlers need from the assistant.
type Decider interface {
	// Reply answers a transcript.
	Reply(transcript string) models.Reply
	// Confidence is the reported reply confidence, 0-100.
	Confidence() int
	// ProcessingDelay is how long speech processing should appear to take.
	ProcessingDelay() time.Duration
	// AudioLatency is the latency reported for audio turns, in milliseconds.
	AudioLatency() int
	Analytics() models.Analytics
}

var cannedReplies = []models.Reply{
	{
		Content: "I understand your concern. Let me help you troubleshoot this issue step by step.",
		Reasoning: []string{
			"Detected frustration in voice tone",
			"Cross-referenced with area outage reports",
			"Applied escalation prevention strategy",
			"Initiated structured troubleshooting workflow",
		},
	},
	{
		Content: "Thank you for providing that information. Based on your account history, I can see similar issues were resolved previously.",
		Reasoning: []string{
			"Accessed customer history",
			"Identified pattern in previous issues",
			"Applied learned resolution strategy",
		},
	},
	{
		Content: "I've analyzed your account and I'm detecting some network connectivity patterns. Let me guide you through a quick diagnostic.",
		Reasoning: []string{
			"Performed network analysis",
			"Detected connectivity patterns",
			"Initiated diagnostic workflow",
		},
	},
}

// CannedReplies returns a copy of the fixed reply set.
func CannedReplies() []models.Reply {
	out := make([]models.Reply, len(cannedReplies))
	for i, r := range cannedReplies {
		out[i] = models.Reply{Content: r.Content, Reasoning: append([]string(nil), r.Reasoning...)}
	}
	return out
}

var timelineSentiments = []models.Sentiment{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative}

const timelinePoints = 7

// Canned is the random Decider used by the demo.
type Canned struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCanned returns a Canned decider. A zero seed picks one from the clock.
func NewCanned(seed int64) *Canned {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Canned{rng: rand.New(rand.NewSource(seed))}
}

// Reply picks a canned reply uniformly at random. The transcript is not used.
func (c *Canned) Reply(_ string) models.Reply {
	replies := CannedReplies()
	return replies[c.intn(len(replies))]
}

func (c *Canned) Confidence() int {
	return 90 + c.intn(10)
}

func (c *Canned) ProcessingDelay() time.Duration {
	return 200*time.Millisecond + time.Duration(c.frac()*float64(200*time.Millisecond))
}

func (c *Canned) AudioLatency() int {
	return 200 + c.intn(100)
}

func (c *Canned) Analytics() models.Analytics {
	timeline := make([]models.TimelinePoint, 0, timelinePoints)
	for i := 0; i < timelinePoints; i++ {
		timeline = append(timeline, models.TimelinePoint{
			Sentiment: timelineSentiments[c.intn(len(timelineSentiments))],
			Value:     c.frac() * 100,
		})
	}

	return models.Analytics{
		ResponseTime:      250 + c.intn(100),
		Accuracy:          92 + c.intn(8),
		Satisfaction:      fmt.Sprintf("%.1f", 4.5+c.frac()*0.5),
		EscalationRate:    10 + c.intn(10),
		SentimentTimeline: timeline,
		ActiveFeatures: models.ActiveFeatures{
			CrossSessionMemory:   models.FeatureProgress{Active: true, Progress: 85},
			DynamicLearning:      models.FeatureProgress{Active: true, Progress: 60},
			ProactiveSuggestions: models.FeatureSuggestions{Active: true, Suggestions: 3},
		},
	}
}

func (c *Canned) intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(n)
}

func (c *Canned) frac() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Float64()
}
