package assist

import (
	"strings"

	"supportdesk/models"
)

var (
	frustrationWords = []string{"frustrated", "angry", "terrible", "awful", "hate", "broken", "stupid", "worst", "horrible", "mad", "annoyed"}
	negativeWords    = []string{"bad", "poor", "disappointing", "wrong", "problem", "issue", "trouble", "difficult", "slow"}
	positiveWords    = []string{"great", "good", "excellent", "perfect", "love", "amazing", "wonderful", "fantastic", "helpful", "thank"}
)

// ClassifySentiment scores text against fixed keyword lists. Keywords match
// as substrings of the lowercased text, so "thanks" counts as "thank".
// Any frustration keyword wins outright.
func ClassifySentiment(text string) models.Sentiment {
	lower := strings.ToLower(text)

	if countMatches(lower, frustrationWords) > 0 {
		return models.SentimentFrustrated
	}
	negative := countMatches(lower, negativeWords)
	positive := countMatches(lower, positiveWords)
	if negative > positive {
		return models.SentimentNegative
	}
	if positive > 0 {
		return models.SentimentPositive
	}
	return models.SentimentNeutral
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
