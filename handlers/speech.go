package handlers

import (
	"context"
	"encoding/base64"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"supportdesk/assist"
	"supportdesk/models"
	"supportdesk/speech"
)

// processSpeech answers a text transcript. The decider's processing delay
// is actually slept so the dashboard shows realistic latency.
func (a *API) processSpeech(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.ProcessSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	if !a.conversationExists(c, req.ConversationID) {
		return
	}

	delay := a.decider.ProcessingDelay()
	if err := a.wait(ctx, delay); err != nil {
		fail(c, err, conversationNotFound, "Failed to process speech")
		return
	}

	reply := a.decider.Reply(req.Transcription)
	confidence := a.decider.Confidence()
	latency := int(delay / time.Millisecond)

	if req.ConversationID != "" {
		if err := a.recordSession(ctx, models.NewSession{
			ConversationID: req.ConversationID,
			Transcription:  req.Transcription,
			AIResponse:     reply.Content,
			Confidence:     confidence,
			Latency:        latency,
		}); err != nil {
			fail(c, err, conversationNotFound, "Failed to process speech")
			return
		}
	}

	c.JSON(http.StatusOK, models.ProcessSpeechResponse{
		Response:   reply,
		Confidence: confidence,
		Latency:    latency,
		Sentiment:  assist.ClassifySentiment(req.Transcription),
	})
}

func (a *API) processAudio(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.ProcessAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid data",
			Errors:  []models.FieldError{{Field: "audioData", Message: "must be base64 encoded"}},
		})
		return
	}
	if !a.conversationExists(c, req.ConversationID) {
		return
	}
	if a.transcriber == nil {
		fail(c, speech.ErrNotConfigured, conversationNotFound, "Failed to process audio")
		return
	}

	transcript, err := a.transcriber.Transcribe(ctx, audio)
	if err != nil {
		fail(c, err, conversationNotFound, "Failed to transcribe audio")
		return
	}

	reply := a.decider.Reply(transcript.Text)
	confidence := int(math.Round(transcript.Confidence * 100))
	latency := a.decider.AudioLatency()

	if req.ConversationID != "" {
		if err := a.recordSession(ctx, models.NewSession{
			ConversationID: req.ConversationID,
			Transcription:  transcript.Text,
			AudioData:      req.AudioData,
			AIResponse:     reply.Content,
			Confidence:     confidence,
			Latency:        latency,
		}); err != nil {
			fail(c, err, conversationNotFound, "Failed to process audio")
			return
		}
	}

	c.JSON(http.StatusOK, models.ProcessAudioResponse{
		Transcription: transcript.Text,
		Confidence:    confidence,
		Response:      reply,
		Sentiment:     assist.ClassifySentiment(transcript.Text),
		Latency:       latency,
	})
}

func (a *API) transcriptionToken(c *gin.Context) {
	if a.tokens == nil {
		fail(c, speech.ErrNotConfigured, "", "Failed to get transcription token")
		return
	}
	token, err := a.tokens.Issue(c.Request.Context())
	if err != nil {
		fail(c, err, "", "Failed to get transcription token")
		return
	}
	c.JSON(http.StatusOK, token)
}

func (a *API) analytics(c *gin.Context) {
	c.JSON(http.StatusOK, a.decider.Analytics())
}

// conversationExists writes a 404 and returns false when id is set but
// unknown. An empty id means the turn is not tied to a conversation.
func (a *API) conversationExists(c *gin.Context, id string) bool {
	if id == "" {
		return true
	}
	if _, err := a.store.GetConversation(c.Request.Context(), id); err != nil {
		fail(c, err, conversationNotFound, "Failed to fetch conversation")
		return false
	}
	return true
}

func (a *API) recordSession(ctx context.Context, in models.NewSession) error {
	sess, err := a.store.CreateSession(ctx, in)
	if err != nil {
		return err
	}
	// Audio payloads stay out of the change feed.
	sess.AudioData = ""
	a.publish(ctx, models.EventSessionCreated, sess.ID, sess)
	return nil
}
