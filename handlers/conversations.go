package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"supportdesk/models"
)

const conversationNotFound = "Conversation not found"

func (a *API) listConversations(c *gin.Context) {
	convos, err := a.store.ListConversations(c.Request.Context())
	if err != nil {
		fail(c, err, conversationNotFound, "Failed to fetch conversations")
		return
	}
	c.JSON(http.StatusOK, convos)
}

func (a *API) getConversation(c *gin.Context) {
	convo, err := a.store.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, conversationNotFound, "Failed to fetch conversation")
		return
	}
	c.JSON(http.StatusOK, convo)
}

func (a *API) createConversation(c *gin.Context) {
	var payload models.NewConversation
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalid(c, err)
		return
	}

	convo, err := a.store.CreateConversation(c.Request.Context(), payload)
	if err != nil {
		fail(c, err, conversationNotFound, "Failed to create conversation")
		return
	}

	a.publish(c.Request.Context(), models.EventConversationCreated, convo.ID, convo)
	c.JSON(http.StatusCreated, convo)
}

// patchConversation reports a missing conversation before looking at the
// body, so an unknown id is always a 404. An empty body is a no-op patch.
func (a *API) patchConversation(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := a.store.GetConversation(ctx, id); err != nil {
		fail(c, err, conversationNotFound, "Failed to update conversation")
		return
	}

	var patch models.ConversationPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		invalid(c, err)
		return
	}

	convo, err := a.store.UpdateConversation(ctx, id, patch)
	if err != nil {
		fail(c, err, conversationNotFound, "Failed to update conversation")
		return
	}

	a.publish(ctx, models.EventConversationUpdated, convo.ID, convo)
	c.JSON(http.StatusOK, convo)
}

// listSessions requires the conversation to exist even though the store
// itself would simply return nothing.
func (a *API) listSessions(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := a.store.GetConversation(ctx, id); err != nil {
		fail(c, err, conversationNotFound, "Failed to fetch sessions")
		return
	}
	sessions, err := a.store.ListSessions(ctx, id)
	if err != nil {
		fail(c, err, conversationNotFound, "Failed to fetch sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}
