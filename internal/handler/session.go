package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"weather-chat/internal/models"
	"weather-chat/internal/service"
	"weather-chat/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// credentialPrompt is shown until the caller supplies an API key.
	credentialPrompt = "계속하려면 OpenAI API 키를 입력해 주세요."
	placeNotFoundFmt = "위치를 찾을 수 없습니다: %s"
)

// SessionStore interface for dependency injection
type SessionStore interface {
	Create(ctx context.Context) *session.Session
	Get(id string) (*session.Session, error)
}

// BannerRenderer derives the title block for a place.
type BannerRenderer interface {
	Render(ctx context.Context, place models.Place) models.Banner
}

// CompletionFactory builds a completion client for a caller-supplied credential.
type CompletionFactory func(apiKey string) (service.CompletionClient, error)

// SessionHandler serves the interactive surface of a chat session
type SessionHandler struct {
	store       SessionStore
	banner      BannerRenderer
	completions CompletionFactory
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store SessionStore, banner BannerRenderer, completions CompletionFactory) *SessionHandler {
	return &SessionHandler{store: store, banner: banner, completions: completions}
}

type sessionResponse struct {
	ID    string       `json:"id"`
	Place models.Place `json:"place"`
}

type locationRequest struct {
	Name string `json:"name"`
}

type messageRequest struct {
	Content string `json:"content"`
}

// Register mounts the session routes on r.
func (h *SessionHandler) Register(r gin.IRouter) {
	r.POST("/sessions", h.Create)

	s := r.Group("/sessions/:id")
	s.GET("/banner", h.Banner)
	s.POST("/location/refresh", h.RefreshLocation)
	s.PUT("/location", h.ApplyLocation)
	s.GET("/messages", h.Messages)
	s.POST("/messages", h.PostMessage)
}

// Create handles POST /sessions
//
//	@Summary	Start a session located from the caller's address
//	@Tags		session
//	@Produce	json
//	@Success	201	{object}	sessionResponse
//	@Router		/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	sess := h.store.Create(c.Request.Context())
	c.JSON(http.StatusCreated, sessionResponse{ID: sess.ID, Place: sess.Location.Current()})
}

// Banner handles GET /sessions/:id/banner
//
//	@Summary	Render the weather icon and title for the session's place
//	@Tags		session
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	models.Banner
//	@Failure	404	{object}	map[string]string
//	@Router		/sessions/{id}/banner [get]
func (h *SessionHandler) Banner(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.banner.Render(c.Request.Context(), sess.Location.Current()))
}

// RefreshLocation handles POST /sessions/:id/location/refresh
//
//	@Summary	Re-resolve the session's place from the caller's address
//	@Tags		location
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	models.Place
//	@Router		/sessions/{id}/location/refresh [post]
func (h *SessionHandler) RefreshLocation(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Location.Refresh(c.Request.Context()))
}

// ApplyLocation handles PUT /sessions/:id/location
//
//	@Summary	Override the session's place with a named location
//	@Tags		location
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"session id"
//	@Param		body	body		locationRequest	true	"place name"
//	@Success	200		{object}	models.Place
//	@Failure	400		{object}	map[string]string
//	@Failure	422		{object}	map[string]interface{}
//	@Router		/sessions/{id}/location [put]
func (h *SessionHandler) ApplyLocation(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	place, err := sess.Location.Apply(c.Request.Context(), req.Name)
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'name'"})
	case errors.Is(err, service.ErrPlaceNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"warning": fmt.Sprintf(placeNotFoundFmt, strings.TrimSpace(req.Name)),
			"place":   place,
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		c.JSON(http.StatusOK, place)
	}
}

// Messages handles GET /sessions/:id/messages
//
//	@Summary	Transcript in insertion order
//	@Tags		chat
//	@Produce	json
//	@Param		id	path	string	true	"session id"
//	@Success	200	{array}	models.ChatMessage
//	@Router		/sessions/{id}/messages [get]
func (h *SessionHandler) Messages(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Chat.Transcript())
}

// PostMessage handles POST /sessions/:id/messages. The reply is streamed as
// server-sent events: "user" echoes the input, "fragment" carries each piece
// of the reply, "done" the committed assistant message and "error" a failure
// after the stream started.
//
//	@Summary	Send the next chat turn and stream the reply
//	@Tags		chat
//	@Accept		json
//	@Produce	text/event-stream
//	@Param		id				path	string			true	"session id"
//	@Param		Authorization	header	string			true	"Bearer API key"
//	@Param		body			body	messageRequest	true	"user input"
//	@Success	200
//	@Failure	400	{object}	map[string]string
//	@Failure	401	{object}	map[string]string
//	@Failure	409	{object}	map[string]string
//	@Failure	502	{object}	map[string]string
//	@Router		/sessions/{id}/messages [post]
func (h *SessionHandler) PostMessage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	apiKey := bearerToken(c.GetHeader("Authorization"))
	if apiKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": credentialPrompt})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'content'"})
		return
	}

	client, err := h.completions(apiKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": credentialPrompt})
		return
	}

	started := false
	begin := func() {
		if started {
			return
		}
		started = true
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		c.SSEvent("user", models.ChatMessage{Role: models.RoleUser, Content: req.Content})
		c.Writer.Flush()
	}

	reply, err := sess.Chat.Submit(c.Request.Context(), client, req.Content, func(fragment string) {
		begin()
		c.SSEvent("fragment", fragment)
		c.Writer.Flush()
	})
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("chat turn failed")
		if !started {
			switch {
			case errors.Is(err, service.ErrTurnInProgress):
				c.JSON(http.StatusConflict, gin.H{"error": "assistant reply in progress"})
			case errors.Is(err, service.ErrEmptyInput):
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'content'"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "completion failed"})
			}
			return
		}
		c.SSEvent("error", gin.H{"error": "completion failed"})
		c.Writer.Flush()
		return
	}

	begin()
	c.SSEvent("done", reply)
	c.Writer.Flush()
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
