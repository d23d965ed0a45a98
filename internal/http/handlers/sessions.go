package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/converse-backend/internal/capture"
	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/http/response"
	"github.com/yungbote/converse-backend/internal/services"
)

// SessionsHandler is the script runtime's surface: begin a capture, cancel
// it, finish a LOGIN out of band, inspect a session.
type SessionsHandler struct {
	sessions   services.SessionService
	controller *capture.Controller
	auth       services.AuthCallbackService
}

func NewSessionsHandler(sessions services.SessionService, controller *capture.Controller, auth services.AuthCallbackService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, controller: controller, auth: auth}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionsHandler) BeginCapture(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Variable string                `json:"variable"`
		TypeTag  string                `json:"type_tag"`
		Prompt   string                `json:"prompt"`
		Params   domain.CaptureParams  `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ctx := c.Request.Context()
	sess, err := h.sessions.GetByID(ctx, id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if sess == nil {
		response.RespondError(c, http.StatusNotFound, "session_not_found",
			fmt.Errorf("session %s not found", id))
		return
	}

	pc, err := h.controller.Begin(ctx, id, req.Variable, req.TypeTag, req.Prompt, req.Params)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"continuation_id": pc.ContinuationID,
		"variable":        pc.Variable,
		"type_tag":        pc.TypeTag,
		"max_retries":     pc.MaxRetries,
		"state":           pc.State,
	})
}

func (h *SessionsHandler) CancelCapture(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Reset bool `json:"reset"`
	}
	// Empty body means plain cancel.
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	if req.Reset {
		if err := h.sessions.Reset(ctx, id); err != nil {
			response.RespondAppError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"reset": true})
		return
	}

	existed, err := h.controller.Cancel(ctx, id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cancelled": existed})
}

// LoginCallback closes a pending LOGIN capture with the identity the
// provider vouches for.
func (h *SessionsHandler) LoginCallback(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	user, err := h.auth.VerifyCallback(req.Token)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_callback", err)
		return
	}

	md := map[string]any{"name": user.Name, "email": user.Email}
	for k, v := range user.Claims {
		md[k] = v
	}
	if err := h.controller.Complete(c.Request.Context(), id, user.Subject, md); err != nil {
		response.RespondError(c, http.StatusConflict, "no_pending_capture", err)
		return
	}
	response.RespondOK(c, gin.H{"subject": user.Subject})
}

func (h *SessionsHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if sess == nil {
		response.RespondError(c, http.StatusNotFound, "session_not_found",
			fmt.Errorf("session %s not found", id))
		return
	}

	vars := map[string]any{}
	if len(sess.Variables) > 0 {
		_ = json.Unmarshal(sess.Variables, &vars)
	}
	response.RespondOK(c, gin.H{
		"id":              sess.ID,
		"channel":         sess.Channel,
		"channel_user_id": sess.ChannelUserID,
		"locale":          sess.Locale,
		"variables":       vars,
		"created_at":      sess.CreatedAt,
		"updated_at":      sess.UpdatedAt,
	})
}
