package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/converse-backend/internal/capture"
	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/http/response"
	"github.com/yungbote/converse-backend/internal/services"
)

// EventsHandler receives normalized inbound messages from the transport
// adapters and routes them through the capture controller.
type EventsHandler struct {
	sessions   services.SessionService
	controller *capture.Controller
}

func NewEventsHandler(sessions services.SessionService, controller *capture.Controller) *EventsHandler {
	return &EventsHandler{sessions: sessions, controller: controller}
}

func (h *EventsHandler) HandleEvent(c *gin.Context) {
	var event domain.InboundEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	event.Channel = strings.TrimSpace(event.Channel)
	event.ChannelUserID = strings.TrimSpace(event.ChannelUserID)
	if event.Channel == "" || event.ChannelUserID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request",
			fmt.Errorf("channel and channel_user_id are required"))
		return
	}

	ctx := c.Request.Context()
	sess, err := h.sessions.GetOrCreate(ctx, event.Channel, event.ChannelUserID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}

	handled, err := h.controller.HandleInbound(ctx, sess.ID, event)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"session_id": sess.ID,
		"handled":    handled,
	})
}
