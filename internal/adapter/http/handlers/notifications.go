package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todotracker/internal/adapter/http/mapper"
	"todotracker/internal/adapter/http/middleware"
	"todotracker/internal/core/ports"
	"todotracker/pkg/apierrors"
)

type NotificationHandler struct {
	feed ports.NotificationFeed
}

func NewNotificationHandler(feed ports.NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.feed.ListNotifications(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err, apierrors.MsgFailNotifications)
		return
	}

	c.JSON(http.StatusOK, mapper.ToNotificationItems(notifications))
}
