package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fawad57/psyplex/internal/chatbot"
)

// ChatHandler exposes the companion chatbot.
type ChatHandler struct {
	Bot *chatbot.Chatbot
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/message", h.message)
}

func (h *ChatHandler) message(c echo.Context) error {
	chatMessages.Inc()

	var req chatbot.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if req.UserToken == "" {
		if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			req.UserToken = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	resp, err := h.Bot.Message(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
