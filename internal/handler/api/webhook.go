package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/usecase"
	"ChipFlash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// handleTimeout bounds the detached processing of one webhook event. The
// webhook response itself returns immediately; the platform retries
// deliveries that take too long, which would double-process the phrase.
const handleTimeout = 60 * time.Second

// WebhookHandler receives messaging platform callbacks and routes secret
// phrase messages to the trigger flow.
type WebhookHandler struct {
	trigger       *usecase.Trigger
	channelSecret string
	log           *logger.Logger
}

func NewWebhookHandler(trigger *usecase.Trigger, channelSecret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		trigger:       trigger,
		channelSecret: channelSecret,
		log:           log,
	}
}

// RegisterRoutes registers the webhook and liveness routes.
func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/callback", h.Callback)
	e.GET("/healthz", h.Healthz)
	e.GET("/", h.Root)
}

// Callback verifies the delivery signature and hands matching events to the
// trigger flow. Processing is detached so the platform gets its 200 before
// any fetching starts.
func (h *WebhookHandler) Callback(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	signature := c.Request().Header.Get("X-Line-Signature")
	if !h.validSignature(body, signature) {
		h.log.Warn("webhook signature rejected")
		return c.NoContent(http.StatusBadRequest)
	}

	var req models.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.log.Warn("webhook payload malformed", logger.Error(err))
		return c.NoContent(http.StatusBadRequest)
	}

	for _, event := range req.Events {
		if !isTextMessage(event) {
			continue
		}
		go h.handleEvent(event)
	}

	return c.String(http.StatusOK, "OK")
}

func isTextMessage(event models.WebhookEvent) bool {
	return event.Type == "message" && event.Message.Type == "text"
}

func (h *WebhookHandler) handleEvent(event models.WebhookEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	err := h.trigger.HandleText(ctx, event.Source.UserID, event.IsPrivateText(), event.Message.Text)
	if err != nil {
		h.log.Error("webhook event handling failed", logger.Error(err))
	}
}

func (h *WebhookHandler) validSignature(body []byte, signature string) bool {
	if h.channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Healthz reports process liveness.
func (h *WebhookHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Root serves a minimal status page so uptime probes of the base URL work.
func (h *WebhookHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "chipflash is running")
}
