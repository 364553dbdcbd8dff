package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comment-sync-api/internal/dto"
	"comment-sync-api/internal/service"
)

// WebhookHandler receives Graph API webhook deliveries. The platform
// disables subscriptions that respond with errors, so the receive
// endpoint acknowledges with 200 no matter what the payload contains.
type WebhookHandler struct {
	normalizer  service.EventNormalizer
	reconciler  service.ReconcilerService
	verifyToken string
	logger      *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(normalizer service.EventNormalizer, reconciler service.ReconcilerService, verifyToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		normalizer:  normalizer,
		reconciler:  reconciler,
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// Verify godoc
// @Summary      Webhook subscription verification
// @Description  Echoes the hub.challenge when the verify token matches
// @Tags         webhook
// @Produce      plain
// @Param        hub.mode query string true "Subscription mode"
// @Param        hub.verify_token query string true "Verify token"
// @Param        hub.challenge query string true "Challenge to echo"
// @Success      200 {string} string "challenge"
// @Failure      403 {string} string "Forbidden"
// @Router       /webhook [get]
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("Webhook subscription verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.logger.Warn("Webhook verification rejected", zap.String("mode", mode))
	c.String(http.StatusForbidden, "Forbidden")
}

// Receive godoc
// @Summary      Webhook event delivery
// @Description  Accepts a batch of comment lifecycle changes and reconciles them
// @Tags         webhook
// @Accept       json
// @Produce      plain
// @Success      200 {string} string "EVENT_RECEIVED"
// @Router       /webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload dto.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("Undecodable webhook payload acknowledged", zap.Error(err))
		c.String(http.StatusOK, "EVENT_RECEIVED")
		return
	}

	events := h.normalizer.Normalize(&payload)
	for _, event := range events {
		result, err := h.reconciler.Reconcile(c.Request.Context(), event)
		if err != nil {
			h.logger.Error("Failed to reconcile webhook event",
				zap.String("platform", string(event.Platform)),
				zap.String("action", string(event.Action)),
				zap.String("raw_comment_id", event.RawCommentID),
				zap.Error(err),
			)
			continue
		}
		h.logger.Debug("Webhook event reconciled",
			zap.String("action", string(event.Action)),
			zap.String("outcome", string(result.Outcome)),
		)
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
