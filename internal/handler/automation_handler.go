package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/dto"
	"comment-sync-api/internal/response"
	"comment-sync-api/internal/service"
)

type AutomationHandler struct {
	automationService service.AutomationConfigService
}

func NewAutomationHandler(automationService service.AutomationConfigService) *AutomationHandler {
	return &AutomationHandler{
		automationService: automationService,
	}
}

// GetConfig godoc
// @Summary      Get automation settings
// @Description  Returns the auto-reply configuration for a platform
// @Tags         automation
// @Produce      json
// @Param        platform path string true "Platform" Enums(facebook, instagram)
// @Success      200 {object} response.SuccessResponse{data=domain.AutomationConfig}
// @Failure      400 {object} response.ErrorResponse
// @Router       /automation/{platform} [get]
func (h *AutomationHandler) GetConfig(c *gin.Context) {
	platform, ok := parsePlatform(c)
	if !ok {
		return
	}

	cfg, err := h.automationService.Get(c.Request.Context(), platform)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, cfg)
}

// UpdateConfig godoc
// @Summary      Update automation settings
// @Description  Saves the auto-reply configuration for a platform
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        platform path string true "Platform" Enums(facebook, instagram)
// @Param        request body dto.UpdateAutomationConfigRequest true "Automation settings"
// @Success      200 {object} response.SuccessResponse{data=domain.AutomationConfig}
// @Failure      400 {object} response.ErrorResponse
// @Router       /automation/{platform} [put]
func (h *AutomationHandler) UpdateConfig(c *gin.Context) {
	platform, ok := parsePlatform(c)
	if !ok {
		return
	}

	var req dto.UpdateAutomationConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	cfg := &domain.AutomationConfig{
		Platform:             platform,
		Enabled:              req.Enabled,
		AutoReply:            req.AutoReply,
		ResponseDelaySeconds: req.ResponseDelaySeconds,
		Model:                req.Model,
		PersonalityPrompt:    req.PersonalityPrompt,
	}
	if cfg.ResponseDelaySeconds == 0 {
		cfg.ResponseDelaySeconds = 30
	}

	saved, err := h.automationService.Update(c.Request.Context(), cfg)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, saved)
}

func parsePlatform(c *gin.Context) (domain.Platform, bool) {
	platform := domain.Platform(c.Param("platform"))
	if platform != domain.PlatformFacebook && platform != domain.PlatformInstagram {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "platform must be one of: facebook, instagram")
		return "", false
	}
	return platform, true
}
