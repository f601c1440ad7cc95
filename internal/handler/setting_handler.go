package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/response"
	"github.com/studentflow/studentflow-backend/internal/service"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

type SettingHandler struct {
	settingService *service.SettingService
	log            zerolog.Logger
}

func NewSettingHandler(settingService *service.SettingService, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		log:            log.With().Str("component", "setting_handler").Logger(),
	}
}

// GetTheme godoc
// GET /api/v1/settings/theme
func (h *SettingHandler) GetTheme(c *gin.Context) {
	theme, err := h.settingService.Theme(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theme": theme})
}

// UpdateTheme godoc
// PUT /api/v1/settings/theme
func (h *SettingHandler) UpdateTheme(c *gin.Context) {
	var req model.UpdateThemeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settingService.SetTheme(c.Request.Context(), req.Theme); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theme": req.Theme})
}
