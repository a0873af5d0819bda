package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acadrec-api/internal/service"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
	"github.com/noah-isme/acadrec-api/pkg/response"
)

// SubjectConfigHandler exposes subject assessment configuration endpoints.
type SubjectConfigHandler struct {
	configs *service.SubjectConfigService
}

// NewSubjectConfigHandler constructs handler.
func NewSubjectConfigHandler(configs *service.SubjectConfigService) *SubjectConfigHandler {
	return &SubjectConfigHandler{configs: configs}
}

// List godoc
// @Summary List subject assessment configurations
// @Tags Subject Configs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subject-configs [get]
func (h *SubjectConfigHandler) List(c *gin.Context) {
	configs, err := h.configs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, configs, nil)
}

// Get godoc
// @Summary Get the configuration for a subject
// @Tags Subject Configs
// @Produce json
// @Param subject path string true "Subject name"
// @Success 200 {object} response.Envelope
// @Router /subject-configs/{subject} [get]
func (h *SubjectConfigHandler) Get(c *gin.Context) {
	config, err := h.configs.Get(c.Request.Context(), c.Param("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, config, nil)
}

// Upsert godoc
// @Summary Create or replace the configuration for a subject
// @Tags Subject Configs
// @Accept json
// @Produce json
// @Param subject path string true "Subject name"
// @Param payload body service.UpsertSubjectConfigRequest true "Configuration payload"
// @Success 200 {object} response.Envelope
// @Router /subject-configs/{subject} [put]
func (h *SubjectConfigHandler) Upsert(c *gin.Context) {
	var req service.UpsertSubjectConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	config, err := h.configs.Upsert(c.Request.Context(), c.Param("subject"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, config, nil)
}
