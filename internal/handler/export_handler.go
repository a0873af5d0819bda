package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acadrec-api/internal/service"
	"github.com/noah-isme/acadrec-api/pkg/response"
)

// ExportHandler exposes transcript downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Transcript godoc
// @Summary Download a student's result transcript
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/{id}/transcript [get]
func (h *ExportHandler) Transcript(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	file, err := h.exports.Transcript(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(200, file.ContentType, file.Content)
}
