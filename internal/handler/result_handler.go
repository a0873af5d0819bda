package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acadrec-api/internal/models"
	"github.com/noah-isme/acadrec-api/internal/service"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
	"github.com/noah-isme/acadrec-api/pkg/response"
)

// ResultHandler exposes result ingestion and query endpoints.
type ResultHandler struct {
	results  *service.ResultService
	internal *service.InternalMarksService
}

// NewResultHandler constructs handler.
func NewResultHandler(results *service.ResultService, internal *service.InternalMarksService) *ResultHandler {
	return &ResultHandler{results: results, internal: internal}
}

// IngestBatch godoc
// @Summary Ingest a batch of raw score rows
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.IngestBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /results/bulk [post]
func (h *ResultHandler) IngestBatch(c *gin.Context) {
	var req service.IngestBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.results.IngestBatch(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"created": records})
}

// List godoc
// @Summary List canonical result records
// @Tags Results
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param course query string false "Filter by course name"
// @Param category query string false "Filter by exam category"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := models.ResultFilter{
		StudentID:  c.Query("studentId"),
		CourseName: c.Query("course"),
		Category:   models.ExamCategory(c.Query("category")),
		Page:       page,
		PageSize:   size,
	}
	records, pagination, err := h.results.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// PreviewGrade godoc
// @Summary Derive percentage and letter grade for a marks/total pair
// @Tags Results
// @Produce json
// @Param marks query number true "Obtained marks"
// @Param total query number true "Total marks"
// @Success 200 {object} response.Envelope
// @Router /results/grade-preview [get]
func (h *ResultHandler) PreviewGrade(c *gin.Context) {
	marks, err := strconv.ParseFloat(c.Query("marks"), 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "marks must be a number"))
		return
	}
	total, err := strconv.ParseFloat(c.Query("total"), 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "total must be a number"))
		return
	}
	preview, err := h.results.PreviewGrade(marks, total)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// InternalScore godoc
// @Summary Compute the aggregated internal score for a student and subject
// @Tags Results
// @Produce json
// @Param id path string true "Student id"
// @Param subject query string true "Subject name"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/internal-score [get]
func (h *ResultHandler) InternalScore(c *gin.Context) {
	score, err := h.internal.ComputeInternalScore(c.Request.Context(), c.Param("id"), c.Query("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, score, nil)
}
