package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/internal/domain/recommendation"
	"github.com/yanqian/brew-advisor/internal/domain/weather"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	recommendSvc recommendation.Service
	feedbackSvc  feedback.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(recommendSvc recommendation.Service, feedbackSvc feedback.Service, logger *slog.Logger) *Handler {
	return &Handler{
		recommendSvc: recommendSvc,
		feedbackSvc:  feedbackSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Recommend handles the manual recommendation endpoint.
func (h *Handler) Recommend(c *gin.Context) {
	var req recommendation.ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.recommendSvc.Recommend(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "recommendation_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RecommendByLocation resolves current weather for the coordinates before recommending.
func (h *Handler) RecommendByLocation(c *gin.Context) {
	var req recommendation.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.recommendSvc.RecommendByLocation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "recommendation_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitFeedback records a verdict on a recommendation.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedback.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.feedbackSvc.Submit(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "feedback_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FeedbackStats returns aggregate statistics and mined dislike patterns.
func (h *Handler) FeedbackStats(c *gin.Context) {
	report, err := h.feedbackSvc.Report(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "feedback_failed"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportFeedback uploads an analytics snapshot to object storage.
func (h *Handler) ExportFeedback(c *gin.Context) {
	resp, err := h.feedbackSvc.Export(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "export_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Moods lists the accepted mood values.
func (h *Handler) Moods(c *gin.Context) {
	c.JSON(http.StatusOK, recommendation.Options{Moods: weather.Moods()})
}

// WeatherTypes lists the accepted weather categories.
func (h *Handler) WeatherTypes(c *gin.Context) {
	c.JSON(http.StatusOK, recommendation.Options{WeatherTypes: weather.Categories()})
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
