package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/processing"
)

const WarningHeader = "X-Comment-Warning"

type SentimentAnalyzer interface {
	Analyze(ctx context.Context, link, mode string) (models.AnalysisResult, error)
}

type SentimentHandler struct {
	analyzer SentimentAnalyzer
	// serializes analyses
	mu sync.Mutex
}

func NewSentimentHandler(analyzer SentimentAnalyzer) *SentimentHandler {
	return &SentimentHandler{analyzer: analyzer}
}

func (h *SentimentHandler) YouTubeSentiment(c *gin.Context) {
	var req models.SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.analyze(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("[API] Analysis failed",
				slog.String("url", req.URL),
				slog.String("error", err.Error()))
		}
		c.JSON(status, models.ErrorResponse{Error: err.Error()})
		return
	}

	if result.Partial {
		c.Header(WarningHeader, strings.Join(strings.Fields(result.Warning), " "))
	}
	c.JSON(http.StatusOK, result.Payload())
}

func (h *SentimentHandler) analyze(ctx context.Context, req models.SentimentRequest) (models.AnalysisResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.analyzer.Analyze(ctx, req.URL, req.Mode)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, processing.ErrInvalidVideoLink), errors.Is(err, models.ErrUnknownMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "commentflow"})
}
