package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jediamps/ZapSync/internal/classifier"
	"github.com/jediamps/ZapSync/internal/moderation"
	"github.com/jediamps/ZapSync/internal/query"
)

func (s *Server) health(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handlePredict moderates raw text posted as JSON.
func (s *Server) handlePredict(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	verdict, err := s.engine.Moderate(c.Request.Context(), "content.txt", []byte(req.Text))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// handleAnalyze moderates an uploaded file from a multipart form.
func (s *Server) handleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > s.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	verdict, err := s.engine.Moderate(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// handleProcessQuery runs query understanding over a search string.
func (s *Server) handleProcessQuery(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	verdict, err := s.engine.UnderstandQuery(c.Request.Context(), req.Text)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed_query": req.Text,
		"intent":          verdict.Category,
		"confidence":      verdict.Confidence,
		"entities":        verdict.Entities,
		"filters":         verdict.Filters,
	})
}

// writeEngineError maps the engine's typed outcomes onto status codes with
// user-facing messages. Unknown errors are logged but never echoed.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, moderation.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty content"})
	case errors.Is(err, moderation.ErrNoValidWords):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid words found"})
	case errors.Is(err, query.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text parameter is required"})
	case errors.Is(err, classifier.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classification service unavailable"})
	default:
		slog.Error("Request failed", "requestID", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
