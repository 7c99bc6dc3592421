package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"cyoa-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type startStoryRequest struct {
	Genre string `json:"genre"`
}

// Choice may be a plain string or an object carrying a text field.
type advanceStoryRequest struct {
	ParentScreenID string          `json:"parentScreenID"`
	Choice         json.RawMessage `json:"choice"`
}

// bindOptionalJSON treats an absent or empty body as an empty object so the
// service reports which fields are missing.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) startStory(c *gin.Context) {
	var req startStoryRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	screen, err := h.stories.StartStory(c.Request.Context(), req.Genre)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

func (h *Handler) advanceStory(c *gin.Context) {
	var req advanceStoryRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	screen, err := h.stories.AdvanceStory(c.Request.Context(), req.ParentScreenID, choiceText(req.Choice))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

func choiceText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && strings.TrimSpace(obj.Text) != "" {
		return obj.Text
	}
	return string(raw)
}

func (h *Handler) getScreen(c *gin.Context) {
	screen, err := h.stories.GetScreen(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

func (h *Handler) getLineage(c *gin.Context) {
	path, err := h.stories.Lineage(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

func (h *Handler) getChildren(c *gin.Context) {
	children, err := h.stories.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if children == nil {
		children = []*models.Screen{}
	}
	c.JSON(http.StatusOK, children)
}

func (h *Handler) getTranscript(c *gin.Context) {
	id := c.Param("id")
	var buf bytes.Buffer
	if err := h.stories.ExportTranscriptPDF(c.Request.Context(), id, &buf); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	h.logger.Debug("Transcript exported", zap.String("screenID", id), zap.Int("sizeBytes", buf.Len()))
	c.Header("Content-Disposition", `attachment; filename="transcript-`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
