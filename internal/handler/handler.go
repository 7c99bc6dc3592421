// Package handler exposes the story and admin APIs over HTTP.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"cyoa-server/internal/prompt"
	"cyoa-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StoryService interface {
	StartStory(ctx context.Context, genre string) (*models.Screen, error)
	AdvanceStory(ctx context.Context, parentID, choice string) (*models.Screen, error)
	GetScreen(ctx context.Context, id string) (*models.Screen, error)
	Lineage(ctx context.Context, id string) ([]*models.Screen, error)
	Children(ctx context.Context, id string) ([]*models.Screen, error)
	ExportTranscriptPDF(ctx context.Context, id string, w io.Writer) error
}

type TemplateAdmin interface {
	List(ctx context.Context) ([]prompt.TemplateView, error)
	Create(ctx context.Context, tpl models.Template) (*prompt.TemplateView, error)
	Update(ctx context.Context, key string, patch models.Template) (*prompt.TemplateView, error)
	Delete(ctx context.Context, key string) error
}

type ParameterAdmin interface {
	Snapshot(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, values map[string]any) (map[string]string, error)
}

// Handler wires the services to gin routes.
type Handler struct {
	stories   StoryService
	templates TemplateAdmin
	params    ParameterAdmin
	env       string
	logger    *zap.Logger
}

func NewHandler(stories StoryService, templates TemplateAdmin, params ParameterAdmin, env string, logger *zap.Logger) *Handler {
	return &Handler{
		stories:   stories,
		templates: templates,
		params:    params,
		env:       env,
		logger:    logger.Named("Handler"),
	}
}

// RegisterRoutes mounts every route. storyMiddleware runs in front of the
// story endpoints (rate limiting), adminAuth in front of the admin group.
func (h *Handler) RegisterRoutes(router *gin.Engine, adminAuth gin.HandlerFunc, storyMiddleware ...gin.HandlerFunc) {
	router.GET("/health", h.health)

	api := router.Group("/api")
	api.GET("/health", h.health)

	stories := api.Group("", storyMiddleware...)
	{
		stories.POST("/start-story", h.startStory)
		stories.POST("/advance-story", h.advanceStory)
		stories.GET("/screen/:id", h.getScreen)
		stories.GET("/screen/:id/lineage", h.getLineage)
		stories.GET("/screen/:id/children", h.getChildren)
		stories.GET("/screen/:id/transcript.pdf", h.getTranscript)
	}

	admin := api.Group("/admin", adminAuth)
	{
		admin.GET("/parameters", h.getParameters)
		admin.PUT("/parameters", h.putParameters)
		admin.GET("/prompts", h.listPrompts)
		admin.POST("/prompts", h.createPrompt)
		admin.PUT("/prompts/:key", h.updatePrompt)
		admin.DELETE("/prompts/:key", h.deletePrompt)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{OK: true, Env: h.env})
}

func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, models.ErrValidation):
		statusCode = http.StatusBadRequest
		message = validationMessage(err)
	case errors.Is(err, models.ErrParentNotFound):
		statusCode = http.StatusNotFound
		message = "Parent screen not found"
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Not found"
	case errors.Is(err, models.ErrTemplateExists):
		statusCode = http.StatusConflict
		message = "Template already exists"
	default:
		logger.Error("Unhandled internal error", zap.String("path", c.FullPath()), zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Error: message})
}

// validationMessage drops the generic "validation failed: " prefix.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
}
