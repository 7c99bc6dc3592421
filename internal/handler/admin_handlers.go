package handler

import (
	"encoding/json"
	"net/http"

	"cyoa-server/shared/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getParameters(c *gin.Context) {
	values, err := h.params.Snapshot(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *Handler) putParameters(c *gin.Context) {
	var values map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body must be a JSON object"})
		return
	}

	updated, err := h.params.Set(c.Request.Context(), values)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) listPrompts(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *Handler) createPrompt(c *gin.Context) {
	var tpl models.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.templates.Create(c.Request.Context(), tpl)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updatePrompt(c *gin.Context) {
	var patch models.Template
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.templates.Update(c.Request.Context(), c.Param("key"), patch)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deletePrompt(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("key")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
