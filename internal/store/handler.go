package store

import (
	"net/http"

	"versioned-translator/auth"
	"versioned-translator/internal/domain"
	"versioned-translator/internal/errors"
	"versioned-translator/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func keyFromParams(c *gin.Context) domain.StoreKey {
	return domain.StoreKey{
		ParentDoctype: c.Param("doctype"),
		ParentName:    c.Param("docname"),
		VersionID:     c.Param("version"),
		Language:      c.Param("language"),
	}
}

// ShowTranslation returns the stored translation of one document version.
func (h *Handler) ShowTranslation(c *gin.Context) {
	key := keyFromParams(c)

	content, err := h.service.GetTranslation(c.Request.Context(), key)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version_id":         key.VersionID,
		"language":           NormalizeKey(key).Language,
		"translated_content": content,
	})
}

// ShowTranslationInUserLanguage serves the version in the caller's token
// language, overridable with ?language=.
func (h *Handler) ShowTranslationInUserLanguage(c *gin.Context) {
	key := keyFromParams(c)
	key.Language = c.DefaultQuery("language", c.GetString(auth.LanguageKey))
	if key.Language == "" {
		c.Error(errors.BadRequest("No language given and none in token", nil))
		return
	}

	content, err := h.service.GetTranslation(c.Request.Context(), key)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version_id":         key.VersionID,
		"language":           NormalizeKey(key).Language,
		"translated_content": content,
	})
}

// ShowHistory lists every stored version and language of a document.
func (h *Handler) ShowHistory(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)

	result, err := h.service.GetHistory(c.Request.Context(), c.Param("doctype"), c.Param("docname"), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type EditRequest struct {
	TranslatedContent map[string]string `json:"translated_content" binding:"required"`
}

// EditTranslation stores a manual correction and switches the row to edit mode.
func (h *Handler) EditTranslation(c *gin.Context) {
	var form EditRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	resp, err := h.service.EditTranslation(c.Request.Context(), keyFromParams(c), form.TranslatedContent)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/translations/:doctype/:docname", h.ShowHistory)
	group.GET("/translations/:doctype/:docname/:version", h.ShowTranslationInUserLanguage)
	group.GET("/translations/:doctype/:docname/:version/:language", h.ShowTranslation)
	group.PUT("/translations/:doctype/:docname/:version/:language", h.EditTranslation)
}
