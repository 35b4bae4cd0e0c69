package translationmap

import (
	"net/http"
	"strconv"

	"versioned-translator/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid Translation Map id", err))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) List(c *gin.Context) {
	maps, err := h.service.ListMaps(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": maps})
}

func (h *Handler) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.service.GetMap(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Create(c *gin.Context) {
	var form MapRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	m, err := h.service.CreateMap(c.Request.Context(), form)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form MapRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	m, err := h.service.UpdateMap(c.Request.Context(), id, form)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteMap(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AutoMap runs the smart field picker for the map's doctype.
func (h *Handler) AutoMap(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.service.AutoMapFields(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	maps := group.Group("/translation-maps")
	maps.GET("", h.List)
	maps.POST("", h.Create)
	maps.GET("/:id", h.Show)
	maps.PUT("/:id", h.Update)
	maps.DELETE("/:id", h.Delete)
	maps.POST("/:id/auto-map", h.AutoMap)
}
