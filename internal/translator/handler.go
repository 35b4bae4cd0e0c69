package translator

import (
	"net/http"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/errors"
	"versioned-translator/internal/queue"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hooks      *Hooks
	discovery  *FieldDiscovery
	queue      queue.Enqueuer
	jobTimeout time.Duration
}

func NewHandler(hooks *Hooks, discovery *FieldDiscovery, q queue.Enqueuer, jobTimeout time.Duration) *Handler {
	return &Handler{
		hooks:      hooks,
		discovery:  discovery,
		queue:      q,
		jobTimeout: jobTimeout,
	}
}

type HookRequest struct {
	Doc      domain.Document `json:"doc"`
	Language string          `json:"lang"`
}

// OnLoad answers with the document, marked with its original language
// when applicable.
func (h *Handler) OnLoad(c *gin.Context) {
	var form HookRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.BadRequest("Invalid hook payload", err))
		return
	}

	changed := h.hooks.OnLoad(c.Request.Context(), &form.Doc, form.Language)
	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"doc":     form.Doc,
	})
}

func (h *Handler) OnUpdate(c *gin.Context) {
	var form HookRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.BadRequest("Invalid hook payload", err))
		return
	}

	enqueued := h.hooks.OnUpdate(c.Request.Context(), &form.Doc)
	c.JSON(http.StatusOK, gin.H{"enqueued": enqueued})
}

type JobRequest struct {
	Doctype string `json:"doctype" binding:"required,max=140"`
	Docname string `json:"docname" binding:"required,max=140"`
}

// EnqueueJob schedules a translation regardless of the update gates.
func (h *Handler) EnqueueJob(c *gin.Context) {
	var form JobRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	job := domain.TranslationJob{Doctype: form.Doctype, Docname: form.Docname}
	if err := h.queue.Enqueue(c.Request.Context(), job, h.jobTimeout); err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "job": job})
}

func (h *Handler) ListFields(c *gin.Context) {
	fields, err := h.discovery.ListTranslatableFields(c.Request.Context(), c.Query("doctype_name"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, fields)
}

func (h *Handler) RegisterInternalRoutes(group *gin.RouterGroup) {
	group.POST("/hooks/on_load", h.OnLoad)
	group.POST("/hooks/on_update", h.OnUpdate)
	group.POST("/jobs/translate", h.EnqueueJob)
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/fields", h.ListFields)
}
