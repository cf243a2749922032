package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kinfolkhq/kinfolk-backend/internal/content"
	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/http/middleware"
	"github.com/kinfolkhq/kinfolk-backend/internal/http/response"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/apierr"
)

type ContentHandler struct {
	questions *content.Engine
	todos     *content.Engine
}

func NewContentHandler(questions, todos *content.Engine) *ContentHandler {
	return &ContentHandler{questions: questions, todos: todos}
}

type nextRequest struct {
	Category string `json:"category"`
	ForceNew bool   `json:"forceNew"`
}

type personalizedRequest struct {
	Context string `json:"context" binding:"required"`
}

// POST /api/content/questions/next
func (h *ContentHandler) NextQuestion(c *gin.Context) {
	h.next(c, h.questions, types.ClassQuestion)
}

// POST /api/content/todos/next
func (h *ContentHandler) NextTodo(c *gin.Context) {
	h.next(c, h.todos, types.ClassTodo)
}

func (h *ContentHandler) next(c *gin.Context, engine *content.Engine, class types.ContentClass) {
	var req nextRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	var category types.ContentCategory
	if req.Category != "" {
		parsed, ok := types.ParseContentCategory(class, req.Category)
		if !ok {
			response.RespondError(c, http.StatusBadRequest, "invalid_category", errors.New("unknown category: "+req.Category))
			return
		}
		category = parsed
	}

	rec, err := engine.Acquire(c.Request.Context(), middleware.ConsumerID(c), category, req.ForceNew)
	if err != nil {
		respondAcquireError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content": rec})
}

// POST /api/content/questions/personalized
func (h *ContentHandler) PersonalizedQuestion(c *gin.Context) {
	var req personalizedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	rec, err := h.questions.AcquirePersonalized(c.Request.Context(), middleware.ConsumerID(c), req.Context)
	if err != nil {
		respondAcquireError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content": rec})
}

// POST /api/content/records/:id/reuse
func (h *ContentHandler) ReuseRecord(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_record_id", err)
		return
	}
	if err := h.questions.RecordReuse(c.Request.Context(), recordID); err != nil {
		response.RespondError(c, http.StatusBadRequest, "record_reuse_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"recordId": recordID})
}

// GET /api/content/pools
func (h *ContentHandler) PoolStatus(c *gin.Context) {
	ctx := c.Request.Context()
	response.RespondOK(c, gin.H{
		"pools": gin.H{
			string(types.ClassQuestion): h.questions.PoolStatus(ctx),
			string(types.ClassTodo):     h.todos.PoolStatus(ctx),
		},
	})
}

func respondAcquireError(c *gin.Context, err error) {
	ae := acquireAPIError(err)
	response.RespondError(c, ae.Status, ae.Code, ae)
}

func acquireAPIError(err error) *apierr.Error {
	if errors.Is(err, content.ErrRateLimitExceeded) {
		return apierr.New(http.StatusTooManyRequests, "rate_limit_exceeded", err)
	}
	return apierr.New(http.StatusInternalServerError, "acquire_failed", err)
}
