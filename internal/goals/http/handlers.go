package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lifetribe/goals-backend/internal/auth"
	"github.com/lifetribe/goals-backend/internal/goals/demo"
	"github.com/lifetribe/goals-backend/internal/goals/domain"
	"github.com/lifetribe/goals-backend/internal/goals/service"
)

// Handler exposes the goal engine over HTTP.
type Handler struct {
	svc *service.GoalService
}

// NewHandler creates a new goals handler.
func NewHandler(svc *service.GoalService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) list(c *gin.Context) {
	owner, ok := callerOwner(c)
	if !ok {
		// unauthenticated callers get the demo tree, no storage touched
		c.JSON(http.StatusOK, gin.H{"ok": true, "goals": demo.Trees(), "demo": true})
		return
	}

	trees, err := h.svc.ListTrees(c.Request.Context(), owner.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "goals": trees})
}

func (h *Handler) merge(c *gin.Context) {
	var tree domain.VisionTree
	if err := c.ShouldBindJSON(&tree); err != nil || strings.TrimSpace(tree.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner, ok := callerOwner(c)
	if !ok {
		// simulated echo: normalized through the same engine code,
		// never persisted
		echo, err := service.Simulate(&tree)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "goal": echo, "simulated": true})
		return
	}

	merged, err := h.svc.MergeVision(c.Request.Context(), owner, &tree)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "goal": merged})
}

func (h *Handler) delete(c *gin.Context) {
	owner, ok := callerOwner(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	visionID := strings.TrimSpace(c.Query("id"))
	if visionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id is required"})
		return
	}

	if err := h.svc.DeleteVision(c.Request.Context(), owner, visionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type monthPatchReq struct {
	Month  string   `json:"month" binding:"required"`
	Year   int      `json:"year" binding:"required"`
	Target *float64 `json:"target"`
	Actual *float64 `json:"actual"`
	Note   *string  `json:"note"`
}

func (h *Handler) updateMonth(c *gin.Context) {
	owner, ok := callerOwner(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	var req monthPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	metricID := c.Param("metric_id")
	patch := domain.MonthPatch{Target: req.Target, Actual: req.Actual, Note: req.Note}
	if err := h.svc.UpdateMonth(c.Request.Context(), owner, metricID, req.Month, req.Year, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func callerOwner(c *gin.Context) (service.Owner, bool) {
	id := auth.UserDBID(c)
	if id == "" {
		return service.Owner{}, false
	}
	return service.Owner{ID: id, Tier: auth.UserTier(c)}, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "vision not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	case errors.Is(err, domain.ErrPlanLimit):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "plan_limit_exceeded"})
	case errors.Is(err, domain.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
