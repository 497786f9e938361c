// controllers/analytics_controller.go
package controllers

import (
	"net/http"

	"pupcare/services"
	"pupcare/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
}

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GET /puppies/:id/stats/day/:date
func (h *AnalyticsController) GetDay(c *gin.Context) {
	out, err := h.Svc.Day(c.Request.Context(), puppyIDFromCtx(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /puppies/:id/stats/summary?range=7d|30d|ytd|all
func (h *AnalyticsController) GetSummary(c *gin.Context) {
	key, ok := rangeQuery(c)
	if !ok {
		return
	}
	out, err := h.Svc.Summary(c.Request.Context(), puppyIDFromCtx(c), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /puppies/:id/stats/week?week_start=YYYY-MM-DD
func (h *AnalyticsController) GetWeeklyOverview(c *gin.Context) {
	weekStart := h.Svc.Today()
	if v := c.Query("week_start"); v != "" {
		ws, ok := utils.ParseDate(v, weekStart.Location())
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start"})
			return
		}
		weekStart = ws
	}
	out, err := h.Svc.Week(c.Request.Context(), puppyIDFromCtx(c), weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /puppies/:id/stats/schedule?range=&kind=potty|nap|sleep
func (h *AnalyticsController) GetSchedule(c *gin.Context) {
	key, ok := rangeQuery(c)
	if !ok {
		return
	}
	kind, ok := services.ParseChartKind(c.DefaultQuery("kind", string(services.ChartPotty)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be potty, nap or sleep"})
		return
	}
	out, err := h.Svc.Schedule(c.Request.Context(), puppyIDFromCtx(c), key, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- helpers ---

func rangeQuery(c *gin.Context) (services.RangeKey, bool) {
	key, ok := services.ParseRange(c.Query("range"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be 7d, 30d, ytd or all"})
		return "", false
	}
	return key, true
}
