package controllers

import (
	"net/http"

	"pupcare/services"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Health *services.HealthService
}

func NewHealthController(health *services.HealthService) *HealthController {
	return &HealthController{Health: health}
}

// GET /puppies/:id/health?category=
func (hc *HealthController) List(c *gin.Context) {
	out, err := hc.Health.List(c.Request.Context(), puppyIDFromCtx(c), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (hc *HealthController) Create(c *gin.Context) {
	var in services.HealthRecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := hc.Health.Create(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (hc *HealthController) Update(c *gin.Context) {
	rid, ok := uintParam(c, "rid")
	if !ok {
		return
	}
	var in services.HealthRecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := hc.Health.Update(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), rid, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (hc *HealthController) Delete(c *gin.Context) {
	rid, ok := uintParam(c, "rid")
	if !ok {
		return
	}
	if err := hc.Health.Delete(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), rid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "health record deleted"})
}
