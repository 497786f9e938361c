package controllers

import (
	"net/http"

	"pupcare/services"

	"github.com/gin-gonic/gin"
)

type DayLogController struct {
	Days *services.DayLogService
}

func NewDayLogController(days *services.DayLogService) *DayLogController {
	return &DayLogController{Days: days}
}

// GET /puppies/:id/logs?from=&to=
func (dc *DayLogController) List(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}
	out, err := dc.Days.List(c.Request.Context(), puppyIDFromCtx(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /puppies/:id/logs/:date
func (dc *DayLogController) Get(c *gin.Context) {
	log, err := dc.Days.Get(c.Request.Context(), puppyIDFromCtx(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// PUT /puppies/:id/logs/:date
func (dc *DayLogController) UpdateDetails(c *gin.Context) {
	var in services.DayDetailsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log, err := dc.Days.UpdateDetails(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), c.Param("date"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// POST /puppies/:id/logs/:date/potty
func (dc *DayLogController) AddPotty(c *gin.Context) {
	var in services.PottyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := dc.Days.AddPotty(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), c.Param("date"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /puppies/:id/logs/:date/meals
func (dc *DayLogController) AddMeal(c *gin.Context) {
	var in services.MealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := dc.Days.AddMeal(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), c.Param("date"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /puppies/:id/logs/:date/naps
func (dc *DayLogController) AddNap(c *gin.Context) {
	var in services.NapInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := dc.Days.AddNap(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), c.Param("date"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /puppies/:id/logs/:date/wakes
func (dc *DayLogController) AddWake(c *gin.Context) {
	var in services.WakeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := dc.Days.AddWake(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), c.Param("date"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// RemoveEntry serves DELETE /puppies/:id/logs/:date/<kind>/:entryID.
func (dc *DayLogController) RemoveEntry(kind services.EntryKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := dc.Days.RemoveEntry(c.Request.Context(), puppyIDFromCtx(c), c.GetUint("userID"), c.Param("date"), kind, c.Param("entryID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
	}
}
