package controllers

import (
	"net/http"

	"pupcare/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DeviceController struct {
	Push *services.PushService
	DB   *gorm.DB
}

// constructor
func NewDeviceController(ps *services.PushService, db *gorm.DB) *DeviceController {
	return &DeviceController{Push: ps, DB: db}
}

// POST /user/devices
func (dc *DeviceController) Register(c *gin.Context) {
	if dc.Push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	uid := c.GetUint("userID")

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dev, err := dc.Push.RegisterDevice(c.Request.Context(), uid, req.Platform, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}

type toggleReq struct {
	Enabled bool `json:"enabled"`
}

// POST /user/notifications/toggle
func (dc *DeviceController) ToggleNotifications(c *gin.Context) {
	uid := c.GetUint("userID")

	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := services.SetNotifications(c.Request.Context(), dc.DB, uid, req.Enabled); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": req.Enabled,
	})
}
