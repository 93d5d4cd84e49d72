package handler

import (
	"net/http"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeviceHandler handles push-device registration and notification settings
type DeviceHandler struct {
	users *repository.UserRepository
}

func NewDeviceHandler(users *repository.UserRepository) *DeviceHandler {
	return &DeviceHandler{users: users}
}

// RegisterDevice godoc
// @Summary Register a device token for push notifications
// @Description Idempotent: re-registering the same token refreshes its last-active time.
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RegisterDeviceRequest true "Device token"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /devices [post]
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.users.AddDevice(userID, req.FCMToken, req.DeviceType); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Device registered"})
}

// UnregisterDevice godoc
// @Summary Remove a device token
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RegisterDeviceRequest true "Device token"
// @Success 200 {object} model.SuccessResponse
// @Router /devices/remove [post]
func (h *DeviceHandler) UnregisterDevice(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.users.DeleteDevice(userID, req.FCMToken); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Device removed"})
}

// UpdateNotificationSetting godoc
// @Summary Enable or disable notifications for the current user
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.NotificationSettingRequest true "Notification setting"
// @Success 200 {object} model.SuccessResponse
// @Router /me/notifications [put]
func (h *DeviceHandler) UpdateNotificationSetting(c *gin.Context) {
	var req model.NotificationSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.users.SetNotificationEnabled(userID, *req.Enabled); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Notification setting updated"})
}
