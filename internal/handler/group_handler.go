package handler

import (
	"net/http"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GroupHandler handles care-group HTTP endpoints
type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func groupID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid group ID"})
		return uuid.Nil, false
	}
	return id, true
}

// CreateGroup godoc
// @Summary Create a care group
// @Description Create a group owned by the calling caregiver with an optional initial set of parents.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateGroupRequest true "Create group request"
// @Success 201 {object} model.CareGroup
// @Failure 400 {object} model.ErrorResponse
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req model.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	group, err := h.groupService.Create(userID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetGroups godoc
// @Summary List the current user's groups
// @Description Groups owned by or including the user, excluding groups they left, latest activity first.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CareGroup
// @Router /groups [get]
func (h *GroupHandler) GetGroups(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	groups, err := h.groupService.ListForUser(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// GetGroup godoc
// @Summary Get a group
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} model.CareGroup
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	group, err := h.groupService.Get(id, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// SendGroupMessage godoc
// @Summary Post a broadcast message to a group
// @Description Only the owning caregiver can post.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param body body model.SendGroupMessageRequest true "Send message request"
// @Success 201 {object} model.GroupMessage
// @Failure 403 {object} model.ErrorResponse
// @Router /groups/{id}/messages [post]
func (h *GroupHandler) SendGroupMessage(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	var req model.SendGroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	msg, err := h.groupService.SendMessage(c.Request.Context(), id, userID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// GetGroupMessages godoc
// @Summary Get a group's messages
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {array} model.GroupMessage
// @Failure 403 {object} model.ErrorResponse
// @Router /groups/{id}/messages [get]
func (h *GroupHandler) GetGroupMessages(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	messages, err := h.groupService.ListMessages(id, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkGroupAsRead godoc
// @Summary Mark all group messages as read
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} model.SuccessResponse
// @Router /groups/{id}/read [post]
func (h *GroupHandler) MarkGroupAsRead(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.groupService.MarkRead(id, userID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Messages marked as read"})
}

// MuteGroup godoc
// @Summary Mute a group's notifications
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} model.SuccessResponse
// @Router /groups/{id}/mute [post]
func (h *GroupHandler) MuteGroup(c *gin.Context) {
	h.setMuted(c, true, "Group muted")
}

// UnmuteGroup godoc
// @Summary Unmute a group's notifications
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} model.SuccessResponse
// @Router /groups/{id}/mute [delete]
func (h *GroupHandler) UnmuteGroup(c *gin.Context) {
	h.setMuted(c, false, "Group unmuted")
}

func (h *GroupHandler) setMuted(c *gin.Context, muted bool, message string) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.groupService.SetMuted(id, userID, muted); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: message})
}

// LeaveGroup godoc
// @Summary Leave a group
// @Description The group disappears from the caller's listing; history is retained.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} model.SuccessResponse
// @Router /groups/{id}/leave [post]
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.groupService.Leave(id, userID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Left group"})
}

// UpdateParticipants godoc
// @Summary Add or remove group participants
// @Description Only the owning caregiver can manage the participant set.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param body body model.UpdateParticipantsRequest true "Participant changes"
// @Success 200 {object} model.CareGroup
// @Failure 403 {object} model.ErrorResponse
// @Router /groups/{id}/participants [patch]
func (h *GroupHandler) UpdateParticipants(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	var req model.UpdateParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	group, err := h.groupService.UpdateParticipants(id, userID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// GetSuggestions godoc
// @Summary Suggest participants for the caregiver's group
// @Description Contact-book entries unioned with parents the caregiver has messaged, most recent contact first.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ParticipantSuggestion
// @Router /groups/suggestions [get]
func (h *GroupHandler) GetSuggestions(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	suggestions, err := h.groupService.Suggestions(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}
