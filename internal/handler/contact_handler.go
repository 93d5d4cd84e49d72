package handler

import (
	"net/http"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler handles the caregiver's contact book
type ContactHandler struct {
	groupService *service.GroupService
}

func NewContactHandler(groupService *service.GroupService) *ContactHandler {
	return &ContactHandler{groupService: groupService}
}

// AddContact godoc
// @Summary Save a parent to the contact book
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ContactRequest true "Parent ID"
// @Success 201 {object} model.CaregiverContact
// @Failure 400 {object} model.ErrorResponse
// @Router /contacts [post]
func (h *ContactHandler) AddContact(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	contact, err := h.groupService.AddContact(userID, req.ParentID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// RemoveContact godoc
// @Summary Remove a parent from the contact book
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param parent_id path string true "Parent ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /contacts/{parent_id} [delete]
func (h *ContactHandler) RemoveContact(c *gin.Context) {
	parentID, err := uuid.Parse(c.Param("parent_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid parent ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.groupService.RemoveContact(userID, parentID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Contact removed"})
}

// GetContacts godoc
// @Summary List the contact book
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CaregiverContact
// @Router /contacts [get]
func (h *ContactHandler) GetContacts(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	contacts, err := h.groupService.ListContacts(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}
