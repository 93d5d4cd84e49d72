package handler

import (
	"net/http"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/gin-gonic/gin"
)

// abortWithError maps service errors onto HTTP statuses. Anything without a
// known code is an internal error and keeps its detail out of the response.
func abortWithError(c *gin.Context, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidArgument:
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
	case apperr.CodePermissionDenied:
		c.JSON(http.StatusForbidden, model.ErrorResponse{Error: err.Error()})
	case apperr.CodeNotFound:
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Internal server error"})
	}
}
