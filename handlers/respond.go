package handlers

import (
	"net/http"

	"maato/services/booking"
	"maato/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps booking engine error codes onto HTTP statuses.
// Untyped errors become 500s without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	var status int
	switch booking.CodeOf(err) {
	case booking.CodeValidation:
		status = http.StatusBadRequest
	case booking.CodeConflict:
		status = http.StatusConflict
	case booking.CodeUnauthorized:
		status = http.StatusForbidden
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodePrecondition:
		status = http.StatusUnprocessableEntity
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}
