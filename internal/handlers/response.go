package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondAppError maps the engine's error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal fault.
func RespondAppError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, code = http.StatusBadRequest, "validation"
	case errors.Is(err, apperr.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, apperr.ErrAccess):
		status, code = http.StatusForbidden, "access_denied"
	case errors.Is(err, apperr.ErrCapacity):
		status, code = http.StatusUnprocessableEntity, "capacity"
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: err.Error(),
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
