package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/apperr"
)

func TestRespondAppError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validationf("bad"), http.StatusBadRequest, "validation"},
		{apperr.NotFoundf("gone"), http.StatusNotFound, "not_found"},
		{apperr.Conflictf("dup"), http.StatusConflict, "conflict"},
		{apperr.Accessf("nope"), http.StatusForbidden, "access_denied"},
		{apperr.Capacityf("full"), http.StatusUnprocessableEntity, "capacity"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		RespondAppError(c, tc.err)

		if rec.Code != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
		var envelope ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%v: decode body: %v", tc.err, err)
		}
		if envelope.Error.Code != tc.code {
			t.Fatalf("%v: expected code %q, got %q", tc.err, tc.code, envelope.Error.Code)
		}
		if envelope.Error.Message == "" {
			t.Fatalf("%v: expected a message", tc.err)
		}
	}
}
