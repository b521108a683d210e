package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"required value", errs.NewValueIsRequiredError("trackingNumber"), http.StatusBadRequest},
		{"invalid value", errs.NewValueIsInvalidError("vehicle kind"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", 0, 1, 100), http.StatusBadRequest},
		{"not authorized", errs.NewNotAuthorizedError("create vehicle"), http.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("vehicle", "v-1"), http.StatusNotFound},
		{"version conflict", errs.NewVersionConflictError("delivery", "d-1"), http.StatusConflict},
		{"invalid transition", errs.NewInvalidTransitionError("delivery", "delivered", "pending"), http.StatusConflict},
		{"vehicle unavailable", errs.NewVehicleUnavailableError("v-1", "assigned"), http.StatusConflict},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			recorder := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), recorder)

			require.NoError(t, writeError(ctx, tt.err))

			assert.Equal(t, tt.status, recorder.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	recorder := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), recorder)

	require.NoError(t, writeError(ctx, errors.New("pq: connection refused")))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, body.Message, "connection refused")
}
