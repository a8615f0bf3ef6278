package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/isp-admin/internal/logger"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "not found",
			err:     apperrors.WrapAccountNotFound("42"),
			status:  http.StatusNotFound,
			code:    apperrors.ErrCodeNotFound,
			message: "Account with ID 42 not found",
		},
		{
			name:   "conflict",
			err:    apperrors.WrapSyncInProgress(),
			status: http.StatusConflict,
			code:   apperrors.ErrCodeConflict,
		},
		{
			name:    "validation",
			err:     apperrors.WrapValidation("name is required", nil),
			status:  http.StatusBadRequest,
			code:    apperrors.ErrCodeValidation,
			message: "name is required",
		},
		{
			name:    "database failure is hidden",
			err:     apperrors.WrapDatabaseError(errors.New("pq: connection refused")),
			status:  http.StatusInternalServerError,
			code:    apperrors.ErrCodeDatabaseError,
			message: "internal server error",
		},
		{
			name:    "unknown error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_ERROR",
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)

			FromError(rec, req, logger.NewNop(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	Created(rec, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "abc", body.Data["id"])
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	h := LoggingMiddleware(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "missing")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
