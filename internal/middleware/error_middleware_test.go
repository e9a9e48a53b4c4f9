package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/pkg/apperrors"
)

func handleErrorResponse(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"event not found", apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"invalid event state", apperrors.ErrInvalidState, http.StatusConflict, dto.ErrorCodeInvalidEventState},
		{"invalid join code", apperrors.ErrInvalidJoinCode, http.StatusNotFound, dto.ErrorCodeInvalidJoinCode},
		{"event date passed", apperrors.ErrEventDatePassed, http.StatusBadRequest, dto.ErrorCodeEventDatePassed},
		{"already registered", apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"not checked in", apperrors.ErrNotCheckedIn, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"insufficient points", apperrors.ErrInsufficientPoints, http.StatusBadRequest, dto.ErrorCodeInsufficientPoints},
		{"already redeemed", apperrors.ErrAlreadyRedeemed, http.StatusConflict, dto.ErrorCodeAlreadyRedeemed},
		{"ngo not found", apperrors.ErrNGONotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handleErrorResponse(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestHandleAPIErrorWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), apperrors.ErrEventNotFound)
	status, body := handleErrorResponse(t, wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, body.Error.Code)
}

func TestHandleAPIErrorValidationDetails(t *testing.T) {
	err := apperrors.NewValidationError("email", "invalid email format")
	status, body := handleErrorResponse(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
}
