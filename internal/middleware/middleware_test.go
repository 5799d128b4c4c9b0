package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/models/dto"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewResourceNotFoundError("certificate counter \"leave\" is not seeded"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrStudentAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{fmt.Errorf("%w: form edits cannot be saved", apperrors.ErrStudentFrozen), http.StatusLocked, dto.ErrorCodeResourceLocked},
		{fmt.Errorf("%w: \"transfer\"", apperrors.ErrUnknownCertificateType), http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{fmt.Errorf("%w: chrome crashed", apperrors.ErrRenderFailed), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{apperrors.ErrUnsupportedFileType, http.StatusBadRequest, dto.ErrorCodeUnsupportedFile},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp dto.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.False(t, resp.Success)
		})
	}
}

type sampleRequest struct {
	GRN string `json:"grn" validate:"required"`
}

func TestBindAndValidate(t *testing.T) {
	run := func(body string) (*httptest.ResponseRecorder, bool) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req sampleRequest
		return w, BindAndValidate(c, &req)
	}

	_, ok := run(`{"grn":"1"}`)
	assert.True(t, ok)

	w, ok := run(`{"grn":""}`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "GRN is required")

	w, ok = run(`{not json`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
