package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/certdesk/internal/app/models/dto"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrStudentAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student with this GRN already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrStudentFrozen, http.StatusLocked, dto.ErrorCodeResourceLocked, "Student record is frozen"},
	{apperrors.ErrMissingGRN, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "GRN is required"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrUnknownCertificateType, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Unknown certificate type"},
	{apperrors.ErrUnsupportedFileType, http.StatusBadRequest, dto.ErrorCodeUnsupportedFile, "Unsupported import file type"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrRenderFailed, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Document rendering failed"},
}

// HandleAPIError maps application errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			detail = detail.WithDetails(custom.Message)
		} else if err.Error() != m.target.Error() {
			detail = detail.WithDetails(err.Error())
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.FullPath()).Msg("Upstream failure")
		}
		c.JSON(m.status, dto.APIResponse{Error: detail, Timestamp: time.Now()})
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.APIResponse{
		Error:     dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		Timestamp: time.Now(),
	})
}
