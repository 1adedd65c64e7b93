package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/apperrors"
	"github.com/yigit/skillshare/internal/pkg/logger"
)

// retryAfterSeconds is advertised on storage timeouts and outages.
const retryAfterSeconds = "2"

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first sentinel in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrStorageTimeout, http.StatusGatewayTimeout, dto.ErrorCodeStorageTimeout, "The data store did not answer in time"},
	{apperrors.ErrStorageUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeStorageUnavailable, "The data store is unavailable"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Invalid request"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token format"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Invalid status transition"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "The resource was modified concurrently"},
}

// HandleAPIError maps an error to its status code and error envelope and writes it
func HandleAPIError(c *gin.Context, err error) {
	if detail, ok := bindingErrorDetail(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		if ce, ok := apperrors.AsCustomError(err); ok {
			if ce.Message != "" {
				detail.Message = ce.Message
			}
			if len(ce.Details) > 0 {
				detail.Details = ce.Details
			}
		}
		if apperrors.IsRetryable(err) {
			detail.WithRetryable().WithSeverity(dto.ErrorSeverityWarning)
			c.Header("Retry-After", retryAfterSeconds)
			logger.FromContext(c.Request.Context()).Warn().Err(err).Str("path", c.FullPath()).Msg("Storage failure")
		}

		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
	if gin.Mode() == gin.DebugMode {
		detail.WithDebugInfo("%v", err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}
