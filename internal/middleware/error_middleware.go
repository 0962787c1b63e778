package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/integrity"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// HandleAPIError writes the error envelope for err with the matching status
func HandleAPIError(c *gin.Context, err error) {
	status, detail := translate(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("requestId", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func translate(err error) (int, *dto.ErrorDetail) {
	var violation *integrity.Violation
	if errors.As(err, &violation) {
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, violation.Message).
			WithSeverity(dto.ErrorSeverityWarning).
			WithDetails(map[string]interface{}{
				"reason":       violation.Reason,
				"entity":       violation.Entity,
				"offendingIds": violation.OffendingIDs,
			})
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, withCustom(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err, "Validation failed")), err)
	case errors.Is(err, apperrors.ErrDuplicateKey):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrReferencedRowExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceReferenced, message(err, "Resource is still referenced"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Not found.")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials.")
	case errors.Is(err, apperrors.ErrTokenMissing):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication credentials were not provided.")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

// message returns the CustomError message when there is one
func message(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	if err.Error() != "" {
		return err.Error()
	}
	return fallback
}

// withCustom applies the code and details carried by a CustomError
func withCustom(detail *dto.ErrorDetail, err error) *dto.ErrorDetail {
	var custom *apperrors.CustomError
	if !errors.As(err, &custom) {
		return detail
	}
	if custom.Code != "" {
		detail.Code = dto.ErrorCode(custom.Code)
	}
	if len(custom.Details) > 0 {
		detail = detail.WithDetails(custom.Details)
	}
	return detail
}
