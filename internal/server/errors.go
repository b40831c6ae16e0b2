package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	"github.com/smallbiznis/storefront/internal/authorization"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identitydomain.ErrInvalidToken),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, identitydomain.ErrNotDemoActor):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict), db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger without re-deriving the
// response body.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, modedomain.ErrInvalidMode),
		errors.Is(err, identitydomain.ErrInvalidRole),
		errors.Is(err, auditdomain.ErrInvalidAction):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
