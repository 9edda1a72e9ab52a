package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"frutolandia/internal/service"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Timestamp        string            `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateFavorite):
		return http.StatusConflict
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing message. Authentication failures use
// fixed wording so callers cannot tell unknown accounts from bad passwords.
func messageFor(err error, status int) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, service.ErrInvalidToken):
		return "invalid or expired token"
	case status == http.StatusUnauthorized:
		return service.ErrUnauthorized.Error()
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		return "an internal server error occurred"
	}
	return err.Error()
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
	}
	c.JSON(status, newErrorResponse(c, status, messageFor(err, status)))
}

// writeBindError reports a malformed or invalid request body.
func (h *Handler) writeBindError(c *gin.Context, err error) {
	resp := newErrorResponse(c, http.StatusBadRequest, "invalid request")

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = "Validation Error"
		resp.Message = "request validation failed"
		resp.ValidationErrors = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.ValidationErrors[fe.Field()] = describeFieldError(fe)
		}
	}
	c.JSON(http.StatusBadRequest, resp)
}

func newErrorResponse(c *gin.Context, status int, message string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}
