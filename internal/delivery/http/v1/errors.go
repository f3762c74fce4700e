package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

const validationFailedMessage = "validation failed"

type apiError struct {
	Code    int
	Message string
	Detail  string
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, errorResponse{
		Success: false,
		Message: err.Message,
		Error:   err.Detail,
	})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newValidationError(detail string) apiError {
	err := newBadRequestError(validationFailedMessage)
	err.Detail = detail
	return err
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

// abortWithError translates a service error into the response status.
// Unclassified errors are logged and answered with a bare 500.
func (h *handlerImpl) abortWithError(c *gin.Context, err error) {
	var (
		validationErr *models.ValidationError
		fieldErrs     validator.ValidationErrors
	)
	switch {
	case errors.As(err, &fieldErrs):
		abort(c, newValidationError(newFieldValidationError(fieldErrs).Error()))
	case errors.As(err, &validationErr):
		abort(c, newValidationError(validationErr.Error()))
	case errors.Is(err, services.ErrDuplicateEmail):
		abort(c, newBadRequestError(services.ErrDuplicateEmail.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		abort(c, newUnauthorizedError(services.ErrInvalidCredentials.Error()))
	case errors.Is(err, services.ErrUnverifiedExternalAccount):
		abort(c, newUnauthorizedError(services.ErrUnverifiedExternalAccount.Error()))
	case errors.Is(err, services.ErrInvalidRefreshToken):
		abort(c, newUnauthorizedError(services.ErrInvalidRefreshToken.Error()))
	case errors.Is(err, services.ErrSessionExpired):
		abort(c, newUnauthorizedError(services.ErrSessionExpired.Error()))
	case errors.Is(err, services.ErrUnauthenticated):
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
	case errors.Is(err, services.ErrForbidden):
		abort(c, newAPIError(http.StatusForbidden, services.ErrForbidden.Error()))
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrFolderNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrHabitNotFound),
		errors.Is(err, services.ErrHabitLogNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		abort(c, newAPIError(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrIdentityProviderDisabled):
		abort(c, newStatusTextError(http.StatusNotImplemented))
	default:
		h.logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
