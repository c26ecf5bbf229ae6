package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/brew-advisor/pkg/errors"
)

// HTTPError is the transport view of a failure, rendered as
// {"error":{"code","message"}} by errorHandlingMiddleware.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// domainStatus maps application error codes onto HTTP statuses.
var domainStatus = map[string]int{
	apperrors.CodeInvalidInput:          http.StatusBadRequest,
	apperrors.CodePredictionUnavailable: http.StatusBadGateway,
	apperrors.CodePersistenceFailure:    http.StatusInternalServerError,
	apperrors.CodeExportFailure:         http.StatusBadGateway,
}

// domainError converts a service error. Errors without a known code keep
// fallbackCode and become 500s.
func domainError(err error, fallbackCode string) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := domainStatus[code]
	if !ok {
		return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
	}
	if code == apperrors.CodeInvalidInput {
		code = "invalid_request"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
