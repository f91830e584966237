package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/lettergame/internal/api/response"
	"github.com/mcoot/lettergame/internal/model"
)

// APIError is the body of every failed request
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidState    = "INVALID_STATE"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternalError   = "INTERNAL_ERROR"
)

const internalMessage = "Internal server error"

type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// categories is checked in order, so specific sentinels must precede their parents
var categories = []struct {
	target error
	status int
	code   string
}{
	// A lobby lookup failing is a domain state error but reads as a missing resource
	{model.ErrLobbyNotFound, http.StatusNotFound, CodeNotFound},
	{model.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{model.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{model.ErrInvalidArgument, http.StatusBadRequest, CodeInvalidArgument},
	{model.ErrInvalidState, http.StatusConflict, CodeInvalidState},
}

// WriteError maps err onto a status and JSON error body.
// Errors outside the domain categories are reported without detail.
func WriteError(w http.ResponseWriter, err error) {
	he := classify(err)
	response.JSON(w, he.status, ErrorResponse{Error: he.apiError})
}

func classify(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	for _, c := range categories {
		if errors.Is(err, c.target) {
			return &httpError{c.status, APIError{c.code, err.Error()}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, internalMessage}}
}

// NewInvalidRequestError reports a malformed request
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError reports a missing or rejected token
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError reports a failure the client cannot act on
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, internalMessage}}
}
