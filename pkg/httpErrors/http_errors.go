package httpErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Domain code wraps these with context; delivery maps
// them to HTTP statuses via ParseErrors.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrAnalysis      = errors.New("analysis failed")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal server error")
)

type RestErr interface {
	Status() int
	Error() string
	Causes() interface{}
}

type RestError struct {
	ErrStatus int         `json:"status"`
	ErrError  string      `json:"error"`
	ErrCauses interface{} `json:"causes,omitempty"`
}

func (e RestError) Status() int {
	return e.ErrStatus
}

func (e RestError) Error() string {
	return fmt.Sprintf("status: %d - error: %s - causes: %v", e.ErrStatus, e.ErrError, e.ErrCauses)
}

func (e RestError) Causes() interface{} {
	return e.ErrCauses
}

func NewRestError(status int, err string, causes interface{}) RestErr {
	return RestError{
		ErrStatus: status,
		ErrError:  err,
		ErrCauses: causes,
	}
}

func NewValidationError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusBadRequest,
		ErrError:  ErrValidation.Error(),
		ErrCauses: causes,
	}
}

func NewConfigurationError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusBadRequest,
		ErrError:  ErrConfiguration.Error(),
		ErrCauses: causes,
	}
}

func NewNotFoundError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusNotFound,
		ErrError:  ErrNotFound.Error(),
		ErrCauses: causes,
	}
}

func NewAnalysisError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusUnprocessableEntity,
		ErrError:  ErrAnalysis.Error(),
		ErrCauses: causes,
	}
}

func NewInternalServerError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusInternalServerError,
		ErrError:  ErrInternal.Error(),
		ErrCauses: causes,
	}
}

// ParseErrors maps a domain error onto its REST representation. Unrecognized
// errors become 500s without leaking internals into causes.
func ParseErrors(err error) RestErr {
	var restErr RestErr
	switch {
	case errors.As(err, &restErr):
		return restErr
	case errors.Is(err, ErrValidation):
		return NewValidationError(err.Error())
	case errors.Is(err, ErrConfiguration):
		return NewConfigurationError(err.Error())
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError(err.Error())
	case errors.Is(err, ErrAnalysis):
		return NewAnalysisError(err.Error())
	case errors.Is(err, ErrBadRequest):
		return NewRestError(http.StatusBadRequest, ErrBadRequest.Error(), err.Error())
	default:
		return NewInternalServerError(nil)
	}
}

// ErrorResponse returns the status code and body for an echo JSON reply.
func ErrorResponse(err error) (int, interface{}) {
	restErr := ParseErrors(err)
	return restErr.Status(), restErr
}
