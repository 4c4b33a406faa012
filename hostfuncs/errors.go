package hostfuncs

import (
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
)

// Error codes carried in ErrorResponse.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

// ErrorResponse is returned to the plugin instead of trapping. Every response
// type has an `error` field of type ErrorDetail, so the plugin decodes an
// ErrorResponse into whatever response it expected and sees the failure.
type ErrorResponse struct {
	Error *entities.ErrorDetail `json:"error"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

func newErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: entities.NewErrorDetail("host", message).WithCode(code)}
}

// NewValidationError creates an error response for bad input such as malformed JSON.
func NewValidationError(message string) ErrorResponse {
	return newErrorResponse(CodeValidation, message)
}

// NewNotFoundError creates an error response for unknown handler names.
func NewNotFoundError(name string) ErrorResponse {
	return newErrorResponse(CodeNotFound, "unknown host function: "+name)
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return newErrorResponse(CodeInternal, message)
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	switch v := panicValue.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	return newErrorResponse(CodeInternal, "panic: "+msg)
}
