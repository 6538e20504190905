package httpx

import (
	"fmt"
	"net/http"
)

// APIError is the error body returned by every endpoint:
//
//	{"error":{"statusCode":401,"message":"Unauthorized"}}
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// ErrorBody is the envelope around APIError.
type ErrorBody struct {
	Error APIError `json:"error"`
}

// WriteError writes the error envelope with the given status.
func WriteError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	WriteJSON(w, code, ErrorBody{Error: APIError{StatusCode: code, Message: message}})
}
