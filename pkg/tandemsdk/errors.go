package tandemsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes written in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInvalidCredential = "invalid_credentials"
	ErrorCodeNotVerified       = "not_verified"
	ErrorCodeDuplicateUsername = "duplicate_username"
	ErrorCodePasswordMismatch  = "password_mismatch"
	ErrorCodeUserNotFound      = "user_not_found"
	ErrorCodeBlocked           = "blocked"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeUnavailable       = "temporarily_unavailable"
	ErrorCodeServerError       = "server_error"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("tandem: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("tandem: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        http.StatusText(resp.StatusCode),
			Description: string(body),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        er.Error,
		Description: er.ErrorDescription,
	}
}
