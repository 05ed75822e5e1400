package dto

// APIResponse is the envelope every JSON response uses: success flag, payload
// on success, message on failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponse wraps a payload in the success envelope.
func SuccessResponse(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// ErrorResponse wraps an error message in the failure envelope.
func ErrorResponse(message string) APIResponse {
	return APIResponse{Success: false, Error: message}
}
