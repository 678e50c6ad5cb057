package response

import "salesdesk/internal/apperror"

// Response is the envelope of every successful API response.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination interface{} `json:"pagination,omitempty"`
	Summary    interface{} `json:"summary,omitempty"`
}

// ErrorResponse is the envelope of every failed API response. Message is
// safe to show to end users; Error carries the machine-readable code.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Success wraps data in a success envelope.
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Page wraps one page of results with its pagination and summary.
func Page(data, pagination, summary interface{}) Response {
	return Response{Success: true, Data: data, Pagination: pagination, Summary: summary}
}

// Error builds a failure envelope with an explicit code and message.
func Error(code apperror.Code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Error: string(code)}
}

// FromError classifies err and returns the HTTP status with its envelope.
// Causes are never exposed to the client.
func FromError(err error) (int, ErrorResponse) {
	appErr := apperror.From(err)
	return appErr.StatusCode, Error(appErr.Code, appErr.Message)
}
