package errors

import (
	"encoding/json"
	stderrors "errors"
)

// ErrorResponse is the envelope every failed request answers with.
//
//	{"error":{"code":"STREAM_NOT_FOUND","message":"...","retryable":false,"details":{"key":"k"}}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to its envelope. Cause never leaves the
// process.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// FromResponse rebuilds an AppError from an envelope received with the
// given HTTP status. It reports false when body is not an envelope.
func FromResponse(status int, body []byte) (*AppError, bool) {
	var env ErrorResponse
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Code == "" {
		return nil, false
	}
	return &AppError{
		Code:       env.Error.Code,
		Message:    env.Error.Message,
		Retryable:  env.Error.Retryable,
		HTTPStatus: status,
		Details:    env.Error.Details,
	}, true
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
