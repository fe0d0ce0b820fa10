package handler

import "time"

// Response is the JSON envelope of every handler reply.
type Response struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Status:    "ok",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, message string) *Response {
	return &Response{
		Status:    "error",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Error:     message,
	}
}
