package dto

import "errors"

// Custom errors
var (
	// ErrMalformedInput means the input is neither text nor a row list.
	ErrMalformedInput  = errors.New("malformed input")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// BatchResponse is returned by the batch endpoint
type BatchResponse struct {
	Items       []BatchItem `json:"items"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	ProcessedAt string      `json:"processed_at"`
}
