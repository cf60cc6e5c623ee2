package dto

import (
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AnalyzeRequest carries statement content posted as JSON.
// Structured may be a JSON object or a string holding raw LLM output; on its
// own it skips text and row extraction.
type AnalyzeRequest struct {
	Text       string          `json:"text" validate:"required_without_all=Rows Structured,max=5000000"`
	Rows       json.RawMessage `json:"rows" validate:"required_without_all=Text Structured"`
	Structured json.RawMessage `json:"structured,omitempty"`
	Filename   string          `json:"filename,omitempty" validate:"max=255"`
}

// Validate performs basic validation on the request
func (r *AnalyzeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

// UploadRequest represents a multipart statement upload
type UploadRequest struct {
	File       *multipart.FileHeader `form:"file" validate:"required"`
	Password   string                `form:"password"`
	Structured string                `form:"structured"`
}

func (r *UploadRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

// BatchRequest represents a multipart upload of several statements
type BatchRequest struct {
	Files []*multipart.FileHeader `form:"files[]" validate:"required,min=1,max=20"`
}

func (r *BatchRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}
