package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/Aashish23092/ocr-financial-ratios/service"
	"github.com/Aashish23092/ocr-financial-ratios/storage"
	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

type StatementHandler struct {
	statementService *service.StatementService
	maxFileSize      int64
}

// NewStatementHandler creates the handler. Uploaded files larger than
// maxFileSize bytes are rejected; zero means no limit.
func NewStatementHandler(statementService *service.StatementService, maxFileSize int64) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		maxFileSize:      maxFileSize,
	}
}

// RegisterRoutes mounts the statement endpoints under rg.
func (h *StatementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	statements := rg.Group("/statements")
	{
		statements.POST("/analyze", h.Analyze)
		statements.POST("/upload", h.Upload)
		statements.POST("/batch", h.Batch)
		statements.GET("/:id", h.GetResult)
		statements.DELETE("/:id", h.DeleteResult)
	}
}

// Analyze handles POST /statements/analyze with text or rows in a JSON body.
func (h *StatementHandler) Analyze(c *gin.Context) {
	var request dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	result, err := h.statementService.AnalyzeSource(c.Request.Context(), &request)
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to analyze statement", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Upload handles POST /statements/upload with a single PDF, image or text file.
func (h *StatementHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "File is required", err)
		return
	}

	request := &dto.UploadRequest{
		File:       file,
		Password:   c.PostForm("password"),
		Structured: c.PostForm("structured"),
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	data, err := h.readFile(request.File)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	log.Info().Str("filename", file.Filename).Int64("size", file.Size).Msg("statement upload received")

	result, err := h.statementService.AnalyzeDocument(c.Request.Context(), dto.DocumentInput{
		Filename:   file.Filename,
		Data:       data,
		Password:   request.Password,
		Structured: request.Structured,
	})
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to analyze statement", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Batch handles POST /statements/batch with files[] form parts.
func (h *StatementHandler) Batch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}

	request := &dto.BatchRequest{Files: form.File["files[]"]}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	docs := make([]dto.DocumentInput, 0, len(request.Files))
	for _, fh := range request.Files {
		data, err := h.readFile(fh)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file "+fh.Filename, err)
			return
		}
		docs = append(docs, dto.DocumentInput{Filename: fh.Filename, Data: data})
	}

	log.Info().Int("files", len(docs)).Msg("batch analysis started")

	items := h.statementService.AnalyzeBatch(c.Request.Context(), docs)
	response := dto.BatchResponse{
		Items:       items,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, item := range items {
		if item.Error != "" {
			response.Failed++
		} else {
			response.Succeeded++
		}
	}
	c.JSON(http.StatusOK, response)
}

// GetResult handles GET /statements/:id. ?format=table returns the
// plain-text ratio report instead of JSON.
func (h *StatementHandler) GetResult(c *gin.Context) {
	result, err := h.statementService.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to load result", err)
		return
	}

	if c.Query("format") == "table" {
		c.String(http.StatusOK, service.FormatRatioTable(result.Ratios))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StatementHandler) DeleteResult(c *gin.Context) {
	if err := h.statementService.DeleteResult(c.Request.Context(), c.Param("id")); err != nil {
		h.sendError(c, statusFor(err), "Failed to delete result", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StatementHandler) readFile(fh *multipart.FileHeader) ([]byte, error) {
	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return nil, fmt.Errorf("file %s exceeds %d bytes", fh.Filename, h.maxFileSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// sendError sends a structured error response
func (h *StatementHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		if statusCode >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		} else {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg(message)
		}
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "ANALYSIS_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
