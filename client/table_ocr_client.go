package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phuslu/log"
)

const (
	DefaultTableModel = "glm-ocr:latest"
	tablePrompt       = "Table Recognition:"
)

// ErrNoTables is returned when the model answers without any table markup.
var ErrNoTables = errors.New("table OCR returned no tables")

// TableOCRClient asks an Ollama-style vision model to transcribe the tables
// on a page image. The answer is markdown.
type TableOCRClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewTableOCRClient(endpoint, model string, timeout time.Duration) *TableOCRClient {
	if model == "" {
		model = DefaultTableModel
	}
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &TableOCRClient{
		endpoint:   endpoint,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// RecognizeTables returns the markdown tables found on img.
func (c *TableOCRClient) RecognizeTables(ctx context.Context, img []byte) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: tablePrompt,
		Images: []string{base64.StdEncoding.EncodeToString(img)},
		Stream: false,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to build table OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call table OCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("table OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode table OCR response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("table OCR model error: %s", result.Error)
	}

	markdown := strings.TrimSpace(result.Response)
	if !strings.Contains(markdown, "|") && !strings.Contains(strings.ToLower(markdown), "<table") {
		return "", ErrNoTables
	}

	log.Debug().Str("model", c.model).Int("chars", len(markdown)).Msg("table OCR page recognized")
	return markdown, nil
}
