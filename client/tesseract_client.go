package client

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"github.com/phuslu/log"
)

const (
	DefaultTessdataPrefix = "/usr/share/tesseract-ocr/5/tessdata/"
	DefaultLanguage       = "eng"
)

// TesseractClient runs local OCR over page images. A fresh gosseract
// client is created per call since the underlying API is not goroutine-safe.
type TesseractClient struct {
	dataPath string
	language string
}

func NewTesseractClient(dataPath, language string) *TesseractClient {
	if dataPath == "" {
		dataPath = DefaultTessdataPrefix
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &TesseractClient{
		dataPath: dataPath,
		language: language,
	}
}

// RecognizeImage returns the page text and the mean word confidence (0-100).
func (tc *TesseractClient) RecognizeImage(ctx context.Context, img []byte) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
		return "", 0, fmt.Errorf("failed to set tessdata prefix: %w", err)
	}
	if err := client.SetLanguage(tc.language); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		log.Warn().Err(err).Msg("tesseract bounding boxes unavailable, confidence unknown")
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}
	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}

	log.Debug().Int("chars", len(text)).Float64("confidence", avgConf).Msg("tesseract page recognized")
	return text, avgConf, nil
}
