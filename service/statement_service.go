package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/Aashish23092/ocr-financial-ratios/storage"
	"github.com/Aashish23092/ocr-financial-ratios/utils"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

// Warnings attached to results.
const (
	WarnStructuredInvalid     = "structured_source_invalid"
	WarnStructuredImplausible = "structured_source_implausible"
	WarnExtractionImplausible = "extraction_implausible"
)

// TextRecognizer OCRs one encoded page image. Confidence is 0-100.
type TextRecognizer interface {
	RecognizeImage(ctx context.Context, img []byte) (string, float64, error)
}

// TableRecognizer transcribes the tables on one page image as markdown.
type TableRecognizer interface {
	RecognizeTables(ctx context.Context, img []byte) (string, error)
}

type ExtractionConfig struct {
	MinTextQuality     float64
	Workers            int
	MinPlausibleValues int
}

func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		MinTextQuality:     50,
		Workers:            4,
		MinPlausibleValues: MinPlausibleValues,
	}
}

// StatementService turns uploaded statements into stored ratio analyses.
type StatementService struct {
	pdfProcessor PDFProcessor
	ocr          TextRecognizer
	tables       TableRecognizer
	store        storage.ResultStore
	engine       *RatioEngine
	extractor    *FieldExtractor
	cfg          ExtractionConfig
	now          func() time.Time
}

// NewStatementService wires the pipeline. tables may be nil, which
// disables table OCR on scanned pages.
func NewStatementService(
	pdfProcessor PDFProcessor,
	ocr TextRecognizer,
	tables TableRecognizer,
	store storage.ResultStore,
	engine *RatioEngine,
	cfg ExtractionConfig,
) *StatementService {
	if engine == nil {
		engine = defaultEngine
	}
	defaults := DefaultExtractionConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.MinPlausibleValues <= 0 {
		cfg.MinPlausibleValues = defaults.MinPlausibleValues
	}
	return &StatementService{
		pdfProcessor: pdfProcessor,
		ocr:          ocr,
		tables:       tables,
		store:        store,
		engine:       engine,
		extractor:    NewFieldExtractor(),
		cfg:          cfg,
		now:          time.Now,
	}
}

// documentContent is everything read out of one document before extraction.
type documentContent struct {
	filename   string
	docType    dto.DocumentType
	text       string
	rows       []dto.NormalizedRow
	structured string
	quality    dto.DocumentQuality
}

// AnalyzeSource analyzes statement content posted directly as text and/or rows.
func (s *StatementService) AnalyzeSource(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content := documentContent{
		filename: req.Filename,
		docType:  dto.DocTypeText,
		text:     req.Text,
	}

	if len(req.Rows) > 0 {
		raw, err := dto.DecodeRawRows(req.Rows)
		if err != nil {
			return nil, err
		}
		content.rows = utils.NormalizeRows(raw)
		if content.text == "" {
			content.docType = dto.DocTypeRows
		}
	}

	structured, err := structuredPayload(req.Structured)
	if err != nil {
		return nil, err
	}
	content.structured = structured
	if content.text == "" && len(content.rows) == 0 && len(req.Rows) == 0 {
		content.docType = dto.DocTypeStructured
	}

	return s.analyze(ctx, content)
}

// structuredPayload accepts a JSON object or a JSON string of raw LLM output.
func structuredPayload(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: structured: %v", dto.ErrMalformedInput, err)
		}
		return s, nil
	}
	return string(trimmed), nil
}

// AnalyzeDocument reads a PDF, image, text or JSON-rows file and analyzes it.
func (s *StatementService) AnalyzeDocument(ctx context.Context, doc dto.DocumentInput) (*dto.AnalysisResult, error) {
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file %q", dto.ErrMalformedInput, doc.Filename)
	}

	docType, err := detectDocumentType(doc.Filename, doc.Data)
	if err != nil {
		return nil, err
	}

	log.Info().Str("filename", doc.Filename).Str("doc_type", string(docType)).Int("bytes", len(doc.Data)).Msg("analyzing document")

	content := documentContent{
		filename:   doc.Filename,
		docType:    docType,
		structured: doc.Structured,
	}

	switch docType {
	case dto.DocTypePDF:
		if err := s.readPDF(ctx, doc, &content); err != nil {
			return nil, err
		}
	case dto.DocTypeImage:
		if err := s.readImages(ctx, [][]byte{doc.Data}, &content); err != nil {
			return nil, err
		}
		content.quality.PagesTotal = 1
		s.scoreQuality(&content)
	case dto.DocTypeText:
		content.text = string(doc.Data)
		content.quality.OcrConfidence = 100.0
		s.scoreQuality(&content)
	case dto.DocTypeRows:
		raw, err := dto.DecodeRawRows(doc.Data)
		if err != nil {
			return nil, err
		}
		content.rows = utils.NormalizeRows(raw)
		content.quality.OcrConfidence = 100.0
		content.quality.TextScore = 100.0
		content.quality.FinalScore = 100.0
	}

	return s.analyze(ctx, content)
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true, ".bmp": true, ".gif": true,
}

func detectDocumentType(filename string, data []byte) (dto.DocumentType, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf" || bytes.HasPrefix(data, []byte("%PDF")):
		return dto.DocTypePDF, nil
	case imageExtensions[ext]:
		return dto.DocTypeImage, nil
	case ext == ".json":
		return dto.DocTypeRows, nil
	case ext == ".txt" || ext == ".md":
		return dto.DocTypeText, nil
	}

	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return dto.DocTypeImage, nil
	case strings.HasPrefix(contentType, "text/plain"):
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') && json.Valid(trimmed) {
			return dto.DocTypeRows, nil
		}
		return dto.DocTypeText, nil
	}
	return "", fmt.Errorf("%w: %s (%s)", dto.ErrUnsupportedFile, filename, contentType)
}

// readPDF prefers the text layer and falls back to OCR of the embedded page
// images when the text layer is missing or too poor to use.
func (s *StatementService) readPDF(ctx context.Context, doc dto.DocumentInput, content *documentContent) error {
	quality := &content.quality

	pages, err := s.pdfProcessor.ExtractPages(doc.Data, doc.Password)
	if err != nil {
		log.Warn().Err(err).Str("filename", doc.Filename).Msg("pdf text layer extraction failed")
		quality.Issues = append(quality.Issues, "pdf_text_extraction_failed")
	}
	quality.PagesTotal = len(pages)

	var textParts []string
	var raw []dto.RawRow
	for _, p := range selectStatementPages(pages) {
		textParts = append(textParts, p.Text)
		raw = append(raw, p.Rows...)
		quality.PagesUsed = append(quality.PagesUsed, p.Number)
	}
	content.text = strings.Join(textParts, "\n")
	content.rows = utils.NormalizeRows(raw)

	textScore := evaluateTextQuality(content.text)
	if textScore >= s.cfg.MinTextQuality {
		quality.OcrConfidence = 100.0
		s.scoreQuality(content)
		return nil
	}

	log.Info().Str("filename", doc.Filename).Float64("text_score", textScore).Msg("pdf text layer too weak, falling back to OCR")

	images, err := s.pdfProcessor.ExtractImages(doc.Data, doc.Password)
	if err != nil || len(images) == 0 {
		quality.Issues = append(quality.Issues, "pdf_image_extraction_failed")
		if content.text == "" {
			if err == nil {
				err = fmt.Errorf("no text layer and no page images")
			}
			return fmt.Errorf("failed to read pdf %s: %w", doc.Filename, err)
		}
		quality.OcrConfidence = 100.0
		s.scoreQuality(content)
		return nil
	}

	encoded := make([][]byte, 0, len(images))
	for _, img := range images {
		b, err := encodePNG(img)
		if err != nil {
			return fmt.Errorf("failed to encode page image: %w", err)
		}
		encoded = append(encoded, b)
	}

	if quality.PagesTotal == 0 {
		quality.PagesTotal = len(encoded)
	}
	quality.PagesUsed = nil
	if err := s.readImages(ctx, encoded, content); err != nil {
		return err
	}
	s.scoreQuality(content)
	return nil
}

func selectStatementPages(pages []PageContent) []PageContent {
	var selected []PageContent
	for _, p := range pages {
		if isStatementPage(p.Text) {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return pages
	}
	return selected
}

type pageOCR struct {
	text       string
	tables     string
	confidence float64
}

// readImages OCRs page images concurrently, bounded by the configured
// worker count, and keeps page order in the combined output.
func (s *StatementService) readImages(ctx context.Context, images [][]byte, content *documentContent) error {
	if s.ocr == nil {
		return fmt.Errorf("%w: no OCR backend configured for image input", dto.ErrUnsupportedFile)
	}

	results := make([]pageOCR, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for i, img := range images {
		g.Go(func() error {
			text, conf, err := s.ocr.RecognizeImage(gctx, img)
			if err != nil {
				return fmt.Errorf("failed to OCR page %d: %w", i+1, err)
			}
			results[i] = pageOCR{text: text, confidence: conf}

			if s.tables != nil {
				md, err := s.tables.RecognizeTables(gctx, img)
				if err != nil {
					log.Warn().Err(err).Int("page", i+1).Msg("table OCR failed, using plain OCR text")
					return nil
				}
				results[i].tables = md
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	useAll := true
	for _, r := range results {
		if isStatementPage(r.text) {
			useAll = false
			break
		}
	}

	var textParts []string
	var raw []dto.RawRow
	var totalConf float64
	var used int
	for i, r := range results {
		if !useAll && !isStatementPage(r.text) {
			continue
		}
		used++
		totalConf += r.confidence
		textParts = append(textParts, r.text)
		content.quality.PagesUsed = append(content.quality.PagesUsed, i+1)

		if r.tables == "" {
			continue
		}
		tableRows, err := utils.ParseMarkdownTables(r.tables)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("failed to parse table OCR markup")
			continue
		}
		raw = append(raw, tableRows...)
	}

	content.text = strings.Join(textParts, "\n")
	if rows := utils.NormalizeRows(raw); len(rows) > 0 {
		content.rows = rows
	}
	if used > 0 {
		content.quality.OcrConfidence = totalConf / float64(used)
	}
	return nil
}

func (s *StatementService) scoreQuality(content *documentContent) {
	q := &content.quality
	q.TextScore = evaluateTextQuality(content.text)
	q.FinalScore = (q.OcrConfidence + q.TextScore) / 2
	if q.FinalScore < 60 {
		q.Issues = append(q.Issues, "low_quality_document")
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// analyze runs extraction, the plausibility gate and the ratio engine, then
// stores the result.
func (s *StatementService) analyze(ctx context.Context, content documentContent) (*dto.AnalysisResult, error) {
	result := &dto.AnalysisResult{
		ID:          uuid.NewString(),
		Filename:    content.filename,
		DocType:     content.docType,
		Quality:     content.quality,
		ProcessedAt: s.now(),
	}
	if result.Quality.Issues == nil {
		result.Quality.Issues = []string{}
	}

	var structured *dto.StructuredStatement
	if strings.TrimSpace(content.structured) != "" {
		st, err := utils.ParseStructuredStatement(content.structured)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("filename", content.filename).Msg("structured statement unreadable, using heuristic extraction")
			result.Warnings = append(result.Warnings, WarnStructuredInvalid)
		case !IsPlausibleWithMin(st, s.cfg.MinPlausibleValues):
			log.Warn().Str("filename", content.filename).Int("positive_values", CountPositiveValues(st)).Msg("structured statement implausible, using heuristic extraction")
			result.Warnings = append(result.Warnings, WarnStructuredImplausible)
		default:
			structured = st
			result.UsedStructured = true
			result.Year = st.Year
		}
	}

	extraction, err := s.extractor.Extract(dto.ExtractionInput{
		Text:       content.text,
		Rows:       content.rows,
		Structured: structured,
	})
	if err != nil {
		return nil, err
	}

	result.Ratios = s.engine.Compute(extraction.Fields)
	result.MissingFields = extraction.Missing
	if result.MissingFields == nil {
		result.MissingFields = []dto.FieldName{}
	}
	result.DerivedFields = extraction.Derived
	result.Provenance = extraction.Provenance
	result.Plausible = IsPlausibleWithMin(extraction.Fields, s.cfg.MinPlausibleValues)
	if !result.Plausible {
		result.Warnings = append(result.Warnings, WarnExtractionImplausible)
	}

	if s.store != nil {
		if err := s.store.Put(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to store result: %w", err)
		}
	}

	log.Info().
		Str("id", result.ID).
		Str("filename", result.Filename).
		Int("fields", extraction.Fields.Len()).
		Int("missing", len(result.MissingFields)).
		Bool("plausible", result.Plausible).
		Bool("used_structured", result.UsedStructured).
		Msg("statement analyzed")

	return result, nil
}

// AnalyzeBatch analyzes documents concurrently. A failing document is
// reported on its item and never aborts the rest.
func (s *StatementService) AnalyzeBatch(ctx context.Context, docs []dto.DocumentInput) []dto.BatchItem {
	items := make([]dto.BatchItem, len(docs))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, doc := range docs {
		items[i].Filename = doc.Filename
		g.Go(func() error {
			result, err := s.AnalyzeDocument(ctx, doc)
			if err != nil {
				log.Error().Err(err).Str("filename", doc.Filename).Msg("batch item failed")
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func (s *StatementService) GetResult(ctx context.Context, id string) (*dto.AnalysisResult, error) {
	if s.store == nil {
		return nil, storage.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *StatementService) DeleteResult(ctx context.Context, id string) error {
	if s.store == nil {
		return storage.ErrNotFound
	}
	return s.store.Delete(ctx, id)
}
