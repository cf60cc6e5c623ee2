package dto

import "time"

type DocumentType string

const (
	DocTypePDF   DocumentType = "pdf"
	DocTypeImage DocumentType = "image"
	DocTypeText  DocumentType = "text"
	DocTypeRows  DocumentType = "rows"

	DocTypeStructured DocumentType = "structured"
)

// DocumentInput is one uploaded statement.
type DocumentInput struct {
	Filename   string `json:"filename"`
	Data       []byte `json:"-"`
	Password   string `json:"password,omitempty"`
	Structured string `json:"structured,omitempty"`
}

type DocumentQuality struct {
	OcrConfidence float64  `json:"ocr_confidence"`
	TextScore     float64  `json:"text_score"`
	FinalScore    float64  `json:"final_score"`
	PagesTotal    int      `json:"pages_total,omitempty"`
	PagesUsed     []int    `json:"pages_used,omitempty"`
	Issues        []string `json:"issues"`
}

// AnalysisResult is what the pipeline stores and returns per document.
type AnalysisResult struct {
	ID             string                    `json:"id"`
	Filename       string                    `json:"filename,omitempty"`
	DocType        DocumentType              `json:"doc_type,omitempty"`
	Year           string                    `json:"year,omitempty"`
	Ratios         *RatioSet                 `json:"ratios"`
	MissingFields  []FieldName               `json:"missing_fields"`
	DerivedFields  []FieldName               `json:"derived_fields,omitempty"`
	Provenance     map[FieldName]FieldOrigin `json:"provenance,omitempty"`
	Plausible      bool                      `json:"plausible"`
	UsedStructured bool                      `json:"used_structured"`
	Quality        DocumentQuality           `json:"quality"`
	Warnings       []string                  `json:"warnings,omitempty"`
	ProcessedAt    time.Time                 `json:"processed_at"`
}

// BatchItem pairs a file with its result or failure.
type BatchItem struct {
	Filename string          `json:"filename"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}
