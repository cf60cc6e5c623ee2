package dto

// Source is the input of a single extraction pass: either free text
// or normalized table rows.
type Source interface {
	source()
}

// TextSource is raw OCR or PDF text.
type TextSource string

// RowSource is page-table output after normalization.
type RowSource []NormalizedRow

func (TextSource) source() {}
func (RowSource) source()  {}

// FieldOrigin records where a field value came from.
type FieldOrigin string

const (
	OriginStructured FieldOrigin = "structured"
	OriginRows       FieldOrigin = "rows"
	OriginText       FieldOrigin = "text"
	OriginDerived    FieldOrigin = "derived"
)

// StructuredStatement is a pre-extracted statement, typically produced by
// an LLM backend as JSON.
type StructuredStatement struct {
	Year   string                `json:"year,omitempty"`
	Fields map[FieldName]float64 `json:"fields"`
}

// FieldSet returns the statement values as a FinancialFieldSet.
func (s *StructuredStatement) FieldSet() FinancialFieldSet {
	if s == nil {
		return NewFieldSet(nil)
	}
	return NewFieldSet(s.Fields)
}

// ExtractionInput combines every source available for one document.
type ExtractionInput struct {
	Text       string
	Rows       []NormalizedRow
	Structured *StructuredStatement
}

// Empty reports whether no source carries any content.
func (in ExtractionInput) Empty() bool {
	return in.Text == "" && len(in.Rows) == 0 && (in.Structured == nil || len(in.Structured.Fields) == 0)
}

// Extraction is the result of one extraction pass.
type Extraction struct {
	Fields     FinancialFieldSet         `json:"fields"`
	Missing    []FieldName               `json:"missing_fields"`
	Derived    []FieldName               `json:"derived_fields,omitempty"`
	Provenance map[FieldName]FieldOrigin `json:"provenance,omitempty"`
}
