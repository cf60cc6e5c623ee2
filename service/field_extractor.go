package service

import (
	"fmt"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/Aashish23092/ocr-financial-ratios/utils"
)

// derivation fills target from other fields when target was not extracted.
type derivation struct {
	target  dto.FieldName
	inputs  []dto.FieldName
	combine func(v []float64) float64
}

func difference(v []float64) float64 { return v[0] - v[1] }
func sum(v []float64) float64        { return v[0] + v[1] }

// derivations run in order; later rules may use earlier results.
var derivations = []derivation{
	{dto.TotalLiabilities, []dto.FieldName{dto.TotalAssets, dto.TotalEquity}, difference},
	{dto.TotalAssets, []dto.FieldName{dto.TotalLiabilities, dto.TotalEquity}, sum},
	{dto.CurrentLiabilities, []dto.FieldName{dto.TotalLiabilities, dto.NonCurrentLiabilities}, difference},
	{dto.NonCurrentAssets, []dto.FieldName{dto.TotalAssets, dto.CurrentAssets}, difference},
	{dto.EBIT, []dto.FieldName{dto.EBITDA, dto.Depreciation}, difference},
	{dto.EBITDA, []dto.FieldName{dto.EBIT, dto.Depreciation}, sum},
}

// FieldExtractor maps statement text and rows onto the canonical fields.
// It holds no per-document state and is safe for concurrent use.
type FieldExtractor struct {
	taxonomy []fieldTerms
}

func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{taxonomy: searchTaxonomy}
}

var defaultExtractor = NewFieldExtractor()

// ExtractFields runs one extraction pass over free text or normalized rows.
// Any other source is ErrMalformedInput.
func ExtractFields(src dto.Source) (*dto.Extraction, error) {
	switch s := src.(type) {
	case dto.TextSource:
		return defaultExtractor.extract(dto.ExtractionInput{Text: string(s)}), nil
	case dto.RowSource:
		return defaultExtractor.extract(dto.ExtractionInput{Rows: s}), nil
	case nil:
		return nil, fmt.Errorf("%w: no source", dto.ErrMalformedInput)
	default:
		return nil, fmt.Errorf("%w: unsupported source %T", dto.ErrMalformedInput, src)
	}
}

// Extract combines every source of a document. Per field, a structured
// value wins over a row match, which wins over a text match.
func (e *FieldExtractor) Extract(in dto.ExtractionInput) (*dto.Extraction, error) {
	if in.Empty() {
		return nil, fmt.Errorf("%w: no text, rows or structured statement", dto.ErrMalformedInput)
	}
	return e.extract(in), nil
}

func (e *FieldExtractor) extract(in dto.ExtractionInput) *dto.Extraction {
	values := make(map[dto.FieldName]float64)
	provenance := make(map[dto.FieldName]dto.FieldOrigin)

	if in.Structured != nil {
		for name, v := range in.Structured.Fields {
			if dto.IsCanonical(name) {
				values[name] = v
				provenance[name] = dto.OriginStructured
			}
		}
	}

	if len(in.Rows) > 0 {
		order := utils.DetectRowColumnOrder(in.Rows)
		for _, terms := range e.taxonomy {
			if _, done := values[terms.Field]; done {
				continue
			}
			if v, ok := matchRows(in.Rows, terms.Sets, order); ok {
				values[terms.Field] = v
				provenance[terms.Field] = dto.OriginRows
			}
		}
	}

	if in.Text != "" {
		locator := utils.NewLocator(in.Text)
		for _, terms := range e.taxonomy {
			if _, done := values[terms.Field]; done {
				continue
			}
			if v, ok := matchText(locator, terms.Sets); ok {
				values[terms.Field] = v
				provenance[terms.Field] = dto.OriginText
			}
		}
	}

	derived := applyDerivations(values)
	for _, name := range derived {
		provenance[name] = dto.OriginDerived
	}

	fields := dto.NewFieldSet(values)
	return &dto.Extraction{
		Fields:     fields,
		Missing:    fields.Missing(),
		Derived:    derived,
		Provenance: provenance,
	}
}

func matchText(locator *utils.Locator, sets []keywordSet) (float64, bool) {
	for _, set := range sets {
		l := locator.Without(set.Exclude)
		if len(set.All) == 1 {
			if v, ok := l.Find(set.All); ok {
				return v, true
			}
			continue
		}
		if v, ok := l.FindAll(set.All); ok {
			return v, true
		}
	}
	return 0, false
}

func matchRows(rows []dto.NormalizedRow, sets []keywordSet, order utils.ColumnOrder) (float64, bool) {
	for _, set := range sets {
		for _, row := range rows {
			if !rowMatches(row.Particulars, set) {
				continue
			}
			if v, ok := utils.SelectLatestValue(row.Values, order); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func rowMatches(particulars string, set keywordSet) bool {
	for _, kw := range set.All {
		if !utils.ContainsPhrase(particulars, kw) {
			return false
		}
	}
	for _, ex := range set.Exclude {
		if utils.ContainsPhrase(particulars, ex) {
			return false
		}
	}
	return true
}

func applyDerivations(values map[dto.FieldName]float64) []dto.FieldName {
	var derived []dto.FieldName
	for _, d := range derivations {
		if _, ok := values[d.target]; ok {
			continue
		}
		inputs := make([]float64, 0, len(d.inputs))
		for _, name := range d.inputs {
			v, ok := values[name]
			if !ok {
				break
			}
			inputs = append(inputs, v)
		}
		if len(inputs) != len(d.inputs) {
			continue
		}
		values[d.target] = d.combine(inputs)
		derived = append(derived, d.target)
	}
	return derived
}
