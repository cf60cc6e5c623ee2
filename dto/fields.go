package dto

import (
	"encoding/json"
	"sort"
)

// FieldName is a canonical balance sheet or P&L line item.
type FieldName string

const (
	TotalAssets            FieldName = "total_assets"
	CurrentAssets          FieldName = "current_assets"
	NonCurrentAssets       FieldName = "non_current_assets"
	PropertyPlantEquipment FieldName = "property_plant_equipment"
	Inventory              FieldName = "inventory"
	Receivables            FieldName = "receivables"
	Cash                   FieldName = "cash"
	TotalLiabilities       FieldName = "total_liabilities"
	CurrentLiabilities     FieldName = "current_liabilities"
	NonCurrentLiabilities  FieldName = "non_current_liabilities"
	Payables               FieldName = "payables"
	ShortTermBorrowings    FieldName = "short_term_borrowings"
	LongTermBorrowings     FieldName = "long_term_borrowings"
	TotalEquity            FieldName = "total_equity"
	ShareCapital           FieldName = "share_capital"
	Reserves               FieldName = "reserves"
	Revenue                FieldName = "revenue"
	COGS                   FieldName = "cogs"
	GrossProfit            FieldName = "gross_profit"
	OperatingIncome        FieldName = "operating_income"
	EBITDA                 FieldName = "ebitda"
	EBIT                   FieldName = "ebit"
	Depreciation           FieldName = "depreciation"
	InterestExpense        FieldName = "interest_expense"
	TaxExpense             FieldName = "tax_expense"
	NetIncome              FieldName = "net_income"
)

// CanonicalFields lists every field in report order.
var CanonicalFields = []FieldName{
	TotalAssets, CurrentAssets, NonCurrentAssets, PropertyPlantEquipment,
	Inventory, Receivables, Cash,
	TotalLiabilities, CurrentLiabilities, NonCurrentLiabilities, Payables,
	ShortTermBorrowings, LongTermBorrowings,
	TotalEquity, ShareCapital, Reserves,
	Revenue, COGS, GrossProfit, OperatingIncome, EBITDA, EBIT,
	Depreciation, InterestExpense, TaxExpense, NetIncome,
}

// IsCanonical reports whether name is one of CanonicalFields.
func IsCanonical(name FieldName) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}

// FinancialFieldSet is an immutable mapping of canonical fields to values.
// A field that was not extracted is absent, never zero.
type FinancialFieldSet struct {
	values map[FieldName]float64
}

// NewFieldSet copies values into a new set. Non-canonical names are dropped.
func NewFieldSet(values map[FieldName]float64) FinancialFieldSet {
	fs := FinancialFieldSet{values: make(map[FieldName]float64, len(values))}
	for name, v := range values {
		if IsCanonical(name) {
			fs.values[name] = v
		}
	}
	return fs
}

// Get returns the value of name and whether it is present.
func (fs FinancialFieldSet) Get(name FieldName) (float64, bool) {
	v, ok := fs.values[name]
	return v, ok
}

// Value returns a pointer to a copy of the value, or nil when absent.
func (fs FinancialFieldSet) Value(name FieldName) *float64 {
	v, ok := fs.values[name]
	if !ok {
		return nil
	}
	return &v
}

func (fs FinancialFieldSet) Has(name FieldName) bool {
	_, ok := fs.values[name]
	return ok
}

func (fs FinancialFieldSet) Len() int {
	return len(fs.values)
}

// Present returns the names of present fields in canonical order.
func (fs FinancialFieldSet) Present() []FieldName {
	var names []FieldName
	for _, f := range CanonicalFields {
		if fs.Has(f) {
			names = append(names, f)
		}
	}
	return names
}

// Missing returns the names of absent fields in canonical order.
func (fs FinancialFieldSet) Missing() []FieldName {
	var names []FieldName
	for _, f := range CanonicalFields {
		if !fs.Has(f) {
			names = append(names, f)
		}
	}
	return names
}

// Values returns a copy of the underlying map.
func (fs FinancialFieldSet) Values() map[FieldName]float64 {
	out := make(map[FieldName]float64, len(fs.values))
	for k, v := range fs.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes every canonical field, using null for absent ones.
func (fs FinancialFieldSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(CanonicalFields))
	for _, f := range CanonicalFields {
		out[string(f)] = fs.Value(f)
	}
	return json.Marshal(out)
}

func (fs *FinancialFieldSet) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values := make(map[FieldName]float64)
	for k, v := range raw {
		if v != nil {
			values[FieldName(k)] = *v
		}
	}
	*fs = NewFieldSet(values)
	return nil
}

// SortFieldNames orders names by their canonical position.
func SortFieldNames(names []FieldName) {
	pos := make(map[FieldName]int, len(CanonicalFields))
	for i, f := range CanonicalFields {
		pos[f] = i
	}
	sort.SliceStable(names, func(i, j int) bool {
		return pos[names[i]] < pos[names[j]]
	})
}
