package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

var codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// structuredAliases lists, per field, the keys an LLM statement may use,
// most preferred first. Canonical names are always accepted.
var structuredAliases = map[dto.FieldName][]string{
	dto.Cash:                   {"cash_and_equivalents", "cash_and_cash_equivalents", "cash_and_bank_balances"},
	dto.Inventory:              {"inventories"},
	dto.Receivables:            {"trade_receivables", "accounts_receivable"},
	dto.PropertyPlantEquipment: {"ppe", "fixed_assets"},
	dto.Payables:               {"trade_payables", "accounts_payable"},
	dto.ShareCapital:           {"equity_share_capital"},
	dto.Reserves:               {"other_equity", "reserves_and_surplus", "retained_earnings"},
	dto.Revenue:                {"revenue_from_operations", "turnover", "total_revenue", "net_sales"},
	dto.COGS:                   {"cost_of_goods_sold", "cost_of_materials_consumed", "cost_of_sales"},
	dto.OperatingIncome:        {"operating_profit"},
	dto.NetIncome:              {"net_profit", "profit_after_tax", "profit_for_the_year"},
	dto.InterestExpense:        {"finance_costs", "interest"},
	dto.Depreciation:           {"depreciation_and_amortisation", "depreciation_and_amortization"},
	dto.TaxExpense:             {"total_tax_expense", "income_tax"},
}

// ParseStructuredStatement reads a statement produced by an LLM backend.
// The payload may be wrapped in a code fence, surrounded by prose or be
// slightly malformed; it is repaired before decoding. Values may be nested
// under assets / liabilities / equity / p_and_l sections or given flat with
// canonical names.
func ParseStructuredStatement(raw string) (*dto.StructuredStatement, error) {
	payload := strings.TrimSpace(raw)
	if m := codeFenceRegex.FindStringSubmatch(payload); m != nil {
		payload = strings.TrimSpace(m[1])
	}
	if start, end := strings.Index(payload, "{"), strings.LastIndex(payload, "}"); start >= 0 && end > start {
		payload = payload[start : end+1]
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty structured statement", dto.ErrMalformedInput)
	}

	repaired, err := jsonrepair.RepairJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: structured statement: %v", dto.ErrMalformedInput, err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(repaired)))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: structured statement: %v", dto.ErrMalformedInput, err)
	}

	leaves := make(map[string]float64)
	collectLeaves(doc, leaves)

	stmt := &dto.StructuredStatement{
		Year:   yearString(doc["year"]),
		Fields: make(map[dto.FieldName]float64),
	}
	for _, field := range dto.CanonicalFields {
		keys := append([]string{string(field)}, structuredAliases[field]...)
		for _, k := range keys {
			if v, ok := leaves[k]; ok {
				stmt.Fields[field] = v
				break
			}
		}
	}
	return stmt, nil
}

// collectLeaves flattens nested objects into key -> number. The first
// occurrence of a key wins over deeper duplicates.
func collectLeaves(node map[string]interface{}, out map[string]float64) {
	var nested []map[string]interface{}
	for key, val := range node {
		k := strings.ToLower(strings.TrimSpace(key))
		switch v := val.(type) {
		case map[string]interface{}:
			nested = append(nested, v)
		default:
			if f, ok := numericValue(v); ok {
				if _, seen := out[k]; !seen {
					out[k] = f
				}
			}
		}
	}
	for _, n := range nested {
		collectLeaves(n, out)
	}
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case string:
		return ParseNumber(n)
	}
	return 0, false
}

func yearString(v interface{}) string {
	switch y := v.(type) {
	case string:
		return strings.TrimSpace(y)
	case json.Number:
		return y.String()
	}
	return ""
}
