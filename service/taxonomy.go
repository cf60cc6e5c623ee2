package service

import "github.com/Aashish23092/ocr-financial-ratios/dto"

// keywordSet matches a line or row that mentions every phrase in All and
// none of the phrases in Exclude.
type keywordSet struct {
	All     []string
	Exclude []string
}

type fieldTerms struct {
	Field dto.FieldName
	Sets  []keywordSet
}

// phrases builds single-phrase sets sharing one exclusion list.
func phrases(exclude []string, list ...string) []keywordSet {
	sets := make([]keywordSet, 0, len(list))
	for _, p := range list {
		sets = append(sets, keywordSet{All: []string{p}, Exclude: exclude})
	}
	return sets
}

var (
	excludeNonCurrent = []string{"non-current", "non current", "noncurrent"}
	excludeMargin     = []string{"margin", "ratio"}
	excludeActivity   = []string{"turnover", "days", "holding period"}
)

// searchTaxonomy lists keyword sets from most to least specific per field.
var searchTaxonomy = []fieldTerms{
	{dto.TotalAssets, append(
		phrases(nil, "total assets"),
		keywordSet{All: []string{"assets", "total"}, Exclude: []string{"current", "equity", "liabilities", "fixed"}},
	)},
	{dto.CurrentAssets, phrases(excludeNonCurrent, "total current assets", "current assets")},
	{dto.NonCurrentAssets, phrases(nil,
		"total non-current assets", "total non current assets", "non-current assets", "non current assets")},
	{dto.PropertyPlantEquipment, phrases(nil,
		"property, plant and equipment", "property plant and equipment", "property, plant & equipment",
		"fixed assets", "tangible assets")},
	{dto.Inventory, phrases(excludeActivity, "inventories", "inventory", "stock-in-trade", "stock in trade")},
	{dto.Receivables, phrases(excludeActivity,
		"trade receivables", "accounts receivable", "sundry debtors", "debtors", "receivables")},
	{dto.Cash, phrases([]string{"cash flow", "cash flows", "ratio"},
		"cash and cash equivalents", "cash & cash equivalents", "cash and bank balances",
		"cash and equivalents", "cash")},
	{dto.TotalLiabilities, phrases([]string{"equity and liabilities", "equity & liabilities"}, "total liabilities")},
	{dto.CurrentLiabilities, phrases(excludeNonCurrent, "total current liabilities", "current liabilities")},
	{dto.NonCurrentLiabilities, phrases(nil,
		"total non-current liabilities", "total non current liabilities", "non-current liabilities",
		"non current liabilities", "long-term liabilities", "long term liabilities")},
	{dto.Payables, phrases(excludeActivity, "trade payables", "accounts payable", "sundry creditors", "creditors")},
	{dto.ShortTermBorrowings, phrases(nil, "short-term borrowings", "short term borrowings")},
	{dto.LongTermBorrowings, phrases(nil,
		"long-term borrowings", "long term borrowings", "long-term debt", "long term debt")},
	{dto.TotalEquity, append(
		phrases([]string{"liabilities"},
			"total equity", "total shareholders' equity", "total shareholders equity",
			"shareholders' funds", "shareholders funds", "shareholder's funds", "net worth"),
		keywordSet{All: []string{"equity", "total"}, Exclude: []string{"liabilities", "share capital"}},
	)},
	{dto.ShareCapital, phrases(nil, "equity share capital", "share capital")},
	{dto.Reserves, phrases(nil, "reserves and surplus", "reserves & surplus", "other equity", "retained earnings", "reserves")},
	{dto.Revenue, phrases([]string{"cost of", "ratio", "days", "per share", "asset turnover"},
		"revenue from operations", "total revenue", "net sales", "revenue", "sales", "turnover", "total income")},
	{dto.COGS, phrases(nil,
		"cost of goods sold", "cost of sales", "cost of revenue", "cost of materials consumed", "direct expenses")},
	{dto.GrossProfit, phrases(excludeMargin, "gross profit")},
	{dto.OperatingIncome, phrases(excludeMargin, "operating profit", "operating income", "profit from operations")},
	{dto.EBITDA, phrases(excludeMargin, "ebitda")},
	{dto.EBIT, phrases(excludeMargin,
		"profit before finance costs and tax", "profit before interest and tax",
		"earnings before interest and tax", "ebit")},
	{dto.Depreciation, phrases(nil,
		"depreciation and amortisation expense", "depreciation and amortization expense",
		"depreciation and amortisation", "depreciation and amortization", "depreciation")},
	{dto.InterestExpense, phrases([]string{"before", "coverage"},
		"finance costs", "finance cost", "interest expense", "interest paid")},
	{dto.TaxExpense, phrases([]string{"before", "deferred tax assets"},
		"total tax expense", "income tax expense", "tax expense")},
	{dto.NetIncome, phrases([]string{"margin", "before"},
		"profit for the year", "profit for the period", "net profit", "profit after tax", "net income")},
}
