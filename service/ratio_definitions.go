package service

import (
	"math"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
)

// SafeDiv returns a/b, or nil when either operand is missing or b is zero.
func SafeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	return finite(*a / *b)
}

func sub(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return finite(*a - *b)
}

func add(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return finite(*a + *b)
}

func mul(factors ...*float64) *float64 {
	product := 1.0
	for _, f := range factors {
		if f == nil {
			return nil
		}
		product *= *f
	}
	return finite(product)
}

func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return finite(*v * 100)
}

func constant(v float64) *float64 {
	return &v
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

const daysPerYear = 365

type ratioDef struct {
	category dto.Category
	name     string
	deps     []dto.FieldName
	percent  bool
	compute  func(f dto.FinancialFieldSet) *float64
}

// Field shorthands used by the formulas below.
var (
	ta   = fieldOf(dto.TotalAssets)
	ca   = fieldOf(dto.CurrentAssets)
	nca  = fieldOf(dto.NonCurrentAssets)
	inv  = fieldOf(dto.Inventory)
	rec  = fieldOf(dto.Receivables)
	cash = fieldOf(dto.Cash)
	tl   = fieldOf(dto.TotalLiabilities)
	cl   = fieldOf(dto.CurrentLiabilities)
	ncl  = fieldOf(dto.NonCurrentLiabilities)
	pay  = fieldOf(dto.Payables)
	stb  = fieldOf(dto.ShortTermBorrowings)
	ltb  = fieldOf(dto.LongTermBorrowings)
	te   = fieldOf(dto.TotalEquity)
	res  = fieldOf(dto.Reserves)
	rev  = fieldOf(dto.Revenue)
	cogs = fieldOf(dto.COGS)
	gp   = fieldOf(dto.GrossProfit)
	opi  = fieldOf(dto.OperatingIncome)
	ebda = fieldOf(dto.EBITDA)
	ebit = fieldOf(dto.EBIT)
	intr = fieldOf(dto.InterestExpense)
	ni   = fieldOf(dto.NetIncome)
)

func fieldOf(name dto.FieldName) func(dto.FinancialFieldSet) *float64 {
	return func(f dto.FinancialFieldSet) *float64 { return f.Value(name) }
}

func ratioOf(num, den func(dto.FinancialFieldSet) *float64) func(dto.FinancialFieldSet) *float64 {
	return func(f dto.FinancialFieldSet) *float64 { return SafeDiv(num(f), den(f)) }
}

func grossProfitOf(f dto.FinancialFieldSet) *float64 {
	return sub(rev(f), cogs(f))
}

func grossMarginOf(f dto.FinancialFieldSet) *float64 {
	return firstOf(SafeDiv(grossProfitOf(f), rev(f)), SafeDiv(gp(f), rev(f)))
}

func daysFrom(turnover func(dto.FinancialFieldSet) *float64) func(dto.FinancialFieldSet) *float64 {
	return func(f dto.FinancialFieldSet) *float64 { return SafeDiv(constant(daysPerYear), turnover(f)) }
}

func deps(names ...dto.FieldName) []dto.FieldName { return names }

// ratioDefinitions is the single table of every ratio the engine reports.
var ratioDefinitions = []ratioDef{
	// liquidity
	{dto.CategoryLiquidity, "current_ratio", deps(dto.CurrentAssets, dto.CurrentLiabilities), false, ratioOf(ca, cl)},
	{dto.CategoryLiquidity, "quick_ratio", deps(dto.CurrentAssets, dto.Inventory, dto.CurrentLiabilities), false,
		func(f dto.FinancialFieldSet) *float64 { return SafeDiv(sub(ca(f), inv(f)), cl(f)) }},
	{dto.CategoryLiquidity, "cash_ratio", deps(dto.Cash, dto.CurrentLiabilities), false, ratioOf(cash, cl)},
	{dto.CategoryLiquidity, "working_capital", deps(dto.CurrentAssets, dto.CurrentLiabilities), false,
		func(f dto.FinancialFieldSet) *float64 { return sub(ca(f), cl(f)) }},

	// profitability
	{dto.CategoryProfitability, "gross_profit", deps(dto.Revenue, dto.COGS), false, grossProfitOf},
	{dto.CategoryProfitability, "gross_margin", deps(dto.Revenue, dto.COGS, dto.GrossProfit), true, grossMarginOf},
	{dto.CategoryProfitability, "operating_margin", deps(dto.OperatingIncome, dto.Revenue), true, ratioOf(opi, rev)},
	{dto.CategoryProfitability, "net_margin", deps(dto.NetIncome, dto.Revenue), true, ratioOf(ni, rev)},
	{dto.CategoryProfitability, "return_on_assets", deps(dto.NetIncome, dto.TotalAssets), true, ratioOf(ni, ta)},
	{dto.CategoryProfitability, "return_on_equity", deps(dto.NetIncome, dto.TotalEquity), true, ratioOf(ni, te)},
	{dto.CategoryProfitability, "ebitda_margin", deps(dto.EBITDA, dto.Revenue), true, ratioOf(ebda, rev)},
	{dto.CategoryProfitability, "ebit_margin", deps(dto.EBIT, dto.Revenue), true, ratioOf(ebit, rev)},
	{dto.CategoryProfitability, "return_on_capital_employed", deps(dto.EBIT, dto.TotalAssets, dto.CurrentLiabilities), true,
		func(f dto.FinancialFieldSet) *float64 { return SafeDiv(ebit(f), sub(ta(f), cl(f))) }},

	// solvency
	{dto.CategorySolvency, "debt_ratio", deps(dto.TotalLiabilities, dto.TotalAssets), false, ratioOf(tl, ta)},
	{dto.CategorySolvency, "equity_ratio", deps(dto.TotalEquity, dto.TotalAssets), false, ratioOf(te, ta)},
	{dto.CategorySolvency, "debt_to_equity", deps(dto.TotalLiabilities, dto.TotalEquity), false, ratioOf(tl, te)},
	{dto.CategorySolvency, "interest_coverage", deps(dto.EBIT, dto.InterestExpense), false, ratioOf(ebit, intr)},
	{dto.CategorySolvency, "debt_service_coverage", deps(dto.EBITDA, dto.InterestExpense), false, ratioOf(ebda, intr)},
	{dto.CategorySolvency, "long_term_debt_to_equity", deps(dto.NonCurrentLiabilities, dto.TotalEquity), false, ratioOf(ncl, te)},
	{dto.CategorySolvency, "assets_to_liabilities", deps(dto.TotalAssets, dto.TotalLiabilities), false, ratioOf(ta, tl)},
	{dto.CategorySolvency, "current_liabilities_ratio", deps(dto.CurrentLiabilities, dto.TotalLiabilities), false, ratioOf(cl, tl)},

	// capital structure
	{dto.CategoryCapitalStructure, "equity_multiplier", deps(dto.TotalAssets, dto.TotalEquity), false, ratioOf(ta, te)},
	{dto.CategoryCapitalStructure, "equity_to_debt", deps(dto.TotalEquity, dto.TotalLiabilities), false, ratioOf(te, tl)},
	{dto.CategoryCapitalStructure, "long_term_debt_ratio", deps(dto.NonCurrentLiabilities, dto.TotalLiabilities), false, ratioOf(ncl, tl)},
	{dto.CategoryCapitalStructure, "borrowings_to_equity", deps(dto.ShortTermBorrowings, dto.LongTermBorrowings, dto.TotalEquity), false,
		func(f dto.FinancialFieldSet) *float64 { return SafeDiv(add(stb(f), ltb(f)), te(f)) }},
	{dto.CategoryCapitalStructure, "retention_ratio", deps(dto.Reserves, dto.TotalEquity), false, ratioOf(res, te)},

	// activity
	{dto.CategoryActivity, "asset_turnover", deps(dto.Revenue, dto.TotalAssets), false, ratioOf(rev, ta)},
	{dto.CategoryActivity, "inventory_turnover", deps(dto.COGS, dto.Inventory), false, ratioOf(cogs, inv)},
	{dto.CategoryActivity, "receivables_turnover", deps(dto.Revenue, dto.Receivables), false, ratioOf(rev, rec)},
	{dto.CategoryActivity, "days_sales_outstanding", deps(dto.Revenue, dto.Receivables), false, daysFrom(ratioOf(rev, rec))},
	{dto.CategoryActivity, "payables_turnover", deps(dto.COGS, dto.Payables), false, ratioOf(cogs, pay)},
	{dto.CategoryActivity, "days_payables_outstanding", deps(dto.COGS, dto.Payables), false, daysFrom(ratioOf(cogs, pay))},
	{dto.CategoryActivity, "inventory_holding_period", deps(dto.COGS, dto.Inventory), false, daysFrom(ratioOf(cogs, inv))},
	{dto.CategoryActivity, "fixed_asset_turnover", deps(dto.Revenue, dto.NonCurrentAssets), false, ratioOf(rev, nca)},
	{dto.CategoryActivity, "current_asset_turnover", deps(dto.Revenue, dto.CurrentAssets), false, ratioOf(rev, ca)},

	// efficiency
	{dto.CategoryEfficiency, "current_assets_ratio", deps(dto.CurrentAssets, dto.TotalAssets), false, ratioOf(ca, ta)},
	{dto.CategoryEfficiency, "fixed_assets_ratio", deps(dto.NonCurrentAssets, dto.TotalAssets), false, ratioOf(nca, ta)},
	{dto.CategoryEfficiency, "receivables_to_current_assets", deps(dto.Receivables, dto.CurrentAssets), false, ratioOf(rec, ca)},

	// DuPont
	{dto.CategoryDuPont, "net_profit_margin", deps(dto.NetIncome, dto.Revenue), true, ratioOf(ni, rev)},
	{dto.CategoryDuPont, "asset_turnover", deps(dto.Revenue, dto.TotalAssets), false, ratioOf(rev, ta)},
	{dto.CategoryDuPont, "equity_multiplier", deps(dto.TotalAssets, dto.TotalEquity), false, ratioOf(ta, te)},
	{dto.CategoryDuPont, "roe_dupont", deps(dto.NetIncome, dto.Revenue, dto.TotalAssets, dto.TotalEquity), true,
		func(f dto.FinancialFieldSet) *float64 {
			return mul(SafeDiv(ni(f), rev(f)), SafeDiv(rev(f), ta(f)), SafeDiv(ta(f), te(f)))
		}},

	// working capital
	{dto.CategoryWorkingCapital, "net_working_capital_ratio", deps(dto.CurrentAssets, dto.CurrentLiabilities, dto.TotalAssets), false,
		func(f dto.FinancialFieldSet) *float64 { return SafeDiv(sub(ca(f), cl(f)), ta(f)) }},
	{dto.CategoryWorkingCapital, "cash_to_current_assets", deps(dto.Cash, dto.CurrentAssets), false, ratioOf(cash, ca)},
	{dto.CategoryWorkingCapital, "operating_cash_ratio", deps(dto.EBIT, dto.CurrentLiabilities), false, ratioOf(ebit, cl)},
	{dto.CategoryWorkingCapital, "net_capital_turnover", deps(dto.Revenue, dto.TotalAssets, dto.TotalLiabilities), false,
		func(f dto.FinancialFieldSet) *float64 { return SafeDiv(rev(f), sub(ta(f), tl(f))) }},

	// valuation
	{dto.CategoryValuation, "book_value_ratio", deps(dto.TotalEquity, dto.TotalAssets), false, ratioOf(te, ta)},
	{dto.CategoryValuation, "asset_quality_ratio", deps(dto.CurrentAssets, dto.TotalAssets), false, ratioOf(ca, ta)},
	{dto.CategoryValuation, "liquidity_quality_ratio", deps(dto.Cash, dto.CurrentAssets), false, ratioOf(cash, ca)},
}
