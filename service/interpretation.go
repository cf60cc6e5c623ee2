package service

import "github.com/Aashish23092/ocr-financial-ratios/dto"

func higher(fallback string, tiers ...dto.Tier) dto.ThresholdRule {
	return dto.ThresholdRule{Direction: dto.HigherIsBetter, Tiers: tiers, Fallback: fallback}
}

func lower(fallback string, tiers ...dto.Tier) dto.ThresholdRule {
	return dto.ThresholdRule{Direction: dto.LowerIsBetter, Tiers: tiers, Fallback: fallback}
}

func tier(bound float64, label string) dto.Tier {
	return dto.Tier{Bound: bound, Label: label}
}

// marginScale is the common Excellent/Good/Fair/Weak ladder.
func marginScale(excellent, good, fair float64) dto.ThresholdRule {
	return higher("Weak", tier(excellent, "Excellent"), tier(good, "Good"), tier(fair, "Fair"))
}

// DefaultThresholds returns the interpretation table. Bounds for percentage
// ratios are fractions, matching normalized output.
func DefaultThresholds() map[string]dto.ThresholdRule {
	return map[string]dto.ThresholdRule{
		"current_ratio": higher("Weak", tier(2, "Strong"), tier(1.5, "Adequate"), tier(1, "Tight")),
		"quick_ratio":   higher("Weak", tier(1, "Strong"), tier(0.8, "Adequate")),
		"cash_ratio":    higher("Weak", tier(0.2, "Good"), tier(0.1, "Fair")),

		"debt_ratio":            lower("High Risk", tier(0.4, "Low Risk"), tier(0.6, "Moderate Risk")),
		"debt_to_equity":        lower("Aggressive", tier(1, "Conservative"), tier(2, "Moderate")),
		"equity_ratio":          higher("Weak", tier(0.5, "Strong"), tier(0.3, "Fair")),
		"interest_coverage":     higher("Weak", tier(2.5, "Strong"), tier(1.5, "Adequate")),
		"debt_service_coverage": higher("Weak", tier(2.5, "Strong"), tier(1.5, "Adequate")),

		"gross_margin":     marginScale(0.40, 0.30, 0.20),
		"operating_margin": marginScale(0.15, 0.10, 0.05),
		"net_margin":       marginScale(0.10, 0.07, 0.03),
		"ebitda_margin":    marginScale(0.20, 0.15, 0.10),
		"ebit_margin":      marginScale(0.15, 0.10, 0.05),
		"return_on_assets": marginScale(0.10, 0.05, 0.02),
		"return_on_equity": marginScale(0.20, 0.15, 0.10),
		"roe_dupont":       marginScale(0.20, 0.15, 0.10),

		"asset_turnover":       marginScale(2, 1.5, 1),
		"receivables_turnover": marginScale(12, 6, 3),
		"fixed_asset_turnover": higher("Weak", tier(1.5, "Good"), tier(1, "Fair")),
		"asset_quality_ratio":  higher("Weak", tier(0.6, "Good"), tier(0.4, "Fair")),
	}
}

// MergeThresholds returns base with overrides applied per ratio.
func MergeThresholds(base, overrides map[string]dto.ThresholdRule) map[string]dto.ThresholdRule {
	merged := make(map[string]dto.ThresholdRule, len(base)+len(overrides))
	for name, rule := range base {
		merged[name] = rule
	}
	for name, rule := range overrides {
		if rule.Direction == "" {
			rule.Direction = dto.HigherIsBetter
		}
		merged[name] = rule
	}
	return merged
}
