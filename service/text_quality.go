package service

import "strings"

var statementKeywords = []string{
	"total assets", "current assets", "non-current assets", "total equity",
	"current liabilities", "share capital", "reserves", "revenue",
	"profit", "inventories", "receivables", "borrowings", "payables",
}

var statementTitles = []string{
	"balance sheet", "statement of financial position",
	"profit and loss", "statement of profit", "income statement",
}

// evaluateTextQuality scores extracted text 0-100 by length and by how
// many statement keywords survived extraction.
func evaluateTextQuality(text string) float64 {
	if text == "" {
		return 0.0
	}

	score := 0.0

	// Length score (max 40 points)
	textLen := len(strings.TrimSpace(text))
	if textLen > 500 {
		score += 40.0
	} else if textLen > 100 {
		score += 20.0
	} else if textLen > 20 {
		score += 10.0
	}

	// Keyword presence score (max 60 points)
	score += float64(countKeywords(strings.ToLower(text), statementKeywords)) * 6.67

	if score > 100.0 {
		score = 100.0
	}

	return score
}

// isStatementPage reports whether a page looks like a balance sheet or
// P&L: it names one, or mentions at least three statement keywords.
func isStatementPage(text string) bool {
	lower := strings.ToLower(text)
	if countKeywords(lower, statementTitles) > 0 {
		return true
	}
	return countKeywords(lower, statementKeywords) >= 3
}

func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n
}
