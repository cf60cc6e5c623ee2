package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateTextQuality(t *testing.T) {
	assert.Equal(t, 0.0, evaluateTextQuality(""))
	assert.Less(t, evaluateTextQuality("@@ ## scanned noise"), 20.0)

	rich := statementText + strings.Repeat(" ", 10)
	assert.GreaterOrEqual(t, evaluateTextQuality(rich), 80.0)
	assert.LessOrEqual(t, evaluateTextQuality(rich+rich), 100.0)
}

func TestIsStatementPage(t *testing.T) {
	assert.True(t, isStatementPage("STANDALONE BALANCE SHEET"))
	assert.True(t, isStatementPage("Statement of Profit and Loss for the year"))
	assert.True(t, isStatementPage("Revenue 10\nInventories 5\nTrade payables 3"))
	assert.False(t, isStatementPage("Notice of annual general meeting"))
	assert.False(t, isStatementPage("Revenue grew strongly this year"))
}
