package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advdiary/advdiary/internal/ledger"
	"github.com/advdiary/advdiary/internal/records"
)

func TestRenderHistoryHTML(t *testing.T) {
	c := records.Case{
		CaseNumber: "CR/1/2024",
		CourtName:  "District Court",
		CaseType:   "Criminal",
		NextDate:   "2024-03-01",
		History: []records.HistoryItem{
			{Date: "2024-01-10", Step: "Filing", Notes: "done"},
			{Date: "2024-02-10", Step: "Arguments"},
		},
	}

	items := ledger.SortForDisplay(ledger.DisplayHistory(c))
	html, err := RenderHistoryHTML(c, items)
	require.NoError(t, err)

	assert.Contains(t, html, "CR/1/2024")
	assert.Contains(t, html, "District Court")
	assert.Contains(t, html, "Step: Filing")
	assert.Contains(t, html, "Notes: done")
	assert.Contains(t, html, "2024-03-01")
	// Newest entry first
	assert.Less(t, strings.Index(html, "2024-02-10"), strings.Index(html, "2024-01-10"))
}

func TestRenderHistoryHTMLEmpty(t *testing.T) {
	html, err := RenderHistoryHTML(records.Case{CaseNumber: "X1"}, nil)
	require.NoError(t, err)

	assert.Contains(t, html, "No historical records found for this case.")
}

func TestRenderHistoryHTMLEscapesContent(t *testing.T) {
	c := records.Case{CaseNumber: `<script>alert(1)</script>`}

	html, err := RenderHistoryHTML(c, nil)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
}
