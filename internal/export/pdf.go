package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/advdiary/advdiary/internal/config"
	"github.com/advdiary/advdiary/internal/ledger"
	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/pkg/logger"
)

// Exporter renders a case's procedural history to a printable PDF through a
// headless browser. It is a read-only projection: the timeline is sorted
// newest first for presentation, while stored history keeps insertion order.
type Exporter struct {
	cfg     *config.Config
	browser *rod.Browser
	mu      sync.Mutex
	logger  *logger.Logger
}

// NewExporter launches the headless browser used for printing.
func NewExporter(cfg *config.Config, logger *logger.Logger) (*Exporter, error) {
	l := launcher.New().Headless(cfg.HeadlessMode)
	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Exporter{
		cfg:     cfg,
		browser: browser,
		logger:  logger,
	}, nil
}

// Close shuts down the browser.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.browser.Close()
}

// HistoryPDF produces the paginated procedural-history artifact for a case.
func (e *Exporter) HistoryPDF(ctx context.Context, c records.Case) ([]byte, error) {
	items := ledger.SortForDisplay(ledger.DisplayHistory(c))

	html, err := RenderHistoryHTML(c, items)
	if err != nil {
		return nil, fmt.Errorf("failed to render history: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	printCtx, cancel := context.WithTimeout(ctx, e.cfg.ExportTimeout)
	defer cancel()

	page, err := e.browser.Context(printCtx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			e.logger.Warn("Failed to close export page", "error", err)
		}
	}()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to set page content: %w", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("failed to print page: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}

	e.logger.Info("Exported procedural history",
		"caseID", c.CaseID,
		"entries", len(items),
		"bytes", len(data),
	)
	return data, nil
}

var historyTemplate = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #0f172a; margin: 40px; }
  h1 { font-size: 22px; border-bottom: 1px solid #e2e8f0; padding-bottom: 10px; }
  .label { font-size: 10px; color: #64748b; letter-spacing: 1px; }
  .case-number { font-size: 16px; font-weight: bold; }
  .court { font-size: 12px; }
  .entry { border-bottom: 1px solid #f1f5f9; padding: 10px 0; }
  .date { display: inline-block; background: #fffbeb; color: #b45309; font-size: 11px; font-weight: bold; padding: 3px 8px; }
  .step { font-size: 12px; margin-top: 6px; }
  .notes { font-size: 11px; color: #475569; margin-top: 4px; }
  .next { margin-top: 24px; }
  .empty { font-size: 11px; }
</style>
</head>
<body>
<h1>Adv Diary - Procedural History</h1>
<div class="label">CASE SUMMARY</div>
<div class="case-number">Case No: {{.Case.CaseNumber}}</div>
<div class="court">{{.Case.CourtName}} | {{.Case.CaseType}}</div>
<h2>Proceedings Timeline</h2>
{{if .Items}}
{{range .Items}}
<div class="entry">
  <span class="date">{{.Date}}</span>
  <div class="step">Step: {{.Step}}</div>
  {{if .Notes}}<div class="notes">Notes: {{.Notes}}</div>{{end}}
</div>
{{end}}
{{else}}
<div class="empty">No historical records found for this case.</div>
{{end}}
<div class="next">
  <div class="label">NEXT SCHEDULED LISTING</div>
  <div>{{.Case.NextDate}}</div>
</div>
</body>
</html>`))

// RenderHistoryHTML builds the printable timeline markup. items must already
// be in display order.
func RenderHistoryHTML(c records.Case, items []records.HistoryItem) (string, error) {
	var buf bytes.Buffer
	err := historyTemplate.Execute(&buf, struct {
		Case  records.Case
		Items []records.HistoryItem
	}{Case: c, Items: items})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
