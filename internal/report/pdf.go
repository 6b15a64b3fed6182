package report

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nmoreau/argus-soc/internal/models"
)

// Color scheme - navy header with muted grays
var (
	pdfColorPrimary   = [3]int{22, 46, 80}    // Dark navy
	pdfColorAccent    = [3]int{52, 152, 219}  // Bright blue
	pdfColorText      = [3]int{44, 62, 80}    // Dark text
	pdfColorMuted     = [3]int{127, 140, 141} // Muted text
	pdfColorTableHead = [3]int{22, 46, 80}    // Navy table header
	pdfColorTableAlt  = [3]int{241, 245, 249} // Alternating row
)

// Page geometry in millimeters.
const (
	pdfPageHeight   = 297.0
	pdfLeftMargin   = 15.0
	pdfContentTop   = 38.0 // First writable Y under the page header
	pdfTextBreakAt  = 20.0 // New page when a text line would land below pageHeight-20
	pdfTableBreakAt = 60.0 // New page before starting a table below pageHeight-60
)

const alertNameMaxLen = 30

// PDFSerializer walks a ReportData value into a paginated branded document.
type PDFSerializer struct {
	now func() time.Time
}

// NewPDFSerializer creates a serializer using the wall clock for the
// generation timestamp.
func NewPDFSerializer() *PDFSerializer {
	return &PDFSerializer{now: time.Now}
}

// Serialize renders the report for a client over the given window and returns
// the PDF bytes.
func (s *PDFSerializer) Serialize(data models.ReportData, clientName string, window models.ReportWindow) ([]byte, error) {
	doc := s.build(data, clientName, window)
	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// build assembles the document without flushing it, so tests can inspect the
// page count.
func (s *PDFSerializer) build(data models.ReportData, clientName string, window models.ReportWindow) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfLeftMargin, 10, pdfLeftMargin)
	// Page breaks are decided per line and per table row, not by fpdf.
	pdf.SetAutoPageBreak(false, 0)

	doc := &pdfDoc{
		pdf:        pdf,
		clientName: clientName,
		period: fmt.Sprintf("%s - %s",
			window.From.Format("Jan 02, 2006"), window.To.Format("Jan 02, 2006")),
	}

	generated := s.now()
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(pdfColorMuted[0], pdfColorMuted[1], pdfColorMuted[2])
		pdf.CellFormat(0, 5,
			fmt.Sprintf("Generated %s", generated.Format("Jan 02, 2006 15:04 MST")),
			"", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	doc.newPage()
	doc.writeExecutiveSummary(data.Summary)
	doc.writeThreatOverview(data.SeverityBreakdown, data.Summary.TotalEvents)
	doc.writeAssetSummary(data.AssetSummary)
	doc.writeTopEvents(data.TopEvents)
	doc.writeVulnerableAssets(data.VulnerableAssets)
	doc.writeRecommendations(data.Recommendations)
	doc.writeCompliance(data.Compliance)
	return doc
}

// Filename builds the download name for a client report:
// security-report-<slug>-<yyyy-MM-dd>.pdf
func Filename(clientName string, date time.Time) string {
	return fmt.Sprintf("security-report-%s-%s.pdf", slugify(clientName), date.Format("2006-01-02"))
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// pdfDoc carries the drawing state for one report document.
type pdfDoc struct {
	pdf        *fpdf.Fpdf
	clientName string
	period     string
}

// newPage starts a page and draws the branded header. The cursor lands at
// pdfContentTop.
func (d *pdfDoc) newPage() {
	pdf := d.pdf
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	pdf.SetFillColor(pdfColorPrimary[0], pdfColorPrimary[1], pdfColorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 26, "F")

	pdf.SetXY(pdfLeftMargin, 6)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(0, 8, "Security Report", "", 1, "L", false, 0, "")

	pdf.SetX(pdfLeftMargin)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s  |  %s", d.clientName, d.period), "", 1, "L", false, 0, "")

	pdf.SetTextColor(pdfColorText[0], pdfColorText[1], pdfColorText[2])
	pdf.SetY(pdfContentTop)
}

// ensureRoom starts a new page (with header) when the cursor has crossed the
// given bottom threshold. Checked before every line and table row, since a
// single section can span pages.
func (d *pdfDoc) ensureRoom(threshold float64) {
	if d.pdf.GetY() > pdfPageHeight-threshold {
		d.newPage()
	}
}

func (d *pdfDoc) sectionTitle(title string) {
	d.ensureRoom(pdfTextBreakAt)
	pdf := d.pdf
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(pdfColorPrimary[0], pdfColorPrimary[1], pdfColorPrimary[2])
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(pdfColorAccent[0], pdfColorAccent[1], pdfColorAccent[2])
	pdf.Line(pdfLeftMargin, pdf.GetY(), pdfLeftMargin+60, pdf.GetY())
	pdf.Ln(3)
	pdf.SetTextColor(pdfColorText[0], pdfColorText[1], pdfColorText[2])
}

func (d *pdfDoc) keyValue(key, value string) {
	d.ensureRoom(pdfTextBreakAt)
	pdf := d.pdf
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(70, 6, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (d *pdfDoc) tableHeader(cols []string, widths []float64) {
	pdf := d.pdf
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(pdfColorTableHead[0], pdfColorTableHead[1], pdfColorTableHead[2])
	pdf.SetTextColor(255, 255, 255)
	for i, col := range cols {
		pdf.CellFormat(widths[i], 7, col, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(pdfColorText[0], pdfColorText[1], pdfColorText[2])
	pdf.SetFont("Arial", "", 9)
}

// tableRow writes one row, breaking to a fresh page (and re-drawing both the
// page header and the table header) when the cursor runs out.
func (d *pdfDoc) tableRow(cells []string, widths []float64, cols []string, alt bool) {
	if d.pdf.GetY() > pdfPageHeight-pdfTextBreakAt {
		d.newPage()
		d.tableHeader(cols, widths)
	}
	pdf := d.pdf
	fill := alt
	if fill {
		pdf.SetFillColor(pdfColorTableAlt[0], pdfColorTableAlt[1], pdfColorTableAlt[2])
	}
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 6, cell, "", 0, "L", fill, 0, "")
	}
	pdf.Ln(-1)
}

func (d *pdfDoc) writeExecutiveSummary(s models.ExecutiveSummary) {
	d.sectionTitle("Executive Summary")
	d.keyValue("Total Events", fmt.Sprintf("%d", s.TotalEvents))
	d.keyValue("Critical Events", fmt.Sprintf("%d", s.CriticalCount))
	d.keyValue("High Severity Events", fmt.Sprintf("%d", s.HighCount))
	d.keyValue("Assets Monitored", fmt.Sprintf("%d", s.AssetsMonitored))
	d.keyValue("Risk Score", fmt.Sprintf("%d / 100", s.RiskScore))
}

func (d *pdfDoc) writeThreatOverview(b models.SeverityBreakdown, total int) {
	d.ensureRoom(pdfTableBreakAt)
	d.sectionTitle("Threat Overview")

	cols := []string{"Severity", "Count", "Percentage"}
	widths := []float64{60, 40, 40}
	d.tableHeader(cols, widths)

	rows := []struct {
		name  string
		count int
	}{
		{"Critical", b.Critical},
		{"High", b.High},
		{"Medium", b.Medium},
		{"Low", b.Low},
		{"Info", b.Info},
	}
	for i, row := range rows {
		d.tableRow([]string{
			row.name,
			fmt.Sprintf("%d", row.count),
			fmt.Sprintf("%d%%", percentage(row.count, total)),
		}, widths, cols, i%2 == 1)
	}
	d.pdf.Ln(4)
}

func (d *pdfDoc) writeAssetSummary(s models.AssetSummary) {
	d.sectionTitle("Asset Status Summary")
	d.keyValue("Total Assets", fmt.Sprintf("%d", s.Total))
	d.keyValue("Online", fmt.Sprintf("%d", s.Online))
	d.keyValue("Offline", fmt.Sprintf("%d", s.Offline))
	d.keyValue("With Vulnerabilities", fmt.Sprintf("%d", s.Vulnerable))
}

func (d *pdfDoc) writeTopEvents(events []models.Event) {
	d.ensureRoom(pdfTableBreakAt)
	d.sectionTitle("Top Security Events")

	if len(events) == 0 {
		d.keyValue("No critical or high severity events in this period", "")
		return
	}

	cols := []string{"Date", "Severity", "Alert", "Host"}
	widths := []float64{35, 25, 70, 50}
	d.tableHeader(cols, widths)
	for i, e := range events {
		d.tableRow([]string{
			e.Timestamp.Format("Jan 02, 2006"),
			strings.ToUpper(e.Severity),
			truncate(e.AlertName, alertNameMaxLen),
			e.Host,
		}, widths, cols, i%2 == 1)
	}
	d.pdf.Ln(4)
}

func (d *pdfDoc) writeVulnerableAssets(assets []models.VulnerableAsset) {
	d.ensureRoom(pdfTableBreakAt)
	d.sectionTitle("Vulnerable Assets Summary")

	if len(assets) == 0 {
		d.keyValue("No assets with known vulnerabilities", "")
		return
	}

	cols := []string{"Asset", "IP Address", "Status", "Critical", "Total"}
	widths := []float64{55, 40, 35, 25, 25}
	d.tableHeader(cols, widths)
	for i, a := range assets {
		d.tableRow([]string{
			a.Name,
			a.IPAddress,
			a.Status,
			fmt.Sprintf("%d", a.CriticalVulns),
			fmt.Sprintf("%d", a.TotalVulns),
		}, widths, cols, i%2 == 1)
	}
	d.pdf.Ln(4)
}

func (d *pdfDoc) writeRecommendations(recs []string) {
	d.sectionTitle("Recommendations")
	pdf := d.pdf
	pdf.SetFont("Arial", "", 10)
	for i, rec := range recs {
		d.ensureRoom(pdfTextBreakAt)
		pdf.CellFormat(8, 6, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, rec, "", "L", false)
	}
	pdf.Ln(2)
}

func (d *pdfDoc) writeCompliance(c models.ComplianceMetrics) {
	d.sectionTitle("Compliance")
	d.keyValue("Events Processed", fmt.Sprintf("%d", c.EventsProcessed))
	d.keyValue("Avg Response Time", fmt.Sprintf("%.0f ms", c.AvgResponseTimeMs))
	d.keyValue("System Uptime", fmt.Sprintf("%.2f%%", c.UptimePercent))
}

func percentage(count, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
