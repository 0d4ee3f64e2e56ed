package render

import (
	"bytes"
	"fmt"
	"time"

	"report_handler/internal/report"
	"report_handler/internal/timeline"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/sirupsen/logrus"
)

// Letter page is 279mm tall; rows past this point move to a fresh page so
// the footer area stays clear.
const pdfPageBreakY = 240.0

// PDF renders the student activity report as a PDF document. It never
// fails: any error yields a one-page error document flagged as a fallback.
func PDF(student report.Student, eventOrder string) Artifact {
	tl, err := timeline.Normalize(student.Events)
	if err != nil {
		logrus.WithError(err).Error("Error generating PDF report")
		return pdfFallback(err)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("Student Report - %s", student.StudentID), false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)

	// Set total page count alias for footer
	pdf.AliasNbPages("{nb}")

	generatedAt := time.Now().Format(timestampLayout)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(127, 140, 141) // Gray
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Report generated on %s - Page %d of {nb}", generatedAt, pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Heading
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(44, 62, 80) // Dark blue-gray
	pdf.CellFormat(0, 12, "Student Activity Report", "", 1, "L", false, 0, "")
	pdf.SetLineWidth(0.6)
	pdf.SetDrawColor(52, 152, 219) // Blue
	pdf.Line(15, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(6)

	// Student information
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Student Information", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 6, fmt.Sprintf("Student ID: %s", student.StudentID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Namespace: %s", student.Namespace), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Number of Events: %d", len(tl.Events)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Event summary
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 8, "Event Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 6, fmt.Sprintf("Event Order: %s", eventOrder), "", "L", false)
	pdf.Ln(4)

	// Timeline table
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 8, "Detailed Event Timeline", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	drawTimelineHeader(pdf)
	setTimelineRowStyle(pdf)
	for i, ev := range tl.Events {
		// Header row repeats on every page of the table
		if pdf.GetY() > pdfPageBreakY {
			pdf.AddPage()
			drawTimelineHeader(pdf)
			setTimelineRowStyle(pdf)
		}

		fill := i%2 == 1
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(26, 7, ev.QuestionAlias, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(26, 7, fmt.Sprintf("%d", ev.Unit), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(40, 7, ev.Type, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(0, 7, formatTimestamp(ev.CreatedTime), "1", 1, "L", fill, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logrus.WithError(err).Error("Error generating PDF report")
		return pdfFallback(err)
	}

	return Artifact{Content: buf.Bytes()}
}

func drawTimelineHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(211, 211, 211) // Light gray
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(12, 8, "#", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 8, "Question", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 8, "Unit ID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Event Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Timestamp", "1", 1, "L", true, 0, "")
}

func setTimelineRowStyle(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetFillColor(248, 249, 250) // Light gray stripes
}

func pdfFallback(cause error) Artifact {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Error Generating Report", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(35, 55, "Error Generating Report")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(35, 63, fmt.Sprintf("An error occurred: %v", cause))

	// A static one-page document, Output cannot fail here
	var buf bytes.Buffer
	_ = pdf.Output(&buf)
	return Artifact{Content: buf.Bytes(), Fallback: true, Cause: cause}
}
