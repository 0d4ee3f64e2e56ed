package render

import (
	"bytes"
	"html/template"
	"time"

	"report_handler/internal/report"
	"report_handler/internal/timeline"

	"github.com/sirupsen/logrus"
)

const htmlReportTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Student Report - {{.StudentID}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        h1 {
            color: #2c3e50;
            border-bottom: 2px solid #3498db;
            padding-bottom: 10px;
        }
        .info-box {
            background-color: #f8f9fa;
            border: 1px solid #dee2e6;
            border-radius: 5px;
            padding: 15px;
            margin-bottom: 20px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        table, th, td {
            border: 1px solid #dee2e6;
        }
        th {
            background-color: #f2f2f2;
            padding: 12px;
        }
        td {
            padding: 10px;
        }
        tr:nth-child(even) {
            background-color: #f8f9fa;
        }
        .footer {
            margin-top: 40px;
            font-size: 0.8em;
            text-align: center;
            color: #7f8c8d;
        }
    </style>
</head>
<body>
    <h1>Student Activity Report</h1>

    <div class="info-box">
        <h2>Student Information</h2>
        <p><strong>Student ID:</strong> {{.StudentID}}</p>
        <p><strong>Namespace:</strong> {{.Namespace}}</p>
        <p><strong>Number of Events:</strong> {{.EventCount}}</p>
    </div>

    <div class="info-box">
        <h2>Event Summary</h2>
        <p><strong>Event Order:</strong> {{.EventOrder}}</p>
    </div>

    <h2>Detailed Event Timeline</h2>
    <table>
        <thead>
            <tr>
                <th>#</th>
                <th>Question</th>
                <th>Unit ID</th>
                <th>Event Type</th>
                <th>Timestamp</th>
            </tr>
        </thead>
        <tbody>
{{- range .Rows}}
            <tr>
                <td>{{.Index}}</td>
                <td>{{.Alias}}</td>
                <td>{{.Unit}}</td>
                <td>{{.Type}}</td>
                <td>{{.Timestamp}}</td>
            </tr>
{{- end}}
        </tbody>
    </table>

    <div class="footer">
        <p>Report generated on {{.GeneratedAt}}</p>
    </div>
</body>
</html>
`

const htmlFallbackTemplate = `<html><head><title>Error Report</title></head>
<body>
<h1>Error Generating Report</h1>
<p>{{.}}</p>
</body></html>
`

var (
	htmlTmpl         = template.Must(template.New("report").Parse(htmlReportTemplate))
	htmlFallbackTmpl = template.Must(template.New("fallback").Parse(htmlFallbackTemplate))
)

type htmlEventRow struct {
	Index     int
	Alias     string
	Unit      int
	Type      string
	Timestamp string
}

type htmlReportData struct {
	StudentID   string
	Namespace   string
	EventCount  int
	EventOrder  string
	Rows        []htmlEventRow
	GeneratedAt string
}

// HTML renders the student activity report as a styled HTML document. It
// never fails: any error yields a minimal error page flagged as a fallback.
func HTML(student report.Student, eventOrder string) Artifact {
	tl, err := timeline.Normalize(student.Events)
	if err != nil {
		logrus.WithError(err).Error("Error generating HTML report")
		return htmlFallback(err)
	}

	rows := make([]htmlEventRow, 0, len(tl.Events))
	for i, ev := range tl.Events {
		rows = append(rows, htmlEventRow{
			Index:     i + 1,
			Alias:     ev.QuestionAlias,
			Unit:      ev.Unit,
			Type:      ev.Type,
			Timestamp: formatTimestamp(ev.CreatedTime),
		})
	}

	var buf bytes.Buffer
	err = htmlTmpl.Execute(&buf, htmlReportData{
		StudentID:   student.StudentID,
		Namespace:   student.Namespace,
		EventCount:  len(student.Events),
		EventOrder:  eventOrder,
		Rows:        rows,
		GeneratedAt: time.Now().Format(timestampLayout),
	})
	if err != nil {
		logrus.WithError(err).Error("Error generating HTML report")
		return htmlFallback(err)
	}

	return Artifact{Content: buf.Bytes()}
}

func htmlFallback(cause error) Artifact {
	var buf bytes.Buffer
	if err := htmlFallbackTmpl.Execute(&buf, cause.Error()); err != nil {
		// Static template with a string payload, this cannot happen
		buf.Reset()
		buf.WriteString("<html><body><h1>Error Generating Report</h1></body></html>")
	}
	return Artifact{Content: buf.Bytes(), Fallback: true, Cause: cause}
}
