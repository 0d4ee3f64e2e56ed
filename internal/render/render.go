package render

import "time"

// Artifact is the outcome of rendering one student's report. Content always
// holds a well formed document of the requested format; when rendering fails
// the document describes the failure and Fallback is set along with Cause.
// Fallback artifacts are stored like any other report.
type Artifact struct {
	Content  []byte
	Fallback bool
	Cause    error
}

const timestampLayout = "2006-01-02 15:04:05"

// formatTimestamp converts an RFC 3339 event timestamp for display. Values
// that do not parse are shown as-is.
func formatTimestamp(ts string) string {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return parsed.Format(timestampLayout)
}
