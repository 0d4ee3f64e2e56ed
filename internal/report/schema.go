package report

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed student_batch_schema.json
var studentBatchSchema []byte

var batchSchema = mustCompileBatchSchema()

func mustCompileBatchSchema() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(studentBatchSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid student batch schema: %v", err))
	}
	return schema
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field schema violations for a submitted batch.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, fmt.Sprintf("%s: %s", d.Field, d.Message))
	}
	return "invalid student data: " + strings.Join(msgs, "; ")
}

// ValidateBatch checks a raw submission body against the batch schema. It is
// called at the gateway before a task is created and again by the worker
// before generation starts.
func ValidateBatch(body []byte) error {
	result, err := batchSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		// Body is not parseable JSON at all
		return &ValidationError{Details: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	if result.Valid() {
		return nil
	}

	details := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	return &ValidationError{Details: details}
}
