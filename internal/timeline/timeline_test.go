package timeline

import (
	"testing"

	"report_handler/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AliasesFollowAscendingUnitOrder(t *testing.T) {
	// First event touches the higher unit, so the alias assignment must not
	// follow arrival order
	events := []report.Event{
		{Type: "saved_code", CreatedTime: "2024-07-21T03:04:55Z", Unit: 5},
		{Type: "submission", CreatedTime: "2024-07-21T03:10:12Z", Unit: 3},
	}

	tl, err := Normalize(events)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{3: "Q1", 5: "Q2"}, tl.Aliases)
	assert.Equal(t, "Q2 -> Q1", tl.Order)
}

func TestNormalize_RepeatedUnitsShareOneAlias(t *testing.T) {
	events := []report.Event{
		{Type: "saved_code", CreatedTime: "2024-07-21T03:00:00Z", Unit: 17},
		{Type: "saved_code", CreatedTime: "2024-07-21T03:05:00Z", Unit: 23},
		{Type: "submission", CreatedTime: "2024-07-21T03:10:00Z", Unit: 17},
	}

	tl, err := Normalize(events)
	require.NoError(t, err)

	assert.Len(t, tl.Aliases, 2)
	assert.Equal(t, "Q1", tl.Aliases[17])
	assert.Equal(t, "Q2", tl.Aliases[23])
	assert.Equal(t, "Q1 -> Q2 -> Q1", tl.Order)

	require.Len(t, tl.Events, 3)
	assert.Equal(t, "Q1", tl.Events[0].QuestionAlias)
	assert.Equal(t, "Q2", tl.Events[1].QuestionAlias)
	assert.Equal(t, "Q1", tl.Events[2].QuestionAlias)
}

func TestNormalize_EventsKeepTheirOriginalFields(t *testing.T) {
	events := []report.Event{
		{Type: "submission", CreatedTime: "2024-07-21T03:04:55.939000+00:00", Unit: 42},
	}

	tl, err := Normalize(events)
	require.NoError(t, err)

	require.Len(t, tl.Events, 1)
	assert.Equal(t, "submission", tl.Events[0].Type)
	assert.Equal(t, "2024-07-21T03:04:55.939000+00:00", tl.Events[0].CreatedTime)
	assert.Equal(t, 42, tl.Events[0].Unit)
}

func TestNormalize_Deterministic(t *testing.T) {
	events := []report.Event{
		{Type: "saved_code", CreatedTime: "2024-07-21T03:00:00Z", Unit: 9},
		{Type: "saved_code", CreatedTime: "2024-07-21T03:01:00Z", Unit: 1},
		{Type: "submission", CreatedTime: "2024-07-21T03:02:00Z", Unit: 4},
	}

	first, err := Normalize(events)
	require.NoError(t, err)
	second, err := Normalize(events)
	require.NoError(t, err)

	assert.Equal(t, first.Aliases, second.Aliases)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, "Q3 -> Q1 -> Q2", first.Order)
}

func TestNormalize_EmptyEvents(t *testing.T) {
	tl, err := Normalize(nil)
	require.NoError(t, err)

	assert.Empty(t, tl.Aliases)
	assert.Equal(t, "", tl.Order)
	assert.Empty(t, tl.Events)
}

func TestNormalize_NegativeUnitIsProcessingError(t *testing.T) {
	events := []report.Event{
		{Type: "saved_code", CreatedTime: "2024-07-21T03:00:00Z", Unit: -1},
	}

	tl, err := Normalize(events)
	require.Error(t, err)
	assert.Nil(t, tl)

	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "failed to process student events")
}
