package timeline

import (
	"fmt"
	"sort"
	"strings"

	"report_handler/internal/report"
)

// ProcessingError means a student's event data was malformed in a way the
// normalizer cannot handle. It counts as a failed report for that student.
type ProcessingError struct {
	Cause error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("failed to process student events: %v", e.Cause)
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

type AliasedEvent struct {
	report.Event
	QuestionAlias string
}

// Timeline is the normalized view of one student's event history. Aliases
// maps each distinct unit ID to its question alias; Order is the visit
// sequence joined with " -> ", e.g. "Q1 -> Q2 -> Q1".
type Timeline struct {
	Aliases map[int]string
	Order   string
	Events  []AliasedEvent
}

// Normalize assigns question aliases Q1..Qn to the distinct unit IDs in
// ascending order and rewrites the events with their aliases. The same event
// list always yields the same timeline.
func Normalize(events []report.Event) (*Timeline, error) {
	units := make([]int, 0, len(events))
	seen := make(map[int]bool, len(events))
	for _, ev := range events {
		if ev.Unit < 0 {
			return nil, &ProcessingError{Cause: fmt.Errorf("negative unit ID %d", ev.Unit)}
		}
		if !seen[ev.Unit] {
			seen[ev.Unit] = true
			units = append(units, ev.Unit)
		}
	}
	sort.Ints(units)

	aliases := make(map[int]string, len(units))
	for i, unit := range units {
		aliases[unit] = fmt.Sprintf("Q%d", i+1)
	}

	order := make([]string, 0, len(events))
	aliased := make([]AliasedEvent, 0, len(events))
	for _, ev := range events {
		alias := aliases[ev.Unit]
		aliased = append(aliased, AliasedEvent{Event: ev, QuestionAlias: alias})
		order = append(order, alias)
	}

	return &Timeline{
		Aliases: aliases,
		Order:   strings.Join(order, " -> "),
		Events:  aliased,
	}, nil
}
