package schedule

import (
	"fmt"

	"saludagenda/models"
)

// InvalidRangeError reports a candidate interval whose start is not strictly
// before its end.
type InvalidRangeError struct {
	Interval models.TimeInterval
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %q must be before end %q", e.Interval.Start, e.Interval.End)
}

// ConflictError reports that a candidate interval overlaps an already
// occupied one (a blocked slot or a booked appointment).
type ConflictError struct {
	Candidate models.TimeInterval
	Existing  models.TimeInterval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("range %s overlaps existing %s", e.Candidate, e.Existing)
}

// InvalidTransitionError reports a status change that is not reachable from
// the appointment's current status.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %q to %q", e.From, e.To)
}
