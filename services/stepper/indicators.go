package stepper

import "strconv"

// IndicatorState is how a progress indicator is drawn.
type IndicatorState string

const (
	IndicatorActive    IndicatorState = "active"
	IndicatorCompleted IndicatorState = "completed"
	IndicatorPending   IndicatorState = "pending"
)

// Indicator is the read-only view of one step in the progress bar.
type Indicator struct {
	Index int
	Label string
	// Badge is a check mark for completed steps, the 1-based number otherwise.
	Badge string
	State IndicatorState
	// Connector is set on every indicator but the last; ConnectorDone colours it.
	Connector     bool
	ConnectorDone bool
	// Clickable mirrors the accessibility flag of the indicator buttons.
	Clickable bool
}

// Indicators renders the stepper into one Indicator per label. The active
// step wins over the completed state.
func Indicators(s *Stepper, labels []string, accessible bool) ([]Indicator, error) {
	if s == nil {
		return nil, ErrOutsideProvider
	}

	out := make([]Indicator, 0, len(labels))
	for i, label := range labels {
		ind := Indicator{
			Index:     i,
			Label:     label,
			Badge:     strconv.Itoa(i + 1),
			State:     IndicatorPending,
			Connector: i < len(labels)-1,
			Clickable: accessible,
		}
		done := s.IsCompleted(i)
		if done {
			ind.Badge = "✓"
		}
		switch {
		case s.Current() == i:
			ind.State = IndicatorActive
		case done:
			ind.State = IndicatorCompleted
		}
		ind.ConnectorDone = ind.Connector && done
		out = append(out, ind)
	}
	return out, nil
}
