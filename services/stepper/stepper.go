// Package stepper holds the navigation state of a multi-step wizard: the
// ordered steps, the active index and the set of completed indices.
package stepper

import (
	"encoding/json"
	"errors"
	"sort"
)

// ErrOutsideProvider is returned when a step is rendered or navigated without a stepper.
var ErrOutsideProvider = errors.New("stepper: used outside provider")

// Step is one entry of the ordered step list.
type Step struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// Stepper is the wizard's navigation state. The zero value has no steps;
// use New to configure the step list once at construction.
//
// currentStep always satisfies 0 <= currentStep < len(steps) once at least
// one step exists.
type Stepper struct {
	steps     []Step
	current   int
	completed map[int]struct{}
}

// New returns a stepper with one step per label, positioned on defaultStep.
// An out-of-range defaultStep falls back to 0.
func New(defaultStep int, labels ...string) *Stepper {
	s := &Stepper{completed: make(map[int]struct{})}
	for _, label := range labels {
		s.steps = append(s.steps, Step{Label: label})
	}
	if defaultStep >= 0 && defaultStep < len(s.steps) {
		s.current = defaultStep
	}
	return s
}

// Current returns the active step index.
func (s *Stepper) Current() int { return s.current }

// Len returns the number of registered steps.
func (s *Stepper) Len() int { return len(s.steps) }

// Steps returns a copy of the step list.
func (s *Stepper) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// IsLast reports whether the active step is the final one.
func (s *Stepper) IsLast() bool { return s.current == len(s.steps)-1 }

// Advance moves to the next step; no-op at the last step.
func (s *Stepper) Advance() {
	if s.current+1 < len(s.steps) {
		s.current++
	}
}

// Retreat moves to the previous step; no-op at the first step.
func (s *Stepper) Retreat() {
	if s.current > 0 {
		s.current--
	}
}

// JumpTo activates index when it is a valid step and reports whether it moved.
func (s *Stepper) JumpTo(index int) bool {
	if index < 0 || index >= len(s.steps) {
		return false
	}
	s.current = index
	return true
}

// MarkCompleted adds or removes index from the completed set. Indices
// outside the step list are ignored.
func (s *Stepper) MarkCompleted(index int, completed bool) {
	if index < 0 || index >= len(s.steps) {
		return
	}
	if s.completed == nil {
		s.completed = make(map[int]struct{})
	}
	if completed {
		s.completed[index] = struct{}{}
	} else {
		delete(s.completed, index)
	}
	s.steps[index].Completed = completed
}

// IsCompleted reports whether index is in the completed set.
func (s *Stepper) IsCompleted(index int) bool {
	_, ok := s.completed[index]
	return ok
}

// CompletedSteps returns the completed indices in ascending order.
func (s *Stepper) CompletedSteps() []int {
	out := make([]int, 0, len(s.completed))
	for i := range s.completed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// RegisterStep makes sure the list holds at least index+1 steps, padding
// with fresh entries. Existing entries are never reset and the list never shrinks.
func (s *Stepper) RegisterStep(index int) {
	for len(s.steps) <= index {
		s.steps = append(s.steps, Step{})
	}
}

type snapshot struct {
	Steps          []Step `json:"steps"`
	CurrentStep    int    `json:"currentStep"`
	CompletedSteps []int  `json:"completedSteps"`
}

func (s *Stepper) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Steps:          s.Steps(),
		CurrentStep:    s.current,
		CompletedSteps: s.CompletedSteps(),
	})
}

func (s *Stepper) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.steps = snap.Steps
	s.completed = make(map[int]struct{}, len(snap.CompletedSteps))
	for _, i := range snap.CompletedSteps {
		if i >= 0 && i < len(s.steps) {
			s.completed[i] = struct{}{}
		}
	}
	for i := range s.steps {
		s.steps[i].Completed = s.IsCompleted(i)
	}
	s.current = 0
	if snap.CurrentStep >= 0 && snap.CurrentStep < len(s.steps) {
		s.current = snap.CurrentStep
	}
	return nil
}
