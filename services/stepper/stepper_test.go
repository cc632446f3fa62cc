package stepper

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var labels = []string{"Serial number", "Bike information", "Personal information", "Registration confirmation"}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		defaultStep int
		want        int
	}{
		{name: "first step", defaultStep: 0, want: 0},
		{name: "middle step", defaultStep: 2, want: 2},
		{name: "negative falls back", defaultStep: -1, want: 0},
		{name: "past end falls back", defaultStep: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.defaultStep, labels...)
			assert.Equal(t, tt.want, s.Current())
			assert.Equal(t, 4, s.Len())
			assert.Empty(t, s.CompletedSteps())
		})
	}
}

func TestAdvanceStopsAtLastStep(t *testing.T) {
	s := New(0, labels...)
	for i := 0; i < 3; i++ {
		s.Advance()
	}
	require.Equal(t, 3, s.Current())
	assert.True(t, s.IsLast())

	s.Advance()
	assert.Equal(t, 3, s.Current())
}

func TestRetreatStopsAtFirstStep(t *testing.T) {
	s := New(1, labels...)
	s.Retreat()
	assert.Equal(t, 0, s.Current())
	s.Retreat()
	assert.Equal(t, 0, s.Current())
}

func TestNavigationStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New(0, labels...)
	for i := 0; i < 1000; i++ {
		if rng.Intn(2) == 0 {
			s.Advance()
		} else {
			s.Retreat()
		}
		require.GreaterOrEqual(t, s.Current(), 0)
		require.Less(t, s.Current(), s.Len())
	}
}

func TestNavigationWithoutSteps(t *testing.T) {
	s := New(0)
	s.Advance()
	s.Retreat()
	assert.Equal(t, 0, s.Current())
	assert.False(t, s.JumpTo(0))
}

func TestJumpTo(t *testing.T) {
	s := New(0, labels...)

	assert.True(t, s.JumpTo(2))
	assert.Equal(t, 2, s.Current())

	assert.False(t, s.JumpTo(-1))
	assert.False(t, s.JumpTo(4))
	assert.Equal(t, 2, s.Current())
}

func TestMarkCompleted(t *testing.T) {
	t.Run("true then false removes", func(t *testing.T) {
		s := New(0, labels...)
		s.MarkCompleted(1, true)
		s.MarkCompleted(1, false)
		assert.False(t, s.IsCompleted(1))
		assert.False(t, s.Steps()[1].Completed)
	})

	t.Run("false then true keeps", func(t *testing.T) {
		s := New(0, labels...)
		s.MarkCompleted(1, false)
		s.MarkCompleted(1, true)
		assert.True(t, s.IsCompleted(1))
		assert.True(t, s.Steps()[1].Completed)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := New(0, labels...)
		s.MarkCompleted(0, true)
		s.MarkCompleted(0, true)
		assert.Equal(t, []int{0}, s.CompletedSteps())
	})
}

func TestRegisterStepNeverShrinks(t *testing.T) {
	var s Stepper
	s.RegisterStep(2)
	require.Equal(t, 3, s.Len())

	s.MarkCompleted(1, true)
	s.RegisterStep(0)
	s.RegisterStep(2)
	s.RegisterStep(1)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Steps()[1].Completed)

	s.RegisterStep(4)
	assert.Equal(t, 5, s.Len())
	assert.True(t, s.Steps()[1].Completed)
	assert.False(t, s.Steps()[4].Completed)
}

func TestMarkCompletedIgnoresUnknownSteps(t *testing.T) {
	s := New(0, labels...)
	s.MarkCompleted(7, true)
	s.MarkCompleted(-1, true)
	assert.Empty(t, s.CompletedSteps())

	s.RegisterStep(7)
	require.Equal(t, 8, s.Len())
	assert.False(t, s.Steps()[7].Completed)
	assert.False(t, s.IsCompleted(7))
}

func TestUnmarshalDropsUnknownCompletedSteps(t *testing.T) {
	var s Stepper
	require.NoError(t, json.Unmarshal([]byte(`{"steps":[{},{}],"currentStep":1,"completedSteps":[0,5,-1]}`), &s))
	assert.Equal(t, []int{0}, s.CompletedSteps())
}

func TestJSONRoundTrip(t *testing.T) {
	s := New(0, labels...)
	s.MarkCompleted(0, true)
	s.Advance()

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Stepper
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, 1, restored.Current())
	assert.Equal(t, []int{0}, restored.CompletedSteps())
	assert.Equal(t, s.Steps(), restored.Steps())
}

func TestUnmarshalClampsCurrentStep(t *testing.T) {
	var s Stepper
	require.NoError(t, json.Unmarshal([]byte(`{"steps":[{},{}],"currentStep":7,"completedSteps":[]}`), &s))
	assert.Equal(t, 0, s.Current())
}
