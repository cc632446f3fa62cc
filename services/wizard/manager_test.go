package wizard

import (
	"context"
	"testing"
	"time"

	"bikereg/models"
	"bikereg/services/registration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStoreRoundTripsNavigation(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	s := NewSession("abc")
	s.Stepper.MarkCompleted(StepSerialEntry, true)
	s.Stepper.Advance()
	s.Record.SerialNumber = "STN7736200"
	s.Errors = registration.FieldErrors{registration.FieldDateOfPurchase: "Invalid date"}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StepDetailConfirmation, got.Step())
	assert.Equal(t, []int{0}, got.Stepper.CompletedSteps())
	assert.Equal(t, "STN7736200", got.Record.SerialNumber)
	assert.Equal(t, "Invalid date", got.FieldError(registration.FieldDateOfPurchase))

	// Stored copies are independent of the caller's session.
	s.Stepper.Advance()
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StepDetailConfirmation, again.Step())
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("a")))
	require.NoError(t, store.Save(ctx, NewSession("b")))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, store.Sweep())
}

func TestManagerCreatesAndPersists(t *testing.T) {
	m := NewManager(NewMemorySessionStore(time.Hour))
	ctx := context.Background()

	s, err := m.Load(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, StepSerialEntry, s.Step())

	_, err = m.Update(ctx, "new", func(s *Session) error {
		s.Stepper.Advance()
		return ErrPurchaseDateRequired
	})
	assert.ErrorIs(t, err, ErrPurchaseDateRequired)

	s, err = m.Load(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, StepDetailConfirmation, s.Step())
}

func TestManagerDoesNotSaveOverBusySession(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	m := NewManager(store)
	ctx := context.Background()

	busy := NewSession("x")
	busy.Busy = true
	require.NoError(t, store.Save(ctx, busy))

	_, err := m.Update(ctx, "x", func(s *Session) error {
		s.Record.SerialNumber = "changed"
		return ErrBusy
	})
	assert.ErrorIs(t, err, ErrBusy)

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.True(t, got.Busy)
	assert.Empty(t, got.Record.SerialNumber)
}

func TestManagerDelete(t *testing.T) {
	m := NewManager(NewMemorySessionStore(time.Hour))
	ctx := context.Background()
	_, err := m.Load(ctx, "gone")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "gone"))
	s, err := m.Load(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, StepSerialEntry, s.Step())
}

// contextStore fails saves once the caller's context is done, like a
// network-backed store would.
type contextStore struct {
	*MemorySessionStore
}

func (s contextStore) Save(ctx context.Context, sess *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemorySessionStore.Save(ctx, sess)
}

// cancellingVerifier cancels the request context while the lookup is running.
type cancellingVerifier struct {
	cancel context.CancelFunc
}

func (v cancellingVerifier) VerifySerialNumber(context.Context, string) (*models.BikeDetails, error) {
	v.cancel()
	return &models.BikeDetails{SerialNumber: "STN7736200", ModelDescription: "ST3", ShopName: "Velo Bern"}, nil
}

func TestManagerClearsBusyAfterRequestCancelled(t *testing.T) {
	store := contextStore{NewMemorySessionStore(time.Hour)}
	m := NewManager(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewController(cancellingVerifier{cancel: cancel}, nil, zap.NewNop(), WithCheckpoint(m.Checkpoint))

	_, err := m.Update(ctx, "gone-away", func(s *Session) error {
		return c.VerifySerial(context.WithoutCancel(ctx), s, "STN7736200")
	})
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "gone-away")
	require.NoError(t, err)
	assert.False(t, got.Busy)
	assert.Equal(t, StepDetailConfirmation, got.Step())

	_, err = m.Update(context.Background(), "gone-away", func(s *Session) error {
		return c.Back(s)
	})
	assert.NoError(t, err)
}
