package modes

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"exoml/domain/core"
	"exoml/ports"
)

type recorder struct {
	mu     sync.Mutex
	events []ports.Notification
	ch     chan ports.Notification
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan ports.Notification, 16)}
}

func (r *recorder) Notify(n ports.Notification) {
	r.mu.Lock()
	r.events = append(r.events, n)
	r.mu.Unlock()
	r.ch <- n
}

func (r *recorder) waitFor(t *testing.T, eventType string) ports.Notification {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-r.ch:
			if n.EventType == eventType {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType
	}
	return out
}

func fastConfig() Config {
	return Config{
		TestDuration:    20 * time.Millisecond,
		RetrainDuration: 10 * time.Millisecond,
		RetrainCooldown: 10 * time.Millisecond,
	}
}

func TestSideFromClick(t *testing.T) {
	tests := []struct {
		x, width float64
		want     Side
		accuracy float64
	}{
		{10, 200, SideLeft, 96.4},
		{100, 200, SideLeft, 96.4},
		{100.5, 200, SideRight, 97.2},
		{199, 200, SideRight, 97.2},
	}
	for _, tt := range tests {
		side := SideFromClick(tt.x, tt.width)
		assert.Equal(t, tt.want, side)
		assert.Equal(t, tt.accuracy, side.Accuracy())
	}

	_, err := ParseSide("middle")
	assert.Error(t, err)
	assert.Equal(t, "97.2%", FormatAccuracy(AccuracyRight))
}

func TestTestModeRevertsAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	m := NewMachine(context.Background(), fastConfig(), core.NewSessionID(), rec)
	defer m.Close()

	require.NoError(t, m.StartTest(SideRight))
	st := m.Status()
	assert.Equal(t, ModeTesting, st.Mode)
	assert.True(t, st.ControlsLocked())
	assert.False(t, st.SubmitEnabled())

	assert.ErrorIs(t, m.StartTest(SideLeft), core.ErrTestInProgress)

	done := rec.waitFor(t, EventTestCompleted)
	assert.Equal(t, "Test Accuracy: 97.2%", done.Message)
	assert.Equal(t, ports.NotifySuccess, done.Kind)

	st = m.Status()
	assert.Equal(t, ModeExpert, st.Mode)
	assert.Equal(t, 97.2, st.LastAccuracy)
	assert.False(t, st.ControlsLocked())
	assert.True(t, st.SubmitEnabled())
}

func TestEnterExpertCancelsTest(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	cfg := fastConfig()
	cfg.TestDuration = time.Hour
	m := NewMachine(context.Background(), cfg, core.NewSessionID(), rec)
	defer m.Close()

	assert.False(t, m.EnterExpert(), "already expert")

	require.NoError(t, m.StartTest(SideLeft))
	assert.True(t, m.EnterExpert())

	st := m.Status()
	assert.Equal(t, ModeExpert, st.Mode)
	assert.Zero(t, st.LastAccuracy)
	assert.Equal(t, []string{EventTestStarted, EventTestCancelled}, rec.types())
}

func TestRetrainGuard(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder()
	m := NewMachine(context.Background(), fastConfig(), core.NewSessionID(), rec)
	defer m.Close()

	require.NoError(t, m.StartRetrain())
	assert.Equal(t, RetrainRunning, m.Status().Retrain)
	assert.False(t, m.Status().SubmitEnabled())
	assert.ErrorIs(t, m.StartRetrain(), core.ErrRetrainInProgress)

	rec.waitFor(t, EventRetrainCompleted)
	rec.waitFor(t, EventRetrainReady)
	assert.Equal(t, RetrainIdle, m.Status().Retrain)
	assert.NoError(t, m.StartRetrain())
}

func TestRetrainBlockedWhileTesting(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := fastConfig()
	cfg.TestDuration = time.Hour
	m := NewMachine(context.Background(), cfg, core.NewSessionID(), nil)
	defer m.Close()

	require.NoError(t, m.StartTest(SideLeft))
	assert.ErrorIs(t, m.StartRetrain(), core.ErrControlsLocked)
}

func TestSessionCancellationStopsTimers(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	rec := newRecorder()
	cfg := fastConfig()
	cfg.TestDuration = time.Hour
	cfg.RetrainDuration = time.Hour
	m := NewMachine(ctx, cfg, core.NewSessionID(), rec)

	require.NoError(t, m.StartRetrain())
	require.NoError(t, m.StartTest(SideRight))

	cancel()
	m.Close()

	assert.ErrorIs(t, m.StartTest(SideLeft), context.Canceled)
	assert.Equal(t, []string{EventRetrainStarted, EventTestStarted}, rec.types())
}
