package modes

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"exoml/domain/core"
	"exoml/ports"
)

// Mode is the interaction mode of a viewer session
type Mode string

const (
	ModeExpert  Mode = "expert"
	ModeTesting Mode = "testing"
)

// Side is the half of the test button that was pressed
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Fixed accuracies reported at the end of a test run
const (
	AccuracyLeft  = 96.4
	AccuracyRight = 97.2
)

// SideFromClick resolves a click at x on a control of the given width.
// Clicks exactly on the midpoint count as left.
func SideFromClick(x, width float64) Side {
	if x > width/2 {
		return SideRight
	}
	return SideLeft
}

// ParseSide accepts "left" or "right"
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Accuracy is the fixed result announced for this side
func (s Side) Accuracy() float64 {
	if s == SideRight {
		return AccuracyRight
	}
	return AccuracyLeft
}

// RetrainPhase tracks the submit button through a retrain cycle
type RetrainPhase string

const (
	RetrainIdle       RetrainPhase = "idle"
	RetrainRunning    RetrainPhase = "retraining"
	RetrainCompleting RetrainPhase = "retrained"
)

// Notification event types
const (
	EventTestStarted      = "test_started"
	EventTestCompleted    = "test_completed"
	EventTestCancelled    = "test_cancelled"
	EventRetrainStarted   = "retrain_started"
	EventRetrainCompleted = "retrain_completed"
	EventRetrainReady     = "retrain_ready"
)

// Status is a snapshot of the machine
type Status struct {
	Mode         Mode         `json:"mode"`
	Side         Side         `json:"side,omitempty"`
	TestEndsAt   time.Time    `json:"-"`
	LastAccuracy float64      `json:"last_accuracy,omitempty"`
	Retrain      RetrainPhase `json:"retrain"`
}

// ControlsLocked reports whether sliders are disabled
func (s Status) ControlsLocked() bool { return s.Mode == ModeTesting }

// SubmitEnabled reports whether corrections can be submitted
func (s Status) SubmitEnabled() bool {
	return s.Mode != ModeTesting && s.Retrain == RetrainIdle
}

// Config holds the timer durations
type Config struct {
	TestDuration    time.Duration
	RetrainDuration time.Duration
	RetrainCooldown time.Duration
}

// DefaultConfig returns the standard delays
func DefaultConfig() Config {
	return Config{
		TestDuration:    25 * time.Second,
		RetrainDuration: 2 * time.Second,
		RetrainCooldown: 1500 * time.Millisecond,
	}
}

// Machine runs the timed test and retrain actions for one session. Every
// pending timer is bound to a context derived from the session context, so
// closing the session stops them before they can fire.
type Machine struct {
	mu        sync.Mutex
	ctx       context.Context
	cfg       Config
	sessionID core.SessionID
	notifier  ports.Notifier

	status        Status
	testCancel    context.CancelFunc
	testGen       uint64
	retrainCancel context.CancelFunc

	wg sync.WaitGroup
}

// NewMachine creates a machine in expert mode. A nil notifier discards events.
func NewMachine(ctx context.Context, cfg Config, sessionID core.SessionID, notifier ports.Notifier) *Machine {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(ports.Notification) {})
	}
	return &Machine{
		ctx:       ctx,
		cfg:       cfg,
		sessionID: sessionID,
		notifier:  notifier,
		status:    Status{Mode: ModeExpert, Retrain: RetrainIdle},
	}
}

// Status returns the current snapshot
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// StartTest enters testing mode. After the test duration the machine returns
// to expert mode and announces the accuracy for side.
func (m *Machine) StartTest(side Side) error {
	m.mu.Lock()
	if err := m.ctx.Err(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.status.Mode == ModeTesting {
		m.mu.Unlock()
		return core.ErrTestInProgress
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.testGen++
	gen := m.testGen
	m.testCancel = cancel
	m.status.Mode = ModeTesting
	m.status.Side = side
	m.status.TestEndsAt = time.Now().Add(m.cfg.TestDuration)

	m.wg.Add(1)
	go m.runTest(ctx, gen, side)
	m.mu.Unlock()

	log.Printf("[Modes] Session %s testing (%s side) for %s", m.sessionID, side, m.cfg.TestDuration)
	m.notify(EventTestStarted, ports.NotifyInfo, "Testing ML Model on Dataset...", map[string]interface{}{
		"mode": string(ModeTesting),
		"side": string(side),
	})
	return nil
}

func (m *Machine) runTest(ctx context.Context, gen uint64, side Side) {
	defer m.wg.Done()

	timer := time.NewTimer(m.cfg.TestDuration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	m.mu.Lock()
	if m.testGen != gen || m.status.Mode != ModeTesting {
		m.mu.Unlock()
		return
	}
	accuracy := side.Accuracy()
	m.status.Mode = ModeExpert
	m.status.LastAccuracy = accuracy
	m.status.TestEndsAt = time.Time{}
	m.testCancel = nil
	m.mu.Unlock()

	log.Printf("[Modes] Session %s test finished: %.1f%%", m.sessionID, accuracy)
	m.notify(EventTestCompleted, ports.NotifySuccess, "Test Accuracy: "+FormatAccuracy(accuracy), map[string]interface{}{
		"mode":     string(ModeExpert),
		"accuracy": accuracy,
	})
}

// EnterExpert switches to expert mode. A running test is cancelled without
// reporting an accuracy. It reports whether a test was interrupted.
func (m *Machine) EnterExpert() bool {
	m.mu.Lock()
	if m.status.Mode != ModeTesting {
		m.mu.Unlock()
		return false
	}
	if m.testCancel != nil {
		m.testCancel()
		m.testCancel = nil
	}
	m.status.Mode = ModeExpert
	m.status.TestEndsAt = time.Time{}
	m.mu.Unlock()

	log.Printf("[Modes] Session %s test cancelled", m.sessionID)
	m.notify(EventTestCancelled, ports.NotifyInfo, "Switched to Expert Mode", map[string]interface{}{
		"mode": string(ModeExpert),
	})
	return true
}

// StartRetrain begins a retrain cycle: RetrainDuration of work, then a
// cooldown during which the submit control shows the result.
func (m *Machine) StartRetrain() error {
	m.mu.Lock()
	if err := m.ctx.Err(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.status.Mode == ModeTesting {
		m.mu.Unlock()
		return core.ErrControlsLocked
	}
	if m.status.Retrain != RetrainIdle {
		m.mu.Unlock()
		return core.ErrRetrainInProgress
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.retrainCancel = cancel
	m.status.Retrain = RetrainRunning

	m.wg.Add(1)
	go m.runRetrain(ctx)
	m.mu.Unlock()

	log.Printf("[Modes] Session %s retraining", m.sessionID)
	m.notify(EventRetrainStarted, ports.NotifyInfo, "Retraining Model...", nil)
	return nil
}

func (m *Machine) runRetrain(ctx context.Context) {
	defer m.wg.Done()

	if !sleep(ctx, m.cfg.RetrainDuration) {
		return
	}
	m.setRetrain(RetrainCompleting)
	m.notify(EventRetrainCompleted, ports.NotifySuccess, "Model retrained successfully!", nil)

	if !sleep(ctx, m.cfg.RetrainCooldown) {
		return
	}
	m.mu.Lock()
	m.status.Retrain = RetrainIdle
	m.retrainCancel = nil
	m.mu.Unlock()
	m.notify(EventRetrainReady, ports.NotifyInfo, "", nil)
}

func (m *Machine) setRetrain(phase RetrainPhase) {
	m.mu.Lock()
	m.status.Retrain = phase
	m.mu.Unlock()
}

// Close cancels pending timers and waits for their goroutines to exit
func (m *Machine) Close() {
	m.mu.Lock()
	if m.testCancel != nil {
		m.testCancel()
		m.testCancel = nil
	}
	if m.retrainCancel != nil {
		m.retrainCancel()
		m.retrainCancel = nil
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Machine) notify(eventType, kind, message string, data map[string]interface{}) {
	m.notifier.Notify(ports.Notification{
		SessionID: m.sessionID,
		EventType: eventType,
		Kind:      kind,
		Message:   message,
		Data:      data,
		Timestamp: core.Now(),
	})
}

// FormatAccuracy renders an accuracy the way the result toast shows it ("97.2%")
func FormatAccuracy(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
