package viewer

import (
	"log"
	"sync"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal/modes"
	"exoml/ports"
)

// ModeSource reports the current interaction mode
type ModeSource interface {
	Status() modes.Status
}

type expertOnly struct{}

func (expertOnly) Status() modes.Status {
	return modes.Status{Mode: modes.ModeExpert, Retrain: modes.RetrainIdle}
}

// Controller owns one session's view state. Methods are safe for concurrent
// use; sentinel errors from domain/core signal the silent no-op cases.
type Controller struct {
	mu      sync.Mutex
	catalog ports.SampleCatalog
	modes   ModeSource

	index    int
	current  sample.Sample
	criteria sample.Criteria
	tab      sample.Criterion
}

// NewController starts on the first sample with the transit tab active.
// A nil mode source means the controls are never locked.
func NewController(catalog ports.SampleCatalog, modeSource ModeSource) (*Controller, error) {
	if catalog.Len() == 0 {
		return nil, core.ErrEmptyCatalog
	}
	if modeSource == nil {
		modeSource = expertOnly{}
	}
	c := &Controller{catalog: catalog, modes: modeSource, tab: sample.TransitSignal}
	if err := c.load(0); err != nil {
		return nil, err
	}
	return c, nil
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// View renders the current state
func (c *Controller) View() View {
	return Render(c.State())
}

func (c *Controller) stateLocked() State {
	return State{
		Index:    c.index,
		Total:    c.catalog.Len(),
		Sample:   c.current,
		Criteria: c.criteria,
		Tab:      c.tab,
		Mode:     c.modes.Status(),
	}
}

// SelectSample loads the sample at index and resets the working criteria
func (c *Controller) SelectSample(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(index)
}

// Next moves forward one sample; at the last sample it is a no-op
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(c.index + 1)
}

// Previous moves back one sample; at the first sample it is a no-op
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(c.index - 1)
}

func (c *Controller) load(index int) error {
	smp, err := c.catalog.At(index)
	if err != nil {
		return err
	}
	c.index = index
	c.current = smp
	c.criteria = smp.Criteria
	log.Printf("[Viewer] Loaded sample %s (%d/%d)", smp.ID, index+1, c.catalog.Len())
	return nil
}

// SetCriterion sets one working criterion, clamped to [0,100]. It is
// ignored while the controls are locked.
func (c *Controller) SetCriterion(key string, value int) error {
	crit, err := sample.ParseCriterion(key)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modes.Status().ControlsLocked() {
		return core.ErrControlsLocked
	}
	c.criteria = c.criteria.With(crit, value)
	return nil
}

// ResetCriteria restores the current sample's stored criteria
func (c *Controller) ResetCriteria() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = c.current.Criteria
}

// SwitchTab activates a diagnostic tab by slug
func (c *Controller) SwitchTab(name string) error {
	crit, err := sample.ParseCriterion(name)
	if err != nil {
		return core.ErrUnknownTab
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = crit
	return nil
}
