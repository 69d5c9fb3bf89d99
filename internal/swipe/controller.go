// Package swipe implements the swipe-to-delete interaction of a single list row.
//
// A row starts Idle. Dragging it to the left reveals a delete affordance behind it; letting go
// beyond half of the affordance's width keeps the row Revealed, otherwise it snaps back to Idle.
// Tapping the revealed affordance collapses the row and only then asks for it to be deleted.
package swipe

import (
	"sync"
	"time"
)

// Phase is the state of a row's swipe state machine.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Revealed
	Committing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Revealed:
		return "revealed"
	case Committing:
		return "committing"
	}
	return "unknown"
}

const (
	// RevealWidth is the width of the delete affordance and the largest leftward offset.
	RevealWidth = 100.0

	// ReleaseThreshold is the displacement a drag must pass, strictly, to stay revealed.
	ReleaseThreshold = -RevealWidth / 2

	// ClaimDistance is how far a finger must move horizontally before the row takes the gesture,
	// so that taps and vertical scrolling still reach the list.
	ClaimDistance = 5.0

	// RowHeight is the height of a row at rest.
	RowHeight = 80.0

	// DefaultDeleteDuration is how long the row takes to collapse and fade out.
	DefaultDeleteDuration = 200 * time.Millisecond
)

// Action is what a tap on a row resolved to.
type Action int

const (
	NoAction Action = iota
	EditAction
	DeleteAction
)

// State is a snapshot of the animated values of a row.
type State struct {
	Phase         Phase
	Offset        float64
	Height        float64
	Opacity       float64
	DeleteOpacity float64
}

// Callbacks connect a row to the contact it shows.
type Callbacks struct {
	// Edit is called when the row body is tapped.
	Edit func()
	// Delete is called once, after the exit animation of a committed row has finished.
	Delete func()
}

// Controller is the swipe state machine of one row. It is safe for concurrent use. The callbacks
// are invoked without the controller's lock held, so they may call back into the controller.
type Controller struct {
	mu        sync.Mutex
	callbacks Callbacks
	scheduler Scheduler
	duration  time.Duration

	phase   Phase
	offset  float64
	claimed bool

	// exit animation
	started time.Time
	running int
	done    bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithScheduler replaces the real time scheduler used for the exit animation.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithDeleteDuration sets the length of the exit animation.
func WithDeleteDuration(d time.Duration) Option {
	return func(c *Controller) { c.duration = d }
}

// NewController creates an Idle row.
func NewController(callbacks Callbacks, opts ...Option) *Controller {
	c := &Controller{
		callbacks: callbacks,
		scheduler: RealTime(),
		duration:  DefaultDeleteDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Done reports whether the exit animation has finished and the delete callback was invoked.
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Drag processes a move frame with the horizontal displacement dx since the finger went down. It
// reports whether the row has claimed the gesture. Until the displacement exceeds ClaimDistance the
// frame is left to the list, and nothing changes.
func (c *Controller) Drag(dx float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Committing {
		return false
	}
	if !c.claimed {
		if abs(dx) <= ClaimDistance {
			return false
		}
		c.claimed = true
	}
	c.phase = Dragging
	if dx < 0 {
		c.offset = max(dx, -RevealWidth)
	} else {
		c.offset = 0
	}
	return true
}

// Release ends a gesture with the final displacement dx. A claimed drag that ends below
// ReleaseThreshold snaps open to Revealed, any other claimed drag snaps back to Idle. Releasing a
// gesture the row never claimed leaves it as it was.
func (c *Controller) Release(dx float64) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Committing || !c.claimed {
		return c.phase
	}
	c.claimed = false
	if dx < ReleaseThreshold {
		c.phase = Revealed
		c.offset = -RevealWidth
	} else {
		c.phase = Idle
		c.offset = 0
	}
	return c.phase
}

// Cancel ends a gesture that was terminated without a release, for example because the list
// took over the touch. A claimed drag snaps back to Idle and the next gesture has to pass
// ClaimDistance again.
func (c *Controller) Cancel() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Committing || !c.claimed {
		return c.phase
	}
	c.claimed = false
	c.phase = Idle
	c.offset = 0
	return c.phase
}

// Tap processes a tap at horizontal position x on a row of the given width. On a Revealed row a
// tap within the RevealWidth at the right edge hits the delete affordance and commits the row;
// anywhere else it opens the contact for editing.
func (c *Controller) Tap(x float64, width float64) Action {
	c.mu.Lock()
	switch c.phase {
	case Revealed:
		if width > 0 && x >= width-RevealWidth && x <= width {
			c.commit()
			c.mu.Unlock()
			return DeleteAction
		}
	case Idle:
	default:
		c.mu.Unlock()
		return NoAction
	}
	c.mu.Unlock()
	if c.callbacks.Edit != nil {
		c.callbacks.Edit()
	}
	return EditAction
}

// Commit starts the exit animation of a Revealed row: height and opacity both run to zero over
// the delete duration, and once both have finished the Delete callback is invoked. It reports
// whether the commit started.
func (c *Controller) Commit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit()
}

// commit starts the exit animation. The caller must hold the lock, which also keeps completions
// that are due immediately from running before the animation state is set up.
func (c *Controller) commit() bool {
	if c.phase != Revealed {
		return false
	}
	c.phase = Committing
	c.started = c.scheduler.Now()
	c.running = 2
	c.scheduler.AfterFunc(c.duration, c.finishAnimation)
	c.scheduler.AfterFunc(c.duration, c.finishAnimation)
	return true
}

func (c *Controller) finishAnimation() {
	c.mu.Lock()
	c.running--
	if c.running > 0 || c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()
	if c.callbacks.Delete != nil {
		c.callbacks.Delete()
	}
}

// State returns the animated values of the row at the scheduler's current time.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Phase:         c.phase,
		Offset:        c.offset,
		Height:        RowHeight,
		Opacity:       1,
		DeleteOpacity: clamp(-c.offset/RevealWidth, 0, 1),
	}
	if c.phase == Committing {
		remaining := 0.0
		if !c.done && c.duration > 0 {
			elapsed := c.scheduler.Now().Sub(c.started)
			remaining = clamp(1-float64(elapsed)/float64(c.duration), 0, 1)
		}
		s.Height = RowHeight * remaining
		s.Opacity = remaining
	}
	return s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v float64, lo float64, hi float64) float64 {
	return min(max(v, lo), hi)
}
