package sim

import (
	"math"
	"time"
)

// dateFormat renders calendar dates the way every emitted command carries them.
const dateFormat = "2006-01-02"

// Clock tracks the simulation calendar and the dynamic close-probability
// process. Day 0 is the configured start date. The clock advances
// monotonically; it is owned by one Scheduler for the lifetime of a run.
type Clock struct {
	Day    int
	IsOpen bool

	start time.Time

	closeProb     float64
	initCloseProb float64
	closeProbInc  float64
	maxCloseProb  float64
}

// NewClock creates a closed clock at day 0 of the given start date.
func NewClock(start time.Time, initProb, probInc, maxProb float64) *Clock {
	return &Clock{
		start:         start,
		closeProb:     initProb,
		initCloseProb: initProb,
		closeProbInc:  probInc,
		maxCloseProb:  maxProb,
	}
}

// Date returns the calendar date of the current simulation day.
func (c *Clock) Date() time.Time {
	return c.start.AddDate(0, 0, c.Day)
}

// DateString renders the current date in command format (YYYY-MM-DD).
func (c *Clock) DateString() string {
	return c.Date().Format(dateFormat)
}

// CloseProbability is the chance that the library closes at the end of the
// current open day.
func (c *Clock) CloseProbability() float64 {
	return c.closeProb
}

// Open marks the library open. The close probability carries over from the
// previous open day; only Close resets it.
func (c *Clock) Open() {
	c.IsOpen = true
}

// NextOpenDay advances one calendar day within an open run and raises the
// close probability by the configured increment, capped at the maximum.
func (c *Clock) NextOpenDay() {
	c.Day++
	c.closeProb = math.Min(c.maxCloseProb, c.closeProb+c.closeProbInc)
}

// Close marks the library closed, resets the close probability for the next
// open run, and skips ahead skipDays extra calendar days beyond the usual one.
func (c *Clock) Close(skipDays int) {
	c.IsOpen = false
	c.closeProb = c.initCloseProb
	c.Day += 1 + skipDays
}
