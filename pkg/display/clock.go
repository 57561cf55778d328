package display

import "time"

// number of tick intervals averaged by FPS
const fpsTickWindow = 10

type Clock interface {
	// Tick marks a frame and returns the time elapsed since the previous tick.
	Tick() time.Duration
	// FPS is the rate over the most recent tick intervals, zero until
	// enough ticks have been recorded.
	FPS() float64
}

func NewClock() Clock {
	return NewClockWithSource(time.Now)
}

func NewClockWithSource(now func() time.Time) Clock {
	return &clock{now: now}
}

type clock struct {
	now       func() time.Time
	last      time.Time
	ticked    bool
	intervals []time.Duration
}

func (c *clock) Tick() time.Duration {
	t := c.now()
	if !c.ticked {
		c.ticked = true
		c.last = t
		return 0
	}
	d := t.Sub(c.last)
	c.last = t
	c.intervals = append(c.intervals, d)
	if len(c.intervals) > fpsTickWindow {
		c.intervals = c.intervals[len(c.intervals)-fpsTickWindow:]
	}
	return d
}

func (c *clock) FPS() float64 {
	if len(c.intervals) < fpsTickWindow {
		return 0
	}
	var total time.Duration
	for _, d := range c.intervals {
		total += d
	}
	if total <= 0 {
		return 0
	}
	return float64(len(c.intervals)) / total.Seconds()
}
