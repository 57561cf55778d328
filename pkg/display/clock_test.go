package display_test

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/camplayer/pkg/display"
)

type steppedTime struct {
	t    time.Time
	step time.Duration
}

func (s *steppedTime) now() time.Time {
	s.t = s.t.Add(s.step)
	return s.t
}

func TestClockFirstTickReturnsZero(t *testing.T) {
	is := is.New(t)
	st := &steppedTime{t: time.Unix(0, 0), step: 50 * time.Millisecond}
	c := display.NewClockWithSource(st.now)

	is.Equal(c.Tick(), time.Duration(0))
	is.Equal(c.Tick(), 50*time.Millisecond)
}

func TestClockFPSIsZeroUntilWindowFilled(t *testing.T) {
	is := is.New(t)
	st := &steppedTime{t: time.Unix(0, 0), step: 100 * time.Millisecond}
	c := display.NewClockWithSource(st.now)

	for i := 0; i < 10; i++ {
		c.Tick()
		is.Equal(c.FPS(), 0.0)
	}
	c.Tick()
	is.Equal(c.FPS(), 10.0)
}

func TestClockFPSTracksMostRecentIntervals(t *testing.T) {
	is := is.New(t)
	st := &steppedTime{t: time.Unix(0, 0), step: 100 * time.Millisecond}
	c := display.NewClockWithSource(st.now)
	for i := 0; i < 11; i++ {
		c.Tick()
	}
	is.Equal(c.FPS(), 10.0)

	st.step = 20 * time.Millisecond
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	is.Equal(c.FPS(), 50.0)
}

func TestClockFPSUndefinedForZeroElapsed(t *testing.T) {
	is := is.New(t)
	st := &steppedTime{t: time.Unix(0, 0)}
	c := display.NewClockWithSource(st.now)
	for i := 0; i < 20; i++ {
		c.Tick()
	}
	is.Equal(c.FPS(), 0.0)
}

func TestEventIsQuit(t *testing.T) {
	is := is.New(t)
	is.True(display.Event{Type: display.QuitEvent}.IsQuit())
	is.True(display.Event{Type: display.KeyDownEvent, Key: display.KeyEscape}.IsQuit())
	is.True(!display.Event{Type: display.KeyDownEvent, Key: 'q'}.IsQuit())
}
