package mocks

import (
	"image"

	"github.com/tauraamui/camplayer/pkg/display"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

type DisplayBackend struct {
	// QuitOnPoll is the event poll which first reports escape, zero never quits.
	QuitOnPoll  int
	OnPoll      func(poll int)
	CreateErr   error
	Polls       int
	Windows     []*Surface
	Offscreens  []*Surface
	WindowTitle string
}

func (d *DisplayBackend) Name() string { return "test" }

func (d *DisplayBackend) CreateWindow(title string, dims videoframe.Dimensions) (display.Surface, error) {
	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	s := NewSurface(dims)
	d.WindowTitle = title
	d.Windows = append(d.Windows, s)
	return s, nil
}

func (d *DisplayBackend) CreateOffscreen(dims videoframe.Dimensions) (display.Surface, error) {
	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	s := NewSurface(dims)
	d.Offscreens = append(d.Offscreens, s)
	return s, nil
}

func (d *DisplayBackend) PollEvents() []display.Event {
	d.Polls++
	if d.OnPoll != nil {
		d.OnPoll(d.Polls)
	}
	if d.QuitOnPoll > 0 && d.Polls >= d.QuitOnPoll {
		return []display.Event{{Type: display.KeyDownEvent, Key: display.KeyEscape}}
	}
	return []display.Event{{Type: display.KeyDownEvent, Key: 'a'}}
}

func (d *DisplayBackend) CreatedSurfaces() int {
	return len(d.Windows) + len(d.Offscreens)
}

// Surface records the sequence number of every frame blitted onto it.
type Surface struct {
	dims      videoframe.Dimensions
	presented int
	Blitted   []int
	Closed    bool
}

func NewSurface(dims videoframe.Dimensions) *Surface {
	return &Surface{dims: dims}
}

func (s *Surface) Dimensions() videoframe.Dimensions { return s.dims }

func (s *Surface) Blit(frame videoframe.Frame, _ image.Point) error {
	if seq, ok := frame.DataRef().(int); ok {
		s.Blitted = append(s.Blitted, seq)
	}
	return nil
}

func (s *Surface) Present() error {
	s.presented++
	return nil
}

func (s *Surface) Presented() int { return s.presented }

func (s *Surface) Close() error {
	s.Closed = true
	return nil
}
