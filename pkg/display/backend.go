package display

import (
	"image"

	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

type EventType int

const (
	QuitEvent EventType = iota
	KeyDownEvent
)

const KeyEscape = 27

type Event struct {
	Type EventType
	Key  int
}

// IsQuit reports whether the event asks the player to stop, a window
// close or the escape key.
func (e Event) IsQuit() bool {
	return e.Type == QuitEvent || (e.Type == KeyDownEvent && e.Key == KeyEscape)
}

// Surface is a display target frames are blitted onto and then presented.
type Surface interface {
	Dimensions() videoframe.Dimensions
	Blit(videoframe.Frame, image.Point) error
	Present() error
	// Presented is the number of successful presents so far.
	Presented() int
	Close() error
}

type Backend interface {
	Name() string
	CreateWindow(string, videoframe.Dimensions) (Surface, error)
	CreateOffscreen(videoframe.Dimensions) (Surface, error)
	PollEvents() []Event
}

func Default() Backend {
	return OpenCV()
}
