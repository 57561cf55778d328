package videobackend

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

var fs = afero.NewOsFs()

type Connection interface {
	UUID() string
	// IsReady reports, without blocking, whether a new frame can be read.
	IsReady() bool
	Read(videoframe.Frame) error
	IsOpen() bool
	Close() error
}

type Backend interface {
	Name() string
	ListDevices() ([]string, error)
	Open(context.Context, string, videoframe.Dimensions, videoframe.ColorFormat) (Connection, error)
	NewFrame() videoframe.Frame
}

func Default() Backend {
	return OpenCV()
}

// Alternate is the native driver binding, used when the default
// capture library is explicitly bypassed.
func Alternate() Backend {
	return V4L2()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return &mockVideoBackend{}
}

func Select(forceAlternate bool) Backend {
	if forceAlternate {
		return Alternate()
	}
	return Default()
}

func Resolve(t string) Backend {
	switch strings.ToLower(t) {
	case "mock":
		return Mock()
	case "v4l2":
		return V4L2()
	case "opencv":
		return OpenCV()
	default:
		return Default()
	}
}
