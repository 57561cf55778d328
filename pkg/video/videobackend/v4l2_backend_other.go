//go:build !linux

package videobackend

import (
	"context"

	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

func V4L2() Backend {
	return &v4l2Backend{}
}

type v4l2Backend struct{}

func (b *v4l2Backend) Name() string { return "v4l2" }

func (b *v4l2Backend) ListDevices() ([]string, error) { return nil, nil }

func (b *v4l2Backend) NewFrame() videoframe.Frame {
	return newOpenCVFrame()
}

func (b *v4l2Backend) Open(context.Context, string, videoframe.Dimensions, videoframe.ColorFormat) (Connection, error) {
	return nil, xerror.New("V4L2 capture is only available on linux")
}
