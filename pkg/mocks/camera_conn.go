package mocks

import (
	"context"

	"github.com/tauraamui/camplayer/pkg/video/videobackend"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

type Options struct {
	Devices []string
	ListErr error
	OpenErr error
	// ReadyAfter is how many readiness polls report not ready before the
	// connection starts reporting ready.
	ReadyAfter int
	ReadErr    error
}

func NewVideoBackend(opts Options) *VideoBackend {
	return &VideoBackend{opts: opts}
}

// VideoBackend hands out a single CameraConn and records how it was opened.
type VideoBackend struct {
	opts         Options
	Conn         *CameraConn
	OpenedID     string
	OpenedDims   videoframe.Dimensions
	OpenedFormat videoframe.ColorFormat
	Frames       []*Frame
}

func (b *VideoBackend) Name() string { return "test" }

func (b *VideoBackend) ListDevices() ([]string, error) {
	return b.opts.Devices, b.opts.ListErr
}

func (b *VideoBackend) Open(_ context.Context, id string, dims videoframe.Dimensions, format videoframe.ColorFormat) (videobackend.Connection, error) {
	if b.opts.OpenErr != nil {
		return nil, b.opts.OpenErr
	}
	b.OpenedID, b.OpenedDims, b.OpenedFormat = id, dims, format
	if b.Conn == nil {
		b.Conn = &CameraConn{readyAfter: b.opts.ReadyAfter, readErr: b.opts.ReadErr}
	}
	return b.Conn, nil
}

func (b *VideoBackend) NewFrame() videoframe.Frame {
	f := &Frame{}
	b.Frames = append(b.Frames, f)
	return f
}

// Frame carries the sequence number of the read which last filled it.
type Frame struct {
	Seq    int
	Closed bool
}

func (f *Frame) DataRef() interface{} { return f.Seq }

func (f *Frame) Dimensions() videoframe.Dimensions { return videoframe.DefaultDimensions }

func (f *Frame) Close() { f.Closed = true }

type CameraConn struct {
	readyAfter int
	readErr    error
	ReadyPolls int
	Reads      int
	Closed     bool
}

func (c *CameraConn) UUID() string { return "test-uuid" }

func (c *CameraConn) IsReady() bool {
	c.ReadyPolls++
	return !c.Closed && c.ReadyPolls > c.readyAfter
}

func (c *CameraConn) Read(frame videoframe.Frame) error {
	if c.readErr != nil {
		return c.readErr
	}
	c.Reads++
	frame.(*Frame).Seq = c.Reads
	return nil
}

func (c *CameraConn) IsOpen() bool { return !c.Closed }

func (c *CameraConn) Close() error {
	c.Closed = true
	return nil
}
