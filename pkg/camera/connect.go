package camera

import (
	"context"
	"sync"
	"time"

	"github.com/tauraamui/camplayer/pkg/video/videobackend"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// Source is a single started camera device.
type Source interface {
	UUID() string
	DeviceID() string
	Dimensions() videoframe.Dimensions
	IsFrameReady() bool
	WaitForFrame(context.Context) error
	CaptureInto(videoframe.Frame) (videoframe.Frame, error)
	IsOpen() bool
	IsClosing() bool
	Close() error
}

// Enumerate lists the backend's devices, failing with ErrNoDevice when
// there are none.
func Enumerate(backend videobackend.Backend) ([]string, error) {
	devices, err := backend.ListDevices()
	if err != nil {
		return nil, xerror.Errorf("unable to enumerate %s camera devices: %w", backend.Name(), err)
	}
	if len(devices) == 0 {
		return nil, xerror.Errorf("%s backend: %w", backend.Name(), ErrNoDevice)
	}
	return devices, nil
}

type source struct {
	deviceID  string
	sett      Settings
	mu        sync.Mutex
	isClosing bool
	vc        videobackend.Connection
}

func (s *source) UUID() string {
	return s.vc.UUID()
}

func (s *source) DeviceID() string {
	return s.deviceID
}

func (s *source) Dimensions() videoframe.Dimensions {
	return s.sett.Dimensions
}

func (s *source) IsFrameReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosing {
		return false
	}
	return s.vc.IsReady()
}

// WaitForFrame yields for the poll interval between readiness checks
// until a frame is available or ctx is done.
func (s *source) WaitForFrame(ctx context.Context) error {
	for !s.IsFrameReady() {
		if s.IsClosing() {
			return xerror.Errorf("camera [%s] is closed", s.deviceID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.sett.PollInterval):
		}
	}
	return nil
}

// CaptureInto overwrites frame with the newest image from the device and
// returns it.
func (s *source) CaptureInto(frame videoframe.Frame) (videoframe.Frame, error) {
	if err := s.WaitForFrame(context.Background()); err != nil {
		return frame, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.vc.Read(frame); err != nil {
		return frame, xerror.Errorf("unable to read frame from camera [%s]: %w", s.deviceID, err)
	}
	return frame, nil
}

func (s *source) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.isClosing && s.vc.IsOpen()
}

func (s *source) IsClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isClosing
}

func (s *source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosing {
		return nil
	}
	s.isClosing = true
	return s.vc.Close()
}

func open(ctx context.Context, backend videobackend.Backend, deviceID string, settings Settings) (Source, error) {
	settings = settings.withDefaults()
	vc, err := backend.Open(ctx, deviceID, settings.Dimensions, settings.Format)
	if err != nil {
		return nil, xerror.Errorf("%w [%s]: %v", ErrDeviceOpen, deviceID, err)
	}
	return &source{
		deviceID: deviceID,
		sett:     settings,
		vc:       vc,
	}, nil
}

func Open(backend videobackend.Backend, deviceID string, settings Settings) (Source, error) {
	return open(context.Background(), backend, deviceID, settings)
}

func OpenWithCancel(cancel context.Context, backend videobackend.Backend, deviceID string, settings Settings) (Source, error) {
	return open(cancel, backend, deviceID, settings)
}
