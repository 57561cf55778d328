//go:build linux

package videobackend

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/blackjack/webcam"
	"github.com/google/uuid"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const (
	pixelFormatYUYV webcam.PixelFormat = 0x56595559
	// seconds a blocking read waits on the driver before giving up
	v4l2ReadTimeout uint32 = 5
)

func V4L2() Backend {
	return &v4l2Backend{}
}

type v4l2Backend struct{}

func (b *v4l2Backend) Name() string { return "v4l2" }

func (b *v4l2Backend) ListDevices() ([]string, error) {
	return listDeviceNodes()
}

func (b *v4l2Backend) NewFrame() videoframe.Frame {
	return newOpenCVFrame()
}

func (b *v4l2Backend) Open(cancel context.Context, id string, dims videoframe.Dimensions, format videoframe.ColorFormat) (Connection, error) {
	if n, ok := deviceIndex(id); ok {
		id = devicePath(n)
	}

	result := make(chan v4l2OpenResult, 1)
	go func() {
		cam, actual, err := openWebcam(id, dims)
		result <- v4l2OpenResult{cam: cam, dims: actual, err: err}
	}()

	select {
	case r := <-result:
		if r.err != nil {
			return nil, r.err
		}
		return &v4l2Connection{cam: r.cam, dims: r.dims, format: format, isOpen: true}, nil
	case <-cancel.Done():
		go closeLateWebcam(result)
		return nil, xerror.New("connection cancelled")
	}
}

// closeLateWebcam releases a device whose open finished after the caller
// gave up waiting on it.
func closeLateWebcam(result <-chan v4l2OpenResult) {
	if r := <-result; r.err == nil && r.cam != nil {
		closeWebcam(r.cam)
	}
}

var closeWebcam = func(cam *webcam.Webcam) {
	cam.StopStreaming()
	cam.Close()
}

type v4l2OpenResult struct {
	cam  *webcam.Webcam
	dims videoframe.Dimensions
	err  error
}

func devicePath(n int) string {
	return devicePathPrefix + strconv.Itoa(n)
}

var openWebcam = func(path string, dims videoframe.Dimensions) (*webcam.Webcam, videoframe.Dimensions, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, videoframe.Dimensions{}, xerror.Errorf("unable to open %s: %w", path, err)
	}

	if _, ok := cam.GetSupportedFormats()[pixelFormatYUYV]; !ok {
		cam.Close()
		return nil, videoframe.Dimensions{}, xerror.Errorf("device %s does not support YUYV capture", path)
	}

	f, w, h, err := cam.SetImageFormat(pixelFormatYUYV, uint32(dims.W), uint32(dims.H))
	if err != nil {
		cam.Close()
		return nil, videoframe.Dimensions{}, xerror.Errorf("unable to set %s image format on %s: %w", dims, path, err)
	}
	if f != pixelFormatYUYV {
		cam.Close()
		return nil, videoframe.Dimensions{}, xerror.Errorf("device %s negotiated unsupported pixel format %#x", path, uint32(f))
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, videoframe.Dimensions{}, xerror.Errorf("unable to start streaming from %s: %w", path, err)
	}

	return cam, videoframe.Dimensions{W: int(w), H: int(h)}, nil
}

type v4l2Connection struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	cam    *webcam.Webcam
	dims   videoframe.Dimensions
	format videoframe.ColorFormat
}

func (c *v4l2Connection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

// IsReady polls the device with a zero timeout.
func (c *v4l2Connection) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return false
	}
	return c.cam.WaitForFrame(0) == nil
}

func (c *v4l2Connection) Read(frame videoframe.Frame) error {
	f, ok := frame.(*openCVFrame)
	if !ok {
		return xerror.New("must pass OpenCV frame to V4L2 connection read")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return xerror.New("unable to read from closed video connection")
	}

	if err := c.cam.WaitForFrame(v4l2ReadTimeout); err != nil {
		var timeout *webcam.Timeout
		if errors.As(err, &timeout) {
			return xerror.New("timed out waiting for frame from device")
		}
		return xerror.Errorf("unable to wait for frame: %w", err)
	}

	data, err := c.cam.ReadFrame()
	if err != nil {
		return xerror.Errorf("unable to read frame: %w", err)
	}
	if len(data) < c.dims.W*c.dims.H*2 {
		return xerror.New("incomplete frame read from video connection")
	}

	return convertYUYV(data, c.dims, c.format, f)
}

func convertYUYV(data []byte, dims videoframe.Dimensions, format videoframe.ColorFormat, f *openCVFrame) error {
	src, err := gocv.NewMatFromBytes(dims.H, dims.W, gocv.MatTypeCV8UC2, data[:dims.W*dims.H*2])
	if err != nil {
		return xerror.Errorf("unable to wrap YUYV frame: %w", err)
	}
	defer src.Close()

	code, dst := gocv.ColorYUVToBGRYUY2, videoframe.BGR
	if format == videoframe.RGB {
		code, dst = gocv.ColorYUVToRGBYUY2, videoframe.RGB
	}
	if err := gocv.CvtColor(src, &f.mat, code); err != nil {
		return xerror.Errorf("unable to convert YUYV frame to %s: %w", dst, err)
	}
	f.format = dst
	return nil
}

func (c *v4l2Connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

func (c *v4l2Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	if err := c.cam.StopStreaming(); err != nil {
		c.cam.Close()
		return xerror.Errorf("unable to stop streaming: %w", err)
	}
	return c.cam.Close()
}
