package videobackend

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed bool
	mat      gocv.Mat
	format   videoframe.ColorFormat
}

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Format() videoframe.ColorFormat { return frame.format }

func (frame *openCVFrame) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

func newOpenCVFrame() *openCVFrame {
	return &openCVFrame{mat: gocv.NewMat(), format: videoframe.BGR}
}

type openCVBackend struct{}

func (b *openCVBackend) Name() string { return "opencv" }

func (b *openCVBackend) ListDevices() ([]string, error) {
	nodes, err := listDeviceNodes()
	if err != nil {
		return nil, err
	}
	if len(nodes) > 0 || runtime.GOOS == "linux" {
		return nodes, nil
	}
	// no device nodes to glob outside of linux, ask the capture
	// library whether the first index opens instead
	if probeDevice(0) {
		return []string{"0"}, nil
	}
	return nil, nil
}

func (b *openCVBackend) Open(cancel context.Context, id string, dims videoframe.Dimensions, format videoframe.ColorFormat) (Connection, error) {
	conn := openCVConnection{format: format}
	if err := conn.connect(cancel, id, dims); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (b *openCVBackend) NewFrame() videoframe.Frame {
	return newOpenCVFrame()
}

var probeDevice = func(index int) bool {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return false
	}
	defer vc.Close()
	return vc.IsOpened()
}

type openCVConnection struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	format videoframe.ColorFormat
	vc     *gocv.VideoCapture
}

func (c *openCVConnection) connect(cancel context.Context, id string, dims videoframe.Dimensions) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(captureDevice(id), connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		if !r.vc.IsOpened() {
			r.vc.Close()
			return xerror.Errorf("video capture for device %s did not open", id)
		}
		r.vc.Set(gocv.VideoCaptureFrameWidth, float64(dims.W))
		r.vc.Set(gocv.VideoCaptureFrameHeight, float64(dims.H))
		c.vc = r.vc
		c.isOpen = true
		return nil
	case <-cancel.Done():
		go closeLateVideoStream(connAndError)
		return xerror.New("connection cancelled")
	}
}

// closeLateVideoStream releases a capture whose open finished after the
// caller gave up waiting on it.
func closeLateVideoStream(d <-chan openVideoStreamResult) {
	if r := <-d; r.err == nil && r.vc != nil {
		closeVideoCapture(r.vc)
	}
}

var closeVideoCapture = func(vc *gocv.VideoCapture) {
	vc.Close()
}

// captureDevice maps device ids onto what the capture library accepts,
// an index for local cameras, a path or URL otherwise.
func captureDevice(id string) interface{} {
	if n, ok := deviceIndex(id); ok {
		return n
	}
	return id
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(device interface{}, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(device)
	d <- openVideoStreamResult{vc: vc, err: err}
}

var openVideoCapture = func(device interface{}) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(device)
}

var readFromVideoConnection = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

func (c *openCVConnection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

// IsReady has no non-blocking counterpart in the capture library, Read
// blocks until the driver hands over the next frame, so an open stream
// is always considered ready.
func (c *openCVConnection) IsReady() bool {
	return c.IsOpen()
}

func (c *openCVConnection) Read(frame videoframe.Frame) error {
	f, ok := frame.(*openCVFrame)
	if !ok {
		return xerror.New("must pass OpenCV frame to OpenCV connection read")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !readFromVideoConnection(c.vc, &f.mat) || f.mat.Empty() {
		return xerror.New("unable to read from video connection")
	}
	f.format = videoframe.BGR
	if c.format == videoframe.RGB {
		if err := gocv.CvtColor(f.mat, &f.mat, gocv.ColorBGRToRGB); err != nil {
			return xerror.Errorf("unable to convert frame to RGB: %w", err)
		}
		f.format = videoframe.RGB
	}
	return nil
}

func (c *openCVConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return c.vc.IsOpened()
	}
	return false
}

func (c *openCVConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	return c.vc.Close()
}
