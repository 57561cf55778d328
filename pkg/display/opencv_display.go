package display

import (
	"image"
	"sync"

	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

func OpenCV() Backend {
	return &openCVDisplay{}
}

type openCVDisplay struct {
	mu      sync.Mutex
	windows []*windowSurface
}

func (d *openCVDisplay) Name() string { return "opencv" }

func (d *openCVDisplay) CreateWindow(title string, dims videoframe.Dimensions) (Surface, error) {
	if dims.W <= 0 || dims.H <= 0 {
		return nil, xerror.Errorf("invalid window geometry %s", dims)
	}
	w := newWindow(title)
	if w == nil {
		return nil, xerror.Errorf("unable to create window [%s]", title)
	}
	w.ResizeWindow(dims.W, dims.H)

	surface := &windowSurface{
		matSurface: newMatSurface(dims),
		window:     w,
		title:      title,
		onClose:    d.forget,
	}
	d.mu.Lock()
	d.windows = append(d.windows, surface)
	d.mu.Unlock()
	return surface, nil
}

var newWindow = func(title string) *gocv.Window {
	return gocv.NewWindow(title)
}

func (d *openCVDisplay) CreateOffscreen(dims videoframe.Dimensions) (Surface, error) {
	if dims.W <= 0 || dims.H <= 0 {
		return nil, xerror.Errorf("invalid surface geometry %s", dims)
	}
	return newMatSurface(dims), nil
}

// PollEvents pumps the window event loop, without any open windows there
// is nothing to poll.
func (d *openCVDisplay) PollEvents() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.windows) == 0 {
		return nil
	}

	var events []Event
	if key := d.windows[0].window.WaitKey(1); key >= 0 {
		events = append(events, Event{Type: KeyDownEvent, Key: key & 0xFF})
	}
	for _, w := range d.windows {
		if w.window.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
			events = append(events, Event{Type: QuitEvent})
			break
		}
	}
	return events
}

func (d *openCVDisplay) forget(s *windowSurface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.windows {
		if w == s {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			return
		}
	}
}

// matSurface is an off-screen buffer, presenting only counts.
type matSurface struct {
	dims      videoframe.Dimensions
	buf       gocv.Mat
	presented int
	isClosed  bool
}

func newMatSurface(dims videoframe.Dimensions) *matSurface {
	return &matSurface{
		dims: dims,
		buf:  gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), dims.H, dims.W, gocv.MatTypeCV8UC3),
	}
}

func (s *matSurface) Dimensions() videoframe.Dimensions { return s.dims }

func (s *matSurface) Blit(frame videoframe.Frame, at image.Point) error {
	if s.isClosed {
		return xerror.New("cannot blit onto closed surface")
	}
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to OpenCV surface blit")
	}
	if mat.Empty() {
		return xerror.New("cannot blit empty frame")
	}

	src := *mat
	if f, ok := frame.(videoframe.Formatted); ok && f.Format() == videoframe.RGB {
		bgr := gocv.NewMat()
		defer bgr.Close()
		if err := gocv.CvtColor(*mat, &bgr, gocv.ColorRGBToBGR); err != nil {
			return xerror.Errorf("unable to convert frame to BGR for display: %w", err)
		}
		src = bgr
	}

	area := image.Rect(0, 0, s.dims.W, s.dims.H).Intersect(
		image.Rect(at.X, at.Y, at.X+src.Cols(), at.Y+src.Rows()),
	)
	if area.Empty() {
		return nil
	}

	srcRegion := src.Region(area.Sub(at))
	defer srcRegion.Close()
	dstRegion := s.buf.Region(area)
	defer dstRegion.Close()
	if err := srcRegion.CopyTo(&dstRegion); err != nil {
		return xerror.Errorf("unable to copy frame onto surface: %w", err)
	}
	return nil
}

func (s *matSurface) Present() error {
	if s.isClosed {
		return xerror.New("cannot present closed surface")
	}
	s.presented++
	return nil
}

func (s *matSurface) Presented() int { return s.presented }

func (s *matSurface) Close() error {
	if !s.isClosed {
		s.isClosed = true
		return s.buf.Close()
	}
	return nil
}

type windowSurface struct {
	*matSurface
	window  *gocv.Window
	title   string
	onClose func(*windowSurface)
}

func (s *windowSurface) Present() error {
	if s.isClosed {
		return xerror.Errorf("cannot present closed window [%s]", s.title)
	}
	if err := showOnWindow(s.window, s.buf); err != nil {
		return xerror.Errorf("unable to show frame in window [%s]: %w", s.title, err)
	}
	s.presented++
	return nil
}

var showOnWindow = func(w *gocv.Window, mat gocv.Mat) error {
	return w.IMShow(mat)
}

func (s *windowSurface) Close() error {
	if s.isClosed {
		return nil
	}
	if s.onClose != nil {
		s.onClose(s)
	}
	if err := s.window.Close(); err != nil {
		s.matSurface.Close()
		return xerror.Errorf("unable to close window [%s]: %w", s.title, err)
	}
	return s.matSurface.Close()
}
