package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	mockDeviceID      = "mock0"
	mockFrameInterval = time.Second / 30
)

type mockVideoBackend struct{}

func (b *mockVideoBackend) Name() string { return "mock" }

func (b *mockVideoBackend) ListDevices() ([]string, error) {
	return []string{mockDeviceID}, nil
}

func (b *mockVideoBackend) Open(cancel context.Context, id string, dims videoframe.Dimensions, format videoframe.ColorFormat) (Connection, error) {
	select {
	case <-cancel.Done():
		return nil, xerror.New("connection cancelled")
	default:
	}
	return &mockVideoConnection{deviceID: id, dims: dims, format: format, isOpen: true}, nil
}

func (b *mockVideoBackend) NewFrame() videoframe.Frame {
	return newOpenCVFrame()
}

// mockVideoConnection renders a synthetic pattern labelled with the device
// id, the frame sequence number and the wall clock, paced to roughly 30fps.
type mockVideoConnection struct {
	uuid                    string
	mu                      sync.Mutex
	deviceID                string
	dims                    videoframe.Dimensions
	format                  videoframe.ColorFormat
	isOpen                  bool
	seq                     int
	lastRead                time.Time
	renderedBaseFrameCanvas bool
	baseFrameCanvas         image.Image
}

func (mvc *mockVideoConnection) UUID() string {
	if len(mvc.uuid) == 0 {
		mvc.uuid = uuid.NewString()
	}
	return mvc.uuid
}

func (mvc *mockVideoConnection) IsReady() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen && time.Since(mvc.lastRead) >= mockFrameInterval
}

func (mvc *mockVideoConnection) Read(frame videoframe.Frame) error {
	f, ok := frame.(*openCVFrame)
	if !ok {
		return xerror.New("must pass OpenCV frame to MockVideo connection read")
	}

	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	if !mvc.isOpen {
		return xerror.New("unable to read from closed video connection")
	}

	if !mvc.renderedBaseFrameCanvas {
		mvc.baseFrameCanvas = renderBaseFrameCanvas(mvc.dims.W, mvc.dims.H)
		mvc.renderedBaseFrameCanvas = true
	}

	mvc.seq++
	img, err := drawTextLayerOntoBaseFrameClone(mvc.baseFrameCanvas, mvc.deviceID, mvc.seq)
	if err != nil {
		return err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return xerror.Errorf("unable to convert Go image into OpenCV mat: %w", err)
	}
	defer mat.Close()

	if err := mat.CopyTo(&f.mat); err != nil {
		return xerror.Errorf("unable to copy mock frame: %w", err)
	}
	f.format = videoframe.BGR
	if mvc.format == videoframe.RGB {
		if err := gocv.CvtColor(f.mat, &f.mat, gocv.ColorBGRToRGB); err != nil {
			return xerror.Errorf("unable to convert mock frame to RGB: %w", err)
		}
		f.format = videoframe.RGB
	}
	mvc.lastRead = time.Now()

	return nil
}

func (mvc *mockVideoConnection) IsOpen() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen
}

func (mvc *mockVideoConnection) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.isOpen = false
	mvc.renderedBaseFrameCanvas = false
	mvc.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, deviceID string, seq int) (image.Image, error) {
	h := base.Bounds().Dy()
	baseClone := cloneImage(base)
	lines := []string{
		"CAMPLAYER_MOCK_STREAM",
		fmt.Sprintf("%s #%d", deviceID, seq),
		time.Now().Format("15:04:05.000"),
	}
	for i, line := range lines {
		if err := drawText(baseClone, 5, (i+1)*h/4, line); err != nil {
			return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err)
		}
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(w, h int) image.Image {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var (
	parseFontOnce sync.Once
	parsedFont    *truetype.Font
	parseFontErr  error
)

func goRegular() (*truetype.Font, error) {
	parseFontOnce.Do(func() {
		parsedFont, parseFontErr = freetype.ParseFont(goregular.TTF)
	})
	return parsedFont, parseFontErr
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := goRegular()
	if err != nil {
		return err
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    float64(canvas.Bounds().Dy()) / 12,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
