//go:build linux

package videobackend

import (
	"context"
	"testing"
	"time"

	"github.com/blackjack/webcam"
	"github.com/matryer/is"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

// yuyvFrame fills a packed YUYV 4:2:2 buffer with a single colour
func yuyvFrame(dims videoframe.Dimensions, y, u, v byte) []byte {
	data := make([]byte, 0, dims.W*dims.H*2)
	for i := 0; i < dims.W*dims.H/2; i++ {
		data = append(data, y, u, y, v)
	}
	return data
}

func TestConvertYUYVToRGB(t *testing.T) {
	is := is.New(t)
	dims := videoframe.Dimensions{W: 4, H: 2}

	frame := newOpenCVFrame()
	defer frame.Close()

	// strongly red in YUV
	is.NoErr(convertYUYV(yuyvFrame(dims, 81, 90, 240), dims, videoframe.RGB, frame))
	is.Equal(frame.Dimensions(), dims)
	is.Equal(frame.Format(), videoframe.RGB)
	is.Equal(frame.mat.Channels(), 3)

	px := frame.mat.GetVecbAt(1, 3)
	is.True(px[0] > px[2])
}

func TestConvertYUYVToBGR(t *testing.T) {
	is := is.New(t)
	dims := videoframe.Dimensions{W: 4, H: 2}

	frame := newOpenCVFrame()
	defer frame.Close()

	is.NoErr(convertYUYV(yuyvFrame(dims, 81, 90, 240), dims, videoframe.BGR, frame))
	is.Equal(frame.Dimensions(), dims)
	is.Equal(frame.Format(), videoframe.BGR)

	px := frame.mat.GetVecbAt(0, 0)
	is.True(px[2] > px[0])
}

func TestConvertYUYVIgnoresTrailingBytes(t *testing.T) {
	is := is.New(t)
	dims := videoframe.Dimensions{W: 2, H: 2}

	frame := newOpenCVFrame()
	defer frame.Close()

	data := append(yuyvFrame(dims, 128, 128, 128), 0xFF, 0xFF, 0xFF, 0xFF)
	is.NoErr(convertYUYV(data, dims, videoframe.RGB, frame))
	is.Equal(frame.Dimensions(), dims)
}

func TestV4L2BackendIsAlternate(t *testing.T) {
	is := is.New(t)
	is.Equal(Alternate().Name(), "v4l2")
	is.Equal(Select(true).Name(), "v4l2")
	is.Equal(devicePath(3), "/dev/video3")
}

func TestV4L2OpenCancelledClosesLateWebcam(t *testing.T) {
	is := is.New(t)

	release := make(chan struct{})
	late := &webcam.Webcam{}
	openRef := openWebcam
	openWebcam = func(string, videoframe.Dimensions) (*webcam.Webcam, videoframe.Dimensions, error) {
		<-release
		return late, videoframe.DefaultDimensions, nil
	}
	closed := make(chan *webcam.Webcam, 1)
	closeRef := closeWebcam
	closeWebcam = func(cam *webcam.Webcam) { closed <- cam }
	t.Cleanup(func() { openWebcam, closeWebcam = openRef, closeRef })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conn, err := V4L2().Open(ctx, "0", videoframe.DefaultDimensions, videoframe.RGB)
	is.True(conn == nil)
	is.True(err != nil)

	close(release)
	select {
	case cam := <-closed:
		is.True(cam == late)
	case <-time.After(time.Second):
		t.Fatal("late webcam was never closed")
	}
}
