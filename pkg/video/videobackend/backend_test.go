package videobackend_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/camplayer/pkg/video/videobackend"
)

func TestVideoBackendDefaultBackend(t *testing.T) {
	is := is.New(t)
	is.True(videobackend.Default() != nil)
	is.Equal(videobackend.Default().Name(), "opencv")
}

func TestVideoBackendSelect(t *testing.T) {
	is := is.New(t)
	is.Equal(videobackend.Select(false).Name(), "opencv")
	is.Equal(videobackend.Select(true).Name(), "v4l2")
}

func TestVideoBackendResolve(t *testing.T) {
	is := is.New(t)
	is.Equal(videobackend.Resolve("mock").Name(), "mock")
	is.Equal(videobackend.Resolve("V4L2").Name(), "v4l2")
	is.Equal(videobackend.Resolve("opencv").Name(), "opencv")
	is.Equal(videobackend.Resolve("").Name(), "opencv")
}
