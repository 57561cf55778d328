package player

import (
	"strings"
	"time"

	"github.com/tauraamui/camplayer/pkg/display"
	"github.com/tauraamui/camplayer/pkg/log"
	"github.com/tauraamui/camplayer/pkg/video/videobackend"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

// DefaultFlushFrames is how many frames are captured and discarded ahead
// of every transform call, enough to drain what the driver queued up while
// the previous call was running.
const DefaultFlushFrames = 5

const DefaultWindowTitle = "camplayer"

// Transform maps a captured frame to the frame to display. Returning a nil
// frame and nil error displays the input unchanged. Frames returned by a
// transform stay owned by it.
type Transform func(videoframe.Frame) (videoframe.Frame, error)

type TransformErrorPolicy int

const (
	// AbortOnTransformError stops the player and returns the error from Run.
	AbortOnTransformError TransformErrorPolicy = iota
	// SkipOnTransformError logs the error and drops the frame, leaving the
	// previous presentation on screen.
	SkipOnTransformError
)

func ParseTransformErrorPolicy(s string) TransformErrorPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "skip") {
		return SkipOnTransformError
	}
	return AbortOnTransformError
}

func (p TransformErrorPolicy) String() string {
	if p == SkipOnTransformError {
		return "skip"
	}
	return "abort"
}

// Settings configures a Player. Start from DefaultSettings, the zero value
// leaves the window hidden and flushing disabled.
type Settings struct {
	Process               Transform
	ForceAlternateBackend bool
	// VideoBackend overrides the backend ForceAlternateBackend would pick.
	VideoBackend   videobackend.Backend
	DisplayBackend display.Backend
	// Display is an externally owned surface, when nil one is created and
	// owned by the player.
	Display              display.Surface
	Show                 bool
	Device               string
	Dimensions           videoframe.Dimensions
	// FlushFrames is the number of frames discarded ahead of each
	// transform call, zero disables flushing.
	FlushFrames          int
	TransformErrorPolicy TransformErrorPolicy
	LogLevel             log.Level
	PollInterval         time.Duration
	WindowTitle          string
	Clock                display.Clock
	TransformClock       display.Clock
}

func DefaultSettings() Settings {
	return Settings{
		Show:        true,
		Dimensions:  videoframe.DefaultDimensions,
		FlushFrames: DefaultFlushFrames,
		LogLevel:    log.WarnLevel,
		WindowTitle: DefaultWindowTitle,
	}
}

func (s Settings) withDefaults() Settings {
	if s.VideoBackend == nil {
		s.VideoBackend = videobackend.Select(s.ForceAlternateBackend)
	}
	if s.DisplayBackend == nil {
		s.DisplayBackend = display.Default()
	}
	if s.Dimensions.W <= 0 || s.Dimensions.H <= 0 {
		s.Dimensions = videoframe.DefaultDimensions
	}
	if s.FlushFrames < 0 {
		s.FlushFrames = 0
	}
	if len(s.WindowTitle) == 0 {
		s.WindowTitle = DefaultWindowTitle
	}
	if s.Clock == nil {
		s.Clock = display.NewClock()
	}
	if s.TransformClock == nil {
		s.TransformClock = display.NewClock()
	}
	return s
}
