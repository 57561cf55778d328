package camera

import (
	"time"

	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

const DefaultPollInterval = time.Millisecond

type Settings struct {
	Dimensions   videoframe.Dimensions
	Format       videoframe.ColorFormat
	PollInterval time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.Dimensions.W <= 0 || s.Dimensions.H <= 0 {
		s.Dimensions = videoframe.DefaultDimensions
	}
	if len(s.Format) == 0 {
		s.Format = videoframe.RGB
	}
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	return s
}
