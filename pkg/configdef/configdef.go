package configdef

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/dealancer/validate.v2"
)

var (
	ErrConfigAlreadyExists = errors.New("config file already exists")
	ErrConfigNotFound      = errors.New("config file not found")
)

type Values struct {
	LogLevel              string `json:"log_level" yaml:"log_level"`
	Backend               string `json:"backend" yaml:"backend"`
	ForceAlternateBackend bool   `json:"force_alternate_backend" yaml:"force_alternate_backend"`
	Device                string `json:"device" yaml:"device"`
	Width                 int    `json:"width" yaml:"width" validate:"gte=0 & lte=7680"`
	Height                int    `json:"height" yaml:"height" validate:"gte=0 & lte=4320"`

	// Show is a pointer so an absent key keeps the window on.
	Show                 *bool  `json:"show,omitempty" yaml:"show,omitempty"`
	FlushFrames          *int   `json:"flush_frames,omitempty" yaml:"flush_frames,omitempty"`
	TransformErrorPolicy string `json:"transform_error_policy" yaml:"transform_error_policy"`
	PollIntervalMS       int    `json:"poll_interval_ms" yaml:"poll_interval_ms" validate:"gte=0 & lte=1000"`
	WindowTitle          string `json:"window_title" yaml:"window_title"`
}

func (v Values) ShowWindow() bool {
	return v.Show == nil || *v.Show
}

// Flush is the configured flush count, ok is false when unset.
func (v Values) Flush() (n int, ok bool) {
	if v.FlushFrames == nil {
		return 0, false
	}
	return *v.FlushFrames, true
}

func (v Values) PollInterval() time.Duration {
	return time.Duration(v.PollIntervalMS) * time.Millisecond
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if (v.Width == 0) != (v.Height == 0) {
		return fmt.Errorf(validationErrorHeader, errors.New("width and height must be set together"))
	}
	if !oneOf(v.LogLevel, "debug", "info", "warn", "error", "silent") {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("unknown log_level %q", v.LogLevel))
	}
	if !oneOf(v.Backend, "opencv", "v4l2", "mock") {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("unknown backend %q", v.Backend))
	}
	if !oneOf(v.TransformErrorPolicy, "abort", "skip") {
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("unknown transform_error_policy %q", v.TransformErrorPolicy))
	}
	if n, ok := v.Flush(); ok && n < 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("flush_frames cannot be negative"))
	}
	return nil
}

type Resolver interface {
	Resolve() (Values, error)
}

type Creator interface {
	Create() error
}

type Destroyer interface {
	Destroy() error
}

// oneOf treats an empty value as unset, which is always allowed.
func oneOf(v string, allowed ...string) bool {
	if len(v) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
