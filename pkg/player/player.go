package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/camplayer/pkg/camera"
	"github.com/tauraamui/camplayer/pkg/display"
	"github.com/tauraamui/camplayer/pkg/fps"
	"github.com/tauraamui/camplayer/pkg/log"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var (
	ErrTransform  = errors.New("transform failed")
	ErrTerminated = errors.New("player has terminated")
)

type State int

const (
	Initializing State = iota
	Running
	Stopping
	Terminated
	Failed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Terminated:
		return "terminated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Player drives the capture, transform and display cycle for one camera.
// It is not safe for concurrent use.
type Player struct {
	sett        Settings
	logger      log.Logger
	runID       string
	state       State
	cam         camera.Source
	frame       videoframe.Frame
	surface     display.Surface
	ownsSurface bool
	tracker     *fps.Tracker
	captured    int
	presented   int
}

// New builds a player from settings, which should be derived from
// DefaultSettings so Show and FlushFrames keep their defaults.
func New(settings Settings) *Player {
	return &Player{
		sett:    settings.withDefaults(),
		logger:  log.New(settings.LogLevel),
		runID:   uuid.NewString(),
		state:   Initializing,
		tracker: fps.NewTracker(),
	}
}

func (p *Player) State() State { return p.state }

// Init acquires the camera and then the display target. No display
// resources are allocated if the camera cannot be acquired.
func (p *Player) Init(ctx context.Context) error {
	if p.state != Initializing {
		if p.state == Running {
			return nil
		}
		return ErrTerminated
	}

	if err := p.init(ctx); err != nil {
		p.state = Failed
		return err
	}
	p.state = Running
	return nil
}

func (p *Player) init(ctx context.Context) error {
	backend := p.sett.VideoBackend
	deviceID := p.sett.Device
	if len(deviceID) == 0 {
		devices, err := camera.Enumerate(backend)
		if err != nil {
			return err
		}
		deviceID = devices[0]
	}

	p.logger.Info("Opening device %s, with video size %s using %s backend", deviceID, p.sett.Dimensions, backend.Name())
	cam, err := camera.OpenWithCancel(ctx, backend, deviceID, camera.Settings{
		Dimensions:   p.sett.Dimensions,
		Format:       videoframe.RGB,
		PollInterval: p.sett.PollInterval,
	})
	if err != nil {
		return err
	}

	if err := cam.WaitForFrame(ctx); err != nil {
		cam.Close()
		return xerror.Errorf("camera [%s] never became ready: %w", deviceID, err)
	}

	frame := backend.NewFrame()
	surface, owned, err := p.acquireSurface()
	if err != nil {
		frame.Close()
		cam.Close()
		return err
	}

	p.cam, p.frame, p.surface, p.ownsSurface = cam, frame, surface, owned
	return nil
}

func (p *Player) acquireSurface() (display.Surface, bool, error) {
	if p.sett.Display != nil {
		return p.sett.Display, false, nil
	}
	if p.sett.Show {
		s, err := p.sett.DisplayBackend.CreateWindow(p.sett.WindowTitle, p.sett.Dimensions)
		return s, err == nil, err
	}
	s, err := p.sett.DisplayBackend.CreateOffscreen(p.sett.Dimensions)
	return s, err == nil, err
}

// Run plays until a quit event arrives or ctx is cancelled, then releases
// the camera and returns the run's report. A player runs exactly once.
func (p *Player) Run(ctx context.Context) (Report, error) {
	if err := p.Init(ctx); err != nil {
		return Report{}, err
	}

	p.logger.Info("Video capture & display started [%s]... press Escape to quit", p.runID)
	loopErr := p.loop(ctx)
	report := p.stop()
	return report, loopErr
}

func (p *Player) loop(ctx context.Context) error {
	for {
		if p.quitRequested(ctx) {
			return nil
		}

		if !p.cam.IsFrameReady() {
			p.yield(ctx)
			continue
		}

		presented, err := p.cycle(ctx)
		if err != nil {
			return err
		}
		if !presented {
			continue
		}

		p.sett.Clock.Tick()
		if rate := p.sett.Clock.FPS(); p.tracker.Add(rate) {
			p.logger.Debug("fps: %f", rate)
		}
	}
}

func (p *Player) quitRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	for _, evt := range p.sett.DisplayBackend.PollEvents() {
		if evt.IsQuit() {
			return true
		}
	}
	return false
}

func (p *Player) yield(ctx context.Context) {
	interval := p.sett.PollInterval
	if interval <= 0 {
		interval = camera.DefaultPollInterval
	}
	select {
	case <-ctx.Done():
	case <-time.After(interval):
	}
}

// cycle captures, optionally transforms, and presents a single frame.
// Only failures which should end the run are returned.
func (p *Player) cycle(ctx context.Context) (bool, error) {
	frame, err := p.capture()
	if err != nil {
		p.logger.Error("Unable to capture frame: %v", err)
		p.yield(ctx)
		return false, nil
	}

	if p.sett.Process != nil {
		frame, err = p.process()
		if err != nil {
			if !errors.Is(err, ErrTransform) {
				p.logger.Error("Unable to refresh frame before transform: %v", err)
				return false, nil
			}
			if p.sett.TransformErrorPolicy == SkipOnTransformError {
				p.logger.Error("Skipping frame: %v", err)
				return false, nil
			}
			return false, err
		}
	}

	if err := p.surface.Blit(frame, image.Point{}); err != nil {
		return false, xerror.Errorf("unable to blit frame onto display: %w", err)
	}
	if err := p.surface.Present(); err != nil {
		return false, xerror.Errorf("unable to present display: %w", err)
	}
	p.presented++
	return true, nil
}

func (p *Player) capture() (videoframe.Frame, error) {
	frame, err := p.cam.CaptureInto(p.frame)
	if err != nil {
		return nil, err
	}
	p.captured++
	return frame, nil
}

// process flushes frames the driver buffered while the last transform was
// running, so the transform always sees the freshest image.
func (p *Player) process() (videoframe.Frame, error) {
	p.sett.TransformClock.Tick()
	p.logger.Debug("Running transform at %f fps", p.sett.TransformClock.FPS())

	for i := 0; i < p.sett.FlushFrames; i++ {
		if _, err := p.capture(); err != nil {
			return nil, err
		}
	}

	out, err := p.transform(p.frame)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return p.frame, nil
	}
	return out, nil
}

func (p *Player) transform(frame videoframe.Frame) (out videoframe.Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, xerror.Errorf("%w: panic: %v", ErrTransform, r)
		}
	}()

	out, err = p.sett.Process(frame)
	if err != nil {
		return nil, xerror.Errorf("%w: %w", ErrTransform, err)
	}
	return out, nil
}

func (p *Player) stop() Report {
	p.state = Stopping

	if err := p.cam.Close(); err != nil {
		p.logger.Warn("Unable to close camera [%s]: %v", p.cam.DeviceID(), err)
	}
	if p.ownsSurface {
		if err := p.surface.Close(); err != nil {
			p.logger.Warn("Unable to close display: %v", err)
		}
	}
	p.frame.Close()

	report := p.report()
	p.logger.Info("Video capture & display complete [%s]: %s", p.runID, report.Stats)
	p.state = Terminated
	return report
}

func (p *Player) report() Report {
	avg, ok := p.tracker.Average()
	return Report{
		RunID:           p.runID,
		DeviceID:        p.cam.DeviceID(),
		FramesCaptured:  p.captured,
		FramesPresented: p.presented,
		AverageFPS:      avg,
		HasData:         ok,
		Stats:           p.tracker.Stats(),
	}
}

type Report struct {
	RunID           string
	DeviceID        string
	FramesCaptured  int
	FramesPresented int
	AverageFPS      float64
	// HasData is false when no frame rate sample was ever recorded.
	HasData bool
	Stats   fps.Stats
}

func (r Report) AverageString() string {
	if !r.HasData {
		return "n/a"
	}
	return fmt.Sprintf("%f", r.AverageFPS)
}
