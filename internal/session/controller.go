package session

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/takelab/takecap/internal/capture"
)

// State represents the current phase of the recording session lifecycle.
type State string

const (
	StateIdle      State = "IDLE"
	StateStarting  State = "STARTING"
	StateRecording State = "RECORDING"
	StateStopping  State = "STOPPING"
	StateFailed    State = "FAILED"
)

// Options carries the tool settings the controller is constructed with.
type Options struct {
	Command       string        // capture tool binary, e.g. "ffmpeg"
	InputFormat   string        // input demuxer, e.g. "avfoundation", "pulse"
	SampleRate    int           // capture sample rate in Hz
	Extension     string        // output file extension without the dot
	TotalChannels int           // channels to open when the request leaves it unset
	StopTimeout   time.Duration // grace period before Stop escalates to a kill
}

func (o Options) withDefaults() Options {
	if o.Command == "" {
		o.Command = "ffmpeg"
	}
	if o.InputFormat == "" {
		o.InputFormat = capture.DefaultInputFormat()
	}
	if o.SampleRate <= 0 {
		o.SampleRate = 48000
	}
	if o.Extension == "" {
		o.Extension = "wav"
	}
	if o.TotalChannels <= 0 {
		o.TotalChannels = 2
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = 5 * time.Second
	}
	return o
}

// Controller owns the lifecycle of at most one capture process. All state
// transitions happen under its mutex; the child process handle never leaves
// the controller.
type Controller struct {
	opts Options

	mu         sync.Mutex
	state      State
	lastErr    error
	outputPath string
	cmd        *exec.Cmd
	waitCh     chan error
	generation int
}

// NewController creates a controller in the Idle state.
func NewController(opts Options) *Controller {
	return &Controller{
		opts:  opts.withDefaults(),
		state: StateIdle,
	}
}

// Start validates the request, computes a collision-free output path and
// launches the capture process. It returns as soon as the process is running;
// an unexpected later exit is observed by a watcher goroutine and surfaces as
// a transition to StateFailed.
func (c *Controller) Start(p Params) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle && c.state != StateFailed {
		return fmt.Errorf("%w (state: %s)", ErrAlreadyRecording, c.state)
	}

	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkDestination(p.DestinationFolder); err != nil {
		return err
	}

	outputPath, err := ResolveOutputPath(p.DestinationFolder, p.FileName, c.opts.Extension)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestinationUnavailable, err)
	}

	totalChannels := p.TotalChannels
	if totalChannels <= 0 {
		totalChannels = c.opts.TotalChannels
	}

	req := capture.Request{
		InputFormat:   c.opts.InputFormat,
		DeviceIndex:   p.DeviceIndex,
		TotalChannels: totalChannels,
		SampleRate:    c.opts.SampleRate,
		StreamIndex:   p.StreamIndex,
		Mode:          string(p.Mode),
		MonoChannel:   p.MonoChannel,
		OutputPath:    outputPath,
	}
	if p.Mode == ModeStereo {
		req.StereoLeft, req.StereoRight, _ = ParseStereoPair(p.StereoPair)
	}

	c.state = StateStarting
	c.lastErr = nil

	args := capture.RecordArgs(req)
	cmd := exec.Command(c.opts.Command, args...)
	slog.Debug("Launching capture process", "command", c.opts.Command, "args", strings.Join(args, " "))

	if err := cmd.Start(); err != nil {
		c.state = StateFailed
		c.lastErr = fmt.Errorf("%w: %v", ErrLaunchFailed, err)
		return c.lastErr
	}

	c.cmd = cmd
	c.outputPath = outputPath
	c.generation++
	gen := c.generation

	waitCh := make(chan error, 1)
	c.waitCh = waitCh
	go func() {
		err := cmd.Wait()
		waitCh <- err
		c.observeExit(gen, err)
	}()

	c.state = StateRecording
	slog.Info("Recording started", "output", outputPath, "mode", p.Mode, "device", p.DeviceIndex)
	return nil
}

// Stop sends a graceful termination request to the capture process and waits
// for it to exit, escalating to a kill after the grace period. The session
// always ends in Idle; the escalated path reports ErrUngracefulStop.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.state != StateRecording && c.state != StateStarting {
		c.mu.Unlock()
		return fmt.Errorf("%w (state: %s)", ErrNotRecording, c.state)
	}
	c.state = StateStopping
	cmd := c.cmd
	waitCh := c.waitCh
	c.mu.Unlock()

	ungraceful := false

	// SIGINT lets the tool finalize the output container. Platforms that
	// cannot deliver it fall through to a kill.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		slog.Debug("Interrupt not delivered, killing capture process", "error", err)
		_ = cmd.Process.Kill()
		ungraceful = true
	}

	select {
	case <-waitCh:
	case <-time.After(c.opts.StopTimeout):
		slog.Warn("Capture process did not exit within grace period, killing", "timeout", c.opts.StopTimeout)
		_ = cmd.Process.Kill()
		<-waitCh
		ungraceful = true
	}

	c.mu.Lock()
	c.state = StateIdle
	c.cmd = nil
	c.waitCh = nil
	c.mu.Unlock()

	slog.Info("Recording stopped", "output", c.OutputPath(), "graceful", !ungraceful)
	if ungraceful {
		return ErrUngracefulStop
	}
	return nil
}

// State reports the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err reports the error that moved the session to StateFailed, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// OutputPath reports the output file of the current or most recent session.
func (c *Controller) OutputPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputPath
}

// observeExit handles the capture process exiting on its own. An exit during
// Stopping is the normal shutdown path; an exit while Recording means the
// tool died underneath us.
func (c *Controller) observeExit(gen int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != StateRecording {
		return
	}

	c.state = StateFailed
	c.cmd = nil
	if err != nil {
		c.lastErr = fmt.Errorf("%w: capture process exited unexpectedly: %v", ErrLaunchFailed, err)
	} else {
		c.lastErr = fmt.Errorf("%w: capture process exited unexpectedly", ErrLaunchFailed)
	}
	slog.Error("Capture process exited while recording", "error", c.lastErr)
}

// checkDestination verifies the destination exists, is a directory and is
// writable, by probing with a temp file.
func checkDestination(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestinationUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", ErrDestinationUnavailable, dir)
	}

	probe, err := os.CreateTemp(dir, ".takecap-*")
	if err != nil {
		return fmt.Errorf("%w: not writable: %v", ErrDestinationUnavailable, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}
