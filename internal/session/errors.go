package session

import "errors"

// Error kinds surfaced by the controller. Validation errors are synchronous
// and leave the session state untouched; process errors are also visible as a
// transition to StateFailed.
var (
	ErrAlreadyRecording        = errors.New("a recording is already in progress")
	ErrNotRecording            = errors.New("no recording in progress")
	ErrInvalidParameters       = errors.New("invalid recording parameters")
	ErrInvalidChannelSelection = errors.New("invalid channel selection")
	ErrDestinationUnavailable  = errors.New("destination folder unavailable")
	ErrLaunchFailed            = errors.New("failed to launch capture process")

	// ErrUngracefulStop is a warning: the capture tool had to be killed and
	// the recording may carry a malformed trailing frame.
	ErrUngracefulStop = errors.New("capture process did not stop gracefully")
)
