package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how device channels are mapped into the output file.
type Mode string

const (
	ModeMono   Mode = "mono"
	ModeStereo Mode = "stereo"
	ModeMulti  Mode = "multi"
)

// ParseMode validates a record mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMono:
		return ModeMono, nil
	case ModeStereo:
		return ModeStereo, nil
	case ModeMulti:
		return ModeMulti, nil
	}
	return "", fmt.Errorf("%w: record mode must be 'mono', 'stereo' or 'multi', got: %q", ErrInvalidParameters, s)
}

// Params describes one recording request. Exactly one of MonoChannel /
// StereoPair is meaningful, selected by Mode; multi records all device
// channels without a mapping filter.
type Params struct {
	DeviceIndex       string
	FileName          string
	DestinationFolder string
	Mode              Mode
	MonoChannel       int
	StereoPair        string

	// Capture tuning. TotalChannels <= 0 means "let the tool settings decide".
	TotalChannels int
	StreamIndex   int
}

// Validate checks the request before any process is touched.
func (p Params) Validate() error {
	if strings.TrimSpace(p.DeviceIndex) == "" {
		return fmt.Errorf("%w: device index is required", ErrInvalidParameters)
	}
	if strings.TrimSpace(p.FileName) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidParameters)
	}
	if strings.ContainsAny(p.FileName, `/\`) {
		return fmt.Errorf("%w: file name must not contain path separators: %q", ErrInvalidParameters, p.FileName)
	}
	if strings.TrimSpace(p.DestinationFolder) == "" {
		return fmt.Errorf("%w: destination folder is required", ErrInvalidParameters)
	}

	switch p.Mode {
	case ModeMono:
		if p.MonoChannel <= 0 {
			return fmt.Errorf("%w: mono channel must be a positive channel number, got %d", ErrInvalidChannelSelection, p.MonoChannel)
		}
	case ModeStereo:
		if _, _, err := ParseStereoPair(p.StereoPair); err != nil {
			return err
		}
	case ModeMulti:
		// All channels, nothing to select.
	default:
		return fmt.Errorf("%w: unknown record mode: %q", ErrInvalidParameters, p.Mode)
	}

	if p.StreamIndex < 0 || p.StreamIndex > 1 {
		return fmt.Errorf("%w: audio stream index must be 0 or 1, got %d", ErrInvalidParameters, p.StreamIndex)
	}

	return nil
}

// ParseStereoPair splits a pair spec like "3-4" into its left and right
// channel numbers. The two channels must be adjacent ascending integers.
func ParseStereoPair(pair string) (left, right int, err error) {
	pair = strings.TrimSpace(pair)
	if pair == "" {
		return 0, 0, fmt.Errorf("%w: stereo pair is required", ErrInvalidChannelSelection)
	}

	parts := strings.Split(pair, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: stereo pair must look like \"1-2\", got: %q", ErrInvalidChannelSelection, pair)
	}

	left, lerr := strconv.Atoi(strings.TrimSpace(parts[0]))
	right, rerr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if lerr != nil || rerr != nil {
		return 0, 0, fmt.Errorf("%w: stereo pair must be two channel numbers, got: %q", ErrInvalidChannelSelection, pair)
	}
	if left < 1 {
		return 0, 0, fmt.Errorf("%w: stereo pair channels start at 1, got: %q", ErrInvalidChannelSelection, pair)
	}
	if right != left+1 {
		return 0, 0, fmt.Errorf("%w: stereo pair channels must be adjacent ascending, got: %q", ErrInvalidChannelSelection, pair)
	}

	return left, right, nil
}
