// Package capture builds invocations of the external capture tool and parses
// its device listing. The tool is treated as a black box producing an output
// file and an exit status; no audio data flows through this process.
package capture

import (
	"fmt"
	"runtime"
	"strconv"
)

// Request describes one capture invocation to build.
type Request struct {
	InputFormat   string
	DeviceIndex   string
	TotalChannels int
	SampleRate    int
	StreamIndex   int // audio stream index, mapped with a trailing '?'
	Mode          string
	MonoChannel   int // 1-based
	StereoLeft    int // 1-based
	StereoRight   int // 1-based
	OutputPath    string
}

// DefaultInputFormat returns the capture demuxer for the current platform.
func DefaultInputFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "pulse"
	}
}

// DeviceInput formats a device index for the tool's -i flag. avfoundation
// addresses audio devices as ":index", dshow as "audio=name"; other demuxers
// take the device name as-is.
func DeviceInput(inputFormat, deviceIndex string) string {
	switch inputFormat {
	case "avfoundation":
		return ":" + deviceIndex
	case "dshow":
		return "audio=" + deviceIndex
	default:
		return deviceIndex
	}
}

// RecordArgs builds the argument list for one recording. The device opens
// with TotalChannels channels; mono and stereo modes then route the selected
// channels through a pan filter, multi writes all channels unmapped.
func RecordArgs(req Request) []string {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-y",
		"-f", req.InputFormat,
		"-i", DeviceInput(req.InputFormat, req.DeviceIndex),
		"-ac", strconv.Itoa(req.TotalChannels),
		"-ar", strconv.Itoa(req.SampleRate),
		"-map", fmt.Sprintf("0:%d?", req.StreamIndex),
	}

	switch req.Mode {
	case "mono":
		args = append(args,
			"-af", fmt.Sprintf("pan=mono|c0=c%d", req.MonoChannel-1),
			"-ac", "1",
		)
	case "stereo":
		args = append(args,
			"-af", fmt.Sprintf("pan=stereo|c0=c%d|c1=c%d", req.StereoLeft-1, req.StereoRight-1),
			"-ac", "2",
		)
	}

	return append(args, req.OutputPath)
}
