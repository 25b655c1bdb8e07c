package capture

import (
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Device is one audio input device as reported by the capture tool.
type Device struct {
	Index    string `json:"index"`
	Name     string `json:"name"`
	Channels int    `json:"channels"`
}

// Device listing lines look like:
//   [AVFoundation indev @ 0x7f8] [0] BlackHole 16ch
var deviceLineRE = regexp.MustCompile(`^\[[^]]+ @ [^]]+\]\s+\[(\d+)\]\s+(.+)$`)

var channelCountRE = regexp.MustCompile(`(\d+)ch`)

// ListDevices runs the tool's device listing and parses the audio section of
// its stderr. An empty list is not an error: the tool may simply report none.
func ListDevices(command, inputFormat string) ([]Device, error) {
	cmd := exec.Command(command, "-f", inputFormat, "-list_devices", "true", "-i", "")

	// The tool exits nonzero after listing; only a failure to run it at all
	// is an error.
	output, err := cmd.CombinedOutput()
	if err != nil && len(output) == 0 {
		return nil, fmt.Errorf("failed to run device listing: %w", err)
	}

	devices := ParseDeviceList(string(output))
	slog.Debug("Device listing completed", "devices", len(devices))
	return devices, nil
}

// ParseDeviceList extracts (index, name) pairs from the audio devices
// section of the tool's listing output.
func ParseDeviceList(output string) []Device {
	var devices []Device
	inAudioSection := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		lower := strings.ToLower(line)
		if strings.Contains(lower, "audio devices:") {
			inAudioSection = true
			continue
		}
		if strings.Contains(lower, "video devices:") {
			inAudioSection = false
			continue
		}
		if !inAudioSection {
			continue
		}

		match := deviceLineRE.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		name := strings.TrimSpace(match[2])
		devices = append(devices, Device{
			Index:    match[1],
			Name:     name,
			Channels: InferChannelCount(name),
		})
	}

	return devices
}

// InferChannelCount guesses a device's channel count from patterns like
// "16ch" in its name, defaulting to 2.
func InferChannelCount(deviceName string) int {
	match := channelCountRE.FindStringSubmatch(strings.ToLower(deviceName))
	if match == nil {
		return 2
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return 2
	}
	return n
}

// StereoPairs enumerates the odd-even channel pairs a device offers, e.g.
// 8 channels -> ["1-2" "3-4" "5-6" "7-8"].
func StereoPairs(totalChannels int) []string {
	var pairs []string
	for i := 1; i+1 <= totalChannels; i += 2 {
		pairs = append(pairs, fmt.Sprintf("%d-%d", i, i+1))
	}
	if len(pairs) == 0 {
		pairs = []string{"1-2"}
	}
	return pairs
}
