package capture

import (
	"reflect"
	"testing"
)

func TestRecordArgs_Mono(t *testing.T) {
	args := RecordArgs(Request{
		InputFormat:   "avfoundation",
		DeviceIndex:   "1",
		TotalChannels: 16,
		SampleRate:    48000,
		StreamIndex:   0,
		Mode:          "mono",
		MonoChannel:   3,
		OutputPath:    "/tmp/take1.wav",
	})

	want := []string{
		"-nostdin", "-hide_banner", "-y",
		"-f", "avfoundation",
		"-i", ":1",
		"-ac", "16",
		"-ar", "48000",
		"-map", "0:0?",
		"-af", "pan=mono|c0=c2",
		"-ac", "1",
		"/tmp/take1.wav",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("Mono args mismatch:\n got: %v\nwant: %v", args, want)
	}
}

func TestRecordArgs_Stereo(t *testing.T) {
	args := RecordArgs(Request{
		InputFormat:   "avfoundation",
		DeviceIndex:   "0",
		TotalChannels: 8,
		SampleRate:    44100,
		StreamIndex:   1,
		Mode:          "stereo",
		StereoLeft:    3,
		StereoRight:   4,
		OutputPath:    "/tmp/take1.wav",
	})

	want := []string{
		"-nostdin", "-hide_banner", "-y",
		"-f", "avfoundation",
		"-i", ":0",
		"-ac", "8",
		"-ar", "44100",
		"-map", "0:1?",
		"-af", "pan=stereo|c0=c2|c1=c3",
		"-ac", "2",
		"/tmp/take1.wav",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("Stereo args mismatch:\n got: %v\nwant: %v", args, want)
	}
}

func TestRecordArgs_MultiHasNoPanFilter(t *testing.T) {
	args := RecordArgs(Request{
		InputFormat:   "pulse",
		DeviceIndex:   "default",
		TotalChannels: 16,
		SampleRate:    48000,
		Mode:          "multi",
		OutputPath:    "/tmp/all.wav",
	})

	for _, arg := range args {
		if arg == "-af" {
			t.Errorf("Multi mode must not carry a channel mapping filter, got: %v", args)
		}
	}
	if args[len(args)-1] != "/tmp/all.wav" {
		t.Errorf("Expected output path as final argument, got: %v", args)
	}
}

func TestDeviceInput(t *testing.T) {
	cases := []struct {
		format string
		device string
		want   string
	}{
		{"avfoundation", "1", ":1"},
		{"dshow", "Microphone", "audio=Microphone"},
		{"pulse", "default", "default"},
		{"alsa", "hw:1,0", "hw:1,0"},
	}

	for _, c := range cases {
		if got := DeviceInput(c.format, c.device); got != c.want {
			t.Errorf("DeviceInput(%q, %q): expected %q, got %q", c.format, c.device, c.want, got)
		}
	}
}
