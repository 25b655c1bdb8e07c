package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "takecap.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	configFile := createTempConfig(t, `
device_index: "1"
file_name: take1
destination_folder: /tmp/recordings
record_mode: stereo
stereo_pair: 3-4
total_channels: 16
stream_index: 1
sample_rate: 44100
extension: flac
command: /usr/local/bin/ffmpeg
stop_timeout_seconds: 10
`)

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DeviceIndex != "1" || cfg.FileName != "take1" || cfg.DestinationFolder != "/tmp/recordings" {
		t.Errorf("Recording fields not loaded: %+v", cfg)
	}
	if cfg.RecordMode != "stereo" || cfg.StereoPair != "3-4" {
		t.Errorf("Channel selection not loaded: %+v", cfg)
	}
	if cfg.TotalChannels != 16 || cfg.StreamIndex != 1 {
		t.Errorf("Capture tuning not loaded: %+v", cfg)
	}
	if cfg.SampleRate != 44100 || cfg.Extension != "flac" || cfg.Command != "/usr/local/bin/ffmpeg" || cfg.StopTimeoutSecs != 10 {
		t.Errorf("Tool settings not loaded: %+v", cfg)
	}
}

func TestLoad_PartialConfigAppliesDefaults(t *testing.T) {
	configFile := createTempConfig(t, `
device_index: "2"
record_mode: mono
mono_channel: 5
`)

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Present keys
	if cfg.DeviceIndex != "2" || cfg.RecordMode != "mono" || cfg.MonoChannel != 5 {
		t.Errorf("Present keys not loaded: %+v", cfg)
	}

	// Absent recording fields stay unset, requiring manual entry
	if cfg.FileName != "" || cfg.DestinationFolder != "" || cfg.StereoPair != "" {
		t.Errorf("Absent keys must stay unset: %+v", cfg)
	}

	// Tool settings fall back to defaults
	if cfg.SampleRate != 48000 || cfg.Extension != "wav" || cfg.Command != "ffmpeg" || cfg.StopTimeoutSecs != 5 {
		t.Errorf("Defaults not applied: %+v", cfg)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got: %v", err)
	}
	if cfg.Command != "ffmpeg" || cfg.SampleRate != 48000 {
		t.Errorf("Expected defaults for missing file, got: %+v", cfg)
	}
	if cfg.DeviceIndex != "" {
		t.Errorf("Expected recording fields unset, got: %+v", cfg)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Expected error for empty config path")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "takecap.yaml")

	cfg := Default()
	cfg.DeviceIndex = "1"
	cfg.FileName = "take1"
	cfg.DestinationFolder = "/tmp/recordings"
	cfg.RecordMode = "mono"
	cfg.MonoChannel = 3

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	if loaded.DeviceIndex != "1" || loaded.FileName != "take1" || loaded.RecordMode != "mono" || loaded.MonoChannel != 3 {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}

func TestLoad_ExpandsTildeDestination(t *testing.T) {
	configFile := createTempConfig(t, `
destination_folder: ~/Recordings
`)

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.DestinationFolder != filepath.Join(home, "Recordings") {
		t.Errorf("Tilde not expanded: %s", cfg.DestinationFolder)
	}
}

func TestToolOptions(t *testing.T) {
	cfg := Default()
	cfg.Command = "stub"
	cfg.StopTimeoutSecs = 7

	opts := cfg.ToolOptions()
	if opts.Command != "stub" {
		t.Errorf("Expected command 'stub', got: %s", opts.Command)
	}
	if opts.StopTimeout != 7*time.Second {
		t.Errorf("Expected 7s stop timeout, got: %v", opts.StopTimeout)
	}
	if opts.SampleRate != 48000 || opts.Extension != "wav" {
		t.Errorf("Tool options mismatch: %+v", opts)
	}
}

func TestParams_PrefillsFromPreferences(t *testing.T) {
	cfg := Default()
	cfg.DeviceIndex = "1"
	cfg.FileName = "take1"
	cfg.DestinationFolder = "/tmp/recordings"
	cfg.RecordMode = "stereo"
	cfg.StereoPair = "1-2"

	p := cfg.Params()
	if p.DeviceIndex != "1" || p.FileName != "take1" || p.DestinationFolder != "/tmp/recordings" {
		t.Errorf("Params prefill mismatch: %+v", p)
	}
	if string(p.Mode) != "stereo" || p.StereoPair != "1-2" {
		t.Errorf("Params mode prefill mismatch: %+v", p)
	}
}
