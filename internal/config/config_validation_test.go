package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.DeviceIndex = "1"
	cfg.FileName = "take1"
	cfg.DestinationFolder = "/tmp/recordings"
	cfg.RecordMode = "mono"
	cfg.MonoChannel = 3
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Expected valid config to pass, got: %v", err)
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Expected defaults to pass, got: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"unknown record mode", func(c *Config) { c.RecordMode = "quad" }, "record_mode"},
		{"negative mono channel", func(c *Config) { c.MonoChannel = -1 }, "mono_channel"},
		{"non-adjacent stereo pair", func(c *Config) { c.StereoPair = "3-5" }, "stereo_pair"},
		{"descending stereo pair", func(c *Config) { c.StereoPair = "4-3" }, "stereo_pair"},
		{"file name with separator", func(c *Config) { c.FileName = "a/b" }, "file_name"},
		{"negative total channels", func(c *Config) { c.TotalChannels = -2 }, "total_channels"},
		{"stream index out of range", func(c *Config) { c.StreamIndex = 2 }, "stream_index"},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, "sample_rate"},
		{"zero stop timeout", func(c *Config) { c.StopTimeoutSecs = 0 }, "stop_timeout"},
	}

	for _, c := range cases {
		cfg := validConfig()
		c.mutate(cfg)
		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected validation error", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.wantMsg) {
			t.Errorf("%s: expected error mentioning %q, got: %v", c.name, c.wantMsg, err)
		}
	}
}

func TestValidate_AbsentRecordingFieldsAllowed(t *testing.T) {
	cfg := Default()
	cfg.RecordMode = ""
	cfg.StereoPair = ""
	cfg.FileName = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected absent recording fields to pass, got: %v", err)
	}
}
