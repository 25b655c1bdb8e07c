package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/takelab/takecap/internal/capture"
	"github.com/takelab/takecap/internal/session"
)

// Config holds the persisted preferences. The first group pre-fills the
// recording request and any subset may be absent from the file; the second
// group configures the capture tool and always carries defaults.
type Config struct {
	DeviceIndex       string `mapstructure:"device_index" yaml:"device_index,omitempty"`
	FileName          string `mapstructure:"file_name" yaml:"file_name,omitempty"`
	DestinationFolder string `mapstructure:"destination_folder" yaml:"destination_folder,omitempty"`
	RecordMode        string `mapstructure:"record_mode" yaml:"record_mode,omitempty"`
	MonoChannel       int    `mapstructure:"mono_channel" yaml:"mono_channel,omitempty"`
	StereoPair        string `mapstructure:"stereo_pair" yaml:"stereo_pair,omitempty"`

	TotalChannels   int    `mapstructure:"total_channels" yaml:"total_channels,omitempty"`
	StreamIndex     int    `mapstructure:"stream_index" yaml:"stream_index"`
	SampleRate      int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Extension       string `mapstructure:"extension" yaml:"extension"`
	InputFormat     string `mapstructure:"input_format" yaml:"input_format"`
	Command         string `mapstructure:"command" yaml:"command"`
	StopTimeoutSecs int    `mapstructure:"stop_timeout_seconds" yaml:"stop_timeout_seconds"`
}

// Default returns the tool settings used when no preference file exists.
// Recording fields stay empty: they require manual entry before a session
// can start.
func Default() *Config {
	return &Config{
		SampleRate:      48000,
		Extension:       "wav",
		InputFormat:     capture.DefaultInputFormat(),
		Command:         "ffmpeg",
		StopTimeoutSecs: 5,
	}
}

// DefaultPath returns the preference file location used when --config is not
// given.
func DefaultPath() string {
	return os.ExpandEnv("$HOME/.config/takecap.yaml")
}

// Load reads the preference file. A missing file is not an error: the
// defaults apply and every recording field must come from flags.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		return nil, fmt.Errorf("no config file specified")
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetEnvPrefix("TAKECAP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyDefaults(cfg)
	cfg.DestinationFolder = expandPath(cfg.DestinationFolder)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Save writes the preferences back to disk.
func (c *Config) Save(configFile string) error {
	if configFile == "" {
		return fmt.Errorf("no config file specified")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configFile, err)
	}

	return nil
}

// Validate checks the value ranges of whatever keys are present. Absent
// recording fields are fine; they just require manual entry later.
func Validate(cfg *Config) error {
	if cfg.RecordMode != "" {
		if _, err := session.ParseMode(cfg.RecordMode); err != nil {
			return fmt.Errorf("record_mode must be 'mono', 'stereo' or 'multi', got: %q", cfg.RecordMode)
		}
	}
	if cfg.MonoChannel < 0 {
		return fmt.Errorf("mono_channel must be a positive channel number, got: %d", cfg.MonoChannel)
	}
	if cfg.StereoPair != "" {
		if _, _, err := session.ParseStereoPair(cfg.StereoPair); err != nil {
			return fmt.Errorf("stereo_pair must be two adjacent ascending channels like \"1-2\", got: %q", cfg.StereoPair)
		}
	}
	if cfg.FileName != "" && strings.ContainsAny(cfg.FileName, `/\`) {
		return fmt.Errorf("file_name must not contain path separators, got: %q", cfg.FileName)
	}
	if cfg.TotalChannels < 0 {
		return fmt.Errorf("total_channels must be >= 1, got: %d", cfg.TotalChannels)
	}
	if cfg.StreamIndex < 0 || cfg.StreamIndex > 1 {
		return fmt.Errorf("stream_index must be 0 or 1, got: %d", cfg.StreamIndex)
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be > 0, got: %d", cfg.SampleRate)
	}
	if cfg.StopTimeoutSecs <= 0 {
		return fmt.Errorf("stop_timeout_seconds must be > 0, got: %d", cfg.StopTimeoutSecs)
	}

	return nil
}

// ToolOptions maps the tool settings into controller options.
func (c *Config) ToolOptions() session.Options {
	return session.Options{
		Command:       c.Command,
		InputFormat:   c.InputFormat,
		SampleRate:    c.SampleRate,
		Extension:     c.Extension,
		TotalChannels: c.TotalChannels,
		StopTimeout:   time.Duration(c.StopTimeoutSecs) * time.Second,
	}
}

// Params pre-fills a recording request from the stored preferences. Absent
// keys leave the corresponding fields zero; callers overlay flag values and
// the controller rejects anything still missing.
func (c *Config) Params() session.Params {
	return session.Params{
		DeviceIndex:       c.DeviceIndex,
		FileName:          c.FileName,
		DestinationFolder: c.DestinationFolder,
		Mode:              session.Mode(c.RecordMode),
		MonoChannel:       c.MonoChannel,
		StereoPair:        c.StereoPair,
		TotalChannels:     c.TotalChannels,
		StreamIndex:       c.StreamIndex,
	}
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.SampleRate == 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Extension == "" {
		cfg.Extension = def.Extension
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = def.InputFormat
	}
	if cfg.Command == "" {
		cfg.Command = def.Command
	}
	if cfg.StopTimeoutSecs == 0 {
		cfg.StopTimeoutSecs = def.StopTimeoutSecs
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
