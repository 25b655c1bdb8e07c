package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takelab/takecap/internal/session"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Start a recording and stop it on Ctrl+C",
	Long: `Start recording from the configured input device. Flags override the
stored preferences for this run; --save persists the effective values back to
the preference file.

The recording runs until interrupted (Ctrl+C), which stops the capture tool
gracefully so it can finalize the output file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := cfg.Params()
		overlayFlags(cmd, &params)

		ctrl := session.NewController(cfg.ToolOptions())
		if err := ctrl.Start(params); err != nil {
			return fmt.Errorf("failed to start recording: %w", err)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			persistParams(params)
		}

		fmt.Printf("Recording to %s (press Ctrl+C to stop)\n", ctrl.OutputPath())

		// Handle interruption
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		// Poll for the capture process dying underneath us while we wait
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-sigChan:
				slog.Info("Stopping recording...")
				err := ctrl.Stop()
				if errors.Is(err, session.ErrUngracefulStop) {
					slog.Warn("Recording saved, but the capture tool had to be killed", "output", ctrl.OutputPath())
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to stop recording: %w", err)
				}
				fmt.Printf("Saved %s\n", ctrl.OutputPath())
				return nil

			case <-ticker.C:
				if ctrl.State() == session.StateFailed {
					return ctrl.Err()
				}
			}
		}
	},
}

// overlayFlags applies per-run flag overrides on top of the stored
// preferences.
func overlayFlags(cmd *cobra.Command, params *session.Params) {
	if device, _ := cmd.Flags().GetString("device"); device != "" {
		params.DeviceIndex = device
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		params.FileName = name
	}
	if dest, _ := cmd.Flags().GetString("dest"); dest != "" {
		params.DestinationFolder = dest
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		params.Mode = session.Mode(mode)
	}
	if channel, _ := cmd.Flags().GetInt("channel"); channel != 0 {
		params.MonoChannel = channel
	}
	if pair, _ := cmd.Flags().GetString("pair"); pair != "" {
		params.StereoPair = pair
	}
	if total, _ := cmd.Flags().GetInt("total-channels"); total != 0 {
		params.TotalChannels = total
	}
	if stream, _ := cmd.Flags().GetInt("stream"); cmd.Flags().Changed("stream") {
		params.StreamIndex = stream
	}
}

// persistParams writes the effective recording parameters back to the
// preference file so the next session starts pre-filled.
func persistParams(params session.Params) {
	cfg.DeviceIndex = params.DeviceIndex
	cfg.FileName = params.FileName
	cfg.DestinationFolder = params.DestinationFolder
	cfg.RecordMode = string(params.Mode)
	cfg.MonoChannel = params.MonoChannel
	cfg.StereoPair = params.StereoPair
	cfg.TotalChannels = params.TotalChannels
	cfg.StreamIndex = params.StreamIndex

	if err := cfg.Save(cfgFile); err != nil {
		slog.Warn("Could not save preferences", "file", cfgFile, "error", err)
	} else {
		slog.Debug("Preferences saved", "file", cfgFile)
	}
}

func init() {
	recordCmd.Flags().StringP("device", "d", "", "input device index (overrides config)")
	recordCmd.Flags().StringP("name", "n", "", "output file base name (overrides config)")
	recordCmd.Flags().StringP("dest", "o", "", "destination folder (overrides config)")
	recordCmd.Flags().StringP("mode", "m", "", "record mode: mono, stereo or multi (overrides config)")
	recordCmd.Flags().Int("channel", 0, "mono channel number (overrides config)")
	recordCmd.Flags().String("pair", "", "stereo pair, e.g. 3-4 (overrides config)")
	recordCmd.Flags().Int("total-channels", 0, "channels to open on the device (overrides config)")
	recordCmd.Flags().Int("stream", 0, "audio stream index, 0 or 1 (overrides config)")
	recordCmd.Flags().Bool("save", false, "persist the effective parameters to the preference file")
}
