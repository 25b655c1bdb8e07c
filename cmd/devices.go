package cmd

import (
	"fmt"
	"strings"

	"github.com/takelab/takecap/internal/capture"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio input devices",
	Long: `List the audio input devices the capture tool reports, with the
channel count inferred from each device name.

Use the printed index as the device value for recording.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := capture.ListDevices(cfg.Command, cfg.InputFormat)
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}

		fmt.Printf("🎤 Audio input devices (%s, %d found):\n", cfg.InputFormat, len(devices))
		if len(devices) == 0 {
			fmt.Println("  none reported (is the capture tool installed?)")
			return nil
		}

		for _, device := range devices {
			pairs := capture.StereoPairs(device.Channels)
			fmt.Printf("  [%s] %s (%d channels, stereo pairs: %s)\n",
				device.Index, device.Name, device.Channels, strings.Join(pairs, ", "))
		}

		fmt.Printf("\n💡 Usage:\n")
		fmt.Printf("  takecap record -d <index> -n take1 -o ~/Recordings -m stereo --pair 1-2\n")

		return nil
	},
}
