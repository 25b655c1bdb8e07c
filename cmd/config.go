package cmd

import (
	"fmt"
	"os"

	"github.com/takelab/takecap/internal/config"

	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage preferences",
	Long:  `View and manage the takecap preference file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a preference file with default tool settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("config file already exists: %s", cfgFile)
		}

		if err := config.Default().Save(cfgFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
