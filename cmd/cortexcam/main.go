// Package main provides the CLI entry point for cortexcam.
package main

import (
	"fmt"
	"os"

	"github.com/normanking/cortexcam/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	version = "dev"

	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cortexcam",
		Short: "Camera behavior core for interactive 3D viewers",
		Long: `cortexcam drives a virtual camera through orbit, fly and scripted
playback modes and streams the resulting pose to a renderer.

Use 'cortexcam [command] --help' for more information.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.cortexcam/config.yaml)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newRotateTrackCmd())
	rootCmd.AddCommand(newBoundsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file, falling back to the default location
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err == nil {
			path = p
		}
	}
	return config.Load(path)
}
