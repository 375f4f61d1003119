package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chaos-io/colorkey/rembg"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colorkey <input> <output>",
		Short: "Make a background color transparent and write the result as PNG",
		Example: `  colorkey input.png output.png --color 74,55,255 --tolerance 30
  colorkey photo.jpg cut.png            # sample the top-left pixel`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
		RunE: runRemove,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().String("color", "", "Background RGB color to remove, e.g. 255,255,255 (default: top-left pixel)")
	rootCmd.Flags().Int("tolerance", rembg.DefaultTolerance, "Per-channel tolerance for color matching (0-255)")
	rootCmd.Flags().Int("max-size", 0, "Downscale so the longest side is at most this many pixels (0 keeps the size)")
	rootCmd.Flags().String("remote", "", "Process on a colorkey server at this base URL instead of locally")

	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
