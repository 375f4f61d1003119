package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaos-io/colorkey/server"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve background removal over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("spool", filepath.Join(os.TempDir(), "colorkey"), "Directory for stored results")
	serveCmd.Flags().Duration("retention", time.Hour, "How long stored results are kept")
	serveCmd.Flags().Duration("purge-every", 10*time.Minute, "Interval between spool purges")
	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := server.Options{}
	opts.Addr, _ = cmd.Flags().GetString("addr")
	opts.SpoolDir, _ = cmd.Flags().GetString("spool")
	opts.Retention, _ = cmd.Flags().GetDuration("retention")
	opts.PurgeEvery, _ = cmd.Flags().GetDuration("purge-every")

	srv, err := server.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
