package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digiflydk/studio-sub001/internal/daemon"
)

// SyncActor is recorded on header documents written from the command line.
const SyncActor = "cli:sync-header"

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(syncHeaderCmd)
}

var syncHeaderCmd = &cobra.Command{
	Use:   "sync-header",
	Short: "Derive the CMS header document from the general settings",
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		defer func() {
			_ = d.Close()
		}()

		res, err := d.SyncHeader(cmd.Context(), SyncActor)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "synced %s to version %d\n", res.Path, res.Version)

		return err
	},
}
