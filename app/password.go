package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(hashPasswordCmd)
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the argon2id hash to put below [Admin.Users]",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)

		return err
	},
}
