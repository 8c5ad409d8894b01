package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// eraseCmd drops the cached account token for the request on stdin.
var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "remove the cached token for the request on stdin",
	Args:  cobra.NoArgs,
	RunE:  erase,
}

func init() {
	RootCmd.AddCommand(eraseCmd)
}

func erase(cmd *cobra.Command, args []string) error {
	return newHelper().Erase(context.Background())
}
