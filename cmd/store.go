package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// storeCmd accepts git's store action without touching the token cache.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "accept a credential from git (no-op)",
	Args:  cobra.NoArgs,
	RunE:  store,
}

func init() {
	RootCmd.AddCommand(storeCmd)
}

func store(cmd *cobra.Command, args []string) error {
	return newHelper().Store(context.Background())
}
