package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// getCmd answers git's credential query on stdout. A declined request is
// still exit 0 with an empty response; git shows its own failure UI.
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "produce a bearer credential for the request on stdin",
	Args:  cobra.NoArgs,
	RunE:  get,
}

func init() {
	RootCmd.AddCommand(getCmd)
}

func get(cmd *cobra.Command, args []string) error {
	// an interrupt mid browser or device-code flow leaves the cache
	// untouched and declines the request
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newHelper().Get(ctx)
}
