package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wishlist",
		Short:         "Wishlist manager: web UI, JSON API and Telegram bot over one store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newListCmd(),
		newAddCmd(),
	)
	return root
}
