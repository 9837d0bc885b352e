package cache

import "github.com/spf13/cobra"

// CacheCmd is the parent command for permission cache operations
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the running server's permission cache",
	Long:  `Commands for operating on the permission cache of a running authgate server.`,
}

func init() {
	refreshCmd.Flags().StringVar(&serverURLFlag, "server", "", "Base URL of the running server (default derived from SERVER_ADDR)")

	CacheCmd.AddCommand(refreshCmd)
}
