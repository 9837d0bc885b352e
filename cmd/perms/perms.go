package perms

import "github.com/spf13/cobra"

// PermsCmd is the parent command for permission management operations
var PermsCmd = &cobra.Command{
	Use:   "perms",
	Short: "Manage permission records",
	Long:  `Commands for inspecting and soft-disabling permission records.`,
}

func init() {
	disableCmd.Flags().Int64Var(&disableIDFlag, "id", 0, "Permission id to disable (required)")

	PermsCmd.AddCommand(listCmd)
	PermsCmd.AddCommand(disableCmd)
}
