package accounts

import "github.com/spf13/cobra"

// AccountsCmd is the parent command for account management operations
var AccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage login accounts",
	Long:  `Commands for managing login accounts directly from the server.`,
}

func init() {
	createCmd.Flags().StringVar(&nameFlag, "name", "", "Account name (required)")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Password for the account (use --stdin to avoid shell history)")
	createCmd.Flags().StringVar(&domainFlag, "domain", "core", "Domain code the account belongs to")
	createCmd.Flags().StringSliceVar(&rolesInput, "role", []string{}, "Role(s) to bind to the account")
	createCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin instead of --password flag")

	AccountsCmd.AddCommand(createCmd)
	AccountsCmd.AddCommand(listCmd)
}
