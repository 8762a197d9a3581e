package main

import (
	"fmt"

	"github.com/jrsteele09/go-stateless-auth/internal/config"
	"github.com/jrsteele09/go-stateless-auth/provider"
	"github.com/spf13/cobra"
)

// loginURLCmd prints the authorization URL for the configured tenant,
// handy for checking the reply URL registration.
func loginURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login-url",
		Short: "Print the identity provider authorization URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			providerCfg, err := config.LoadProviderConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), provider.AuthorizationURL(providerCfg))
			return nil
		},
	}
}
