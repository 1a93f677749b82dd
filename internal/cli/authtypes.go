package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/k6convert/internal/auth"
)

func newAuthTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-types",
		Short: "List the auth types the converter can translate",
		Long: `List every auth strategy tag with a short description.

Postman's oauth1 auth maps onto one of the oauth1-* tags depending on its
signature method, where the parameters are sent, and the request method.
Its oauth2 auth maps onto oauth2-header or oauth2-query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := auth.DefaultRegistry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, t := range registry.Types() {
				strategy, _ := registry.Lookup(t)
				fmt.Fprintf(w, "%s\t%s\n", t, strategy.Description())
			}
			return w.Flush()
		},
	}
}
