package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/k6convert/internal/output"
)

var version = "0.1.0"

// errReported marks errors whose message was already written by the
// command that produced them
var errReported = errors.New("error already reported")

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Each call returns fresh commands with
// their own flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "k6convert",
		Short:   "Convert Postman collections to k6 load test scripts",
		Version: version,
		Long: `k6convert turns a Postman collection (schema v2.0 or v2.1) into a k6 script.
Folders become groups, requests keep their declaration order, and the auth
configured on a request or inherited from its folders is translated into
code that signs or decorates each request at run time.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "Settings file (default: ./.k6convert.yaml when present)")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newAuthTypesCmd())
	return root
}

// Execute runs the root command and prints any error not yet reported.
// This is called by main.Main().
func Execute() error {
	err := RootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprint(os.Stderr, output.NewFormatter(false, !output.ColorEnabled(os.Stderr, false)).FormatError(err))
	}
	return err
}

// colorDisabled reports whether output written to w must stay plain
func colorDisabled(w io.Writer, noColor bool) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !output.ColorEnabled(f, noColor)
}
