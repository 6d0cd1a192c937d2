package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the deaddrop CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "deaddrop",
		Short: "deaddrop - zero-trust message relay",
		Long: `A relay that stores signed, end-to-end encrypted records for later
pickup. The relay never sees plaintext: it accepts opaque exchange keys
and ciphertexts, orders them per recipient, and serves them back on
request.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
