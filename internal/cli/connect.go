package cli

import (
	"github.com/spf13/cobra"

	"github.com/capnganj/PoisonToadsDapp/internal/output"
)

// connectCmd asks the wallet for account access.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:     "connect",
	Short:   "Authorize mintdapp in your wallet",
	GroupID: groupDapp,
	Long: `Ask the wallet for access to its accounts, then read the collection.

The wallet shows an approval prompt the first time. If the wallet has already
authorized mintdapp this is the same as "mintdapp status".`,
	Example: `  mintdapp connect
  mintdapp connect -o json`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWallet: walletAccounts},
	RunE:        runConnect,
}

func runConnect(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cc := currentContext()
	session, err := cc.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := bootstrap(ctx, session); err != nil {
		return err
	}
	if err := session.Controller.Connect(ctx); err != nil {
		return err
	}

	return output.RenderState(cc.Formatter.Writer(), session.View(session.Controller.State()), cc.Formatter.Format())
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)
}
