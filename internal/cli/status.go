package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/capnganj/PoisonToadsDapp/internal/dapp"
	"github.com/capnganj/PoisonToadsDapp/internal/output"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// statusCmd shows the current connection and sale state.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show wallet, network and sale status",
	GroupID: groupDapp,
	Long: `Detect the wallet, check its network and read the collection contract.

Nothing is requested from the wallet: if it has not authorized mintdapp yet
the status is "disconnected". Problems such as a wrong network are reported
in the output rather than as a failed command.`,
	Example: `  mintdapp status
  mintdapp status -o json
  mintdapp status --rpc http://127.0.0.1:8545 --provider local`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cc := currentContext()
	session, err := cc.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := bootstrap(ctx, session); err != nil && !reportedInState(err) {
		return err
	}

	return output.RenderState(cc.Formatter.Writer(), session.View(session.Controller.State()), cc.Formatter.Format())
}

// signalContext derives a context cancelled on interrupt.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// bootstrap starts the controller. A reload that lost to a newer one is not
// an error for the caller.
func bootstrap(ctx context.Context, session *Session) error {
	err := session.Controller.Bootstrap(ctx)
	if dapp.IsSuperseded(err) {
		return nil
	}
	return err
}

// reportedInState reports whether err is already shown as the state's error
// overlay, so the command can print the state instead of failing.
func reportedInState(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !errors.Is(err, dapperr.ErrConfigInvalid) && !errors.Is(err, dapperr.ErrInvalidAddress)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(statusCmd)
}
