package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/capnganj/PoisonToadsDapp/internal/dapp"
	"github.com/capnganj/PoisonToadsDapp/internal/output"
)

// watchCmd follows the state as the wallet changes account or network.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow wallet and sale status until interrupted",
	GroupID: groupDapp,
	Long: `Print the status every time it changes.

Switching account or network in the wallet is picked up within the provider
poll interval. With -o json every update is a separate JSON document. Stop
with Ctrl-C.`,
	Example: `  mintdapp watch
  mintdapp watch -o json | jq .phase`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cc := currentContext()
	session, err := cc.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	return watchStates(ctx, session, cc.Formatter.Writer(), cc.Formatter.Format(), cc.Logger.Named("watch"))
}

// watchStates bootstraps the controller and renders every published state
// until ctx is done.
func watchStates(ctx context.Context, session *Session, w io.Writer, format output.Format, log *zap.Logger) error {
	states := make(chan dapp.State, 16)
	sub := session.Controller.Subscribe(states)
	defer sub.Unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := bootstrap(gctx, session)
		if err != nil && !reportedInState(err) {
			return err
		}
		if err != nil {
			log.Debug("bootstrap finished with error", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		// Publishing blocks until every subscriber has received the state.
		// Leave the feed as soon as nothing reads from states anymore.
		defer sub.Unsubscribe()

		first := true
		for {
			select {
			case state := <-states:
				if !first && format != output.FormatJSON {
					outln(w)
				}
				first = false
				if err := output.RenderState(w, session.View(state), format); err != nil {
					return err
				}
			case err := <-sub.Err():
				return err
			case <-gctx.Done():
				return nil
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(watchCmd)
}
