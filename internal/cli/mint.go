package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capnganj/PoisonToadsDapp/internal/chain"
	"github.com/capnganj/PoisonToadsDapp/internal/dapp"
	"github.com/capnganj/PoisonToadsDapp/internal/output"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	mintAmount uint64
	mintYes    bool
)

// mintCmd submits a mint transaction.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mintCmd = &cobra.Command{
	Use:     "mint",
	Short:   "Mint tokens from the collection",
	GroupID: groupDapp,
	Long: `Mint tokens to the connected account.

The value sent is the amount times the price the contract quotes for your
account, which may be discounted. The contract decides whether the mint is
allowed: a paused sale, an amount above the per-transaction limit or a sold
out collection are rejected by the contract and reported here.

The command returns as soon as the wallet has submitted the transaction.`,
	Example: `  mintdapp mint
  mintdapp mint --amount 3
  mintdapp mint -n 2 --yes -o json`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWallet: walletSigns},
	RunE:        runMint,
}

// MintResult is the JSON output of a submitted mint.
type MintResult struct {
	Transaction string `json:"transaction"`
	From        string `json:"from"`
	Amount      uint64 `json:"amount"`
	Value       string `json:"value"`
	ValueWei    string `json:"value_wei"`
}

func runMint(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cc := currentContext()
	session, err := cc.Open()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := ensureReady(ctx, session); err != nil {
		return err
	}

	state := session.Controller.State()
	symbol := cc.Config.Collection.CurrencySymbol
	value := state.Snapshot.MintValue(mintAmount)

	if mintAmount > 0 && !mintYes && !cc.Formatter.IsJSON() {
		question := fmt.Sprintf("Mint %d for %s from %s?", mintAmount, chain.FormatNative(value, symbol), state.Address.Hex())
		if !promptConfirmFn(question) {
			return dapperr.WithSuggestion(dapperr.ErrTxRejected, "mint cancelled")
		}
	}

	hash, err := session.Controller.Mint(ctx, mintAmount)
	if err != nil {
		return err
	}

	result := MintResult{
		Transaction: hash.Hex(),
		From:        state.Address.Hex(),
		Amount:      mintAmount,
		Value:       chain.FormatNative(value, symbol),
		ValueWei:    value.String(),
	}
	if cc.Formatter.IsJSON() {
		return cc.Formatter.Print(result)
	}

	w := cc.Formatter.Writer()
	output.Successf(w, "Mint of %d submitted for %s", result.Amount, result.Value)
	out(w, "Transaction: %s\n", result.Transaction)
	return nil
}

// ensureReady bootstraps the controller and connects when the wallet has not
// authorized an account yet.
func ensureReady(ctx context.Context, session *Session) error {
	if err := bootstrap(ctx, session); err != nil {
		return err
	}

	c := session.Controller
	if !c.IsWalletConnected() {
		if err := c.Connect(ctx); err != nil && !dapp.IsSuperseded(err) {
			return err
		}
	}

	if state := c.State(); state.Phase != dapp.PhaseReady {
		if state.Error != nil {
			return dapperr.WithSuggestion(dapperr.ErrNotReady, state.Error.String())
		}
		return dapperr.ErrNotReady
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	mintCmd.Flags().Uint64VarP(&mintAmount, "amount", "n", 1, "number of tokens to mint")
	mintCmd.Flags().BoolVarP(&mintYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(mintCmd)
}
