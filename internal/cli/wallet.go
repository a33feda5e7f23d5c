package cli

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/capnganj/PoisonToadsDapp/internal/output"
	"github.com/capnganj/PoisonToadsDapp/internal/wallet"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// createWords is the number of words for mnemonic generation.
	createWords int
	// walletIndex overrides the configured account index.
	walletIndex uint32
)

// walletCmd is the parent command for the local keystore.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCmd = &cobra.Command{
	Use:     "wallet",
	Short:   "Manage the local keystore wallet",
	GroupID: groupWallet,
	Long: `Create, import and inspect the keystore used by the local provider.

The keystore holds one BIP39 recovery phrase encrypted with your passphrase.
mintdapp signs with the account at m/44'/60'/0'/0/<index>.`,
}

// walletCreateCmd creates a new keystore.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a keystore with a new recovery phrase",
	Long: `Generate a new BIP39 recovery phrase and store it encrypted.

The recovery phrase is displayed once. Write it down and keep it offline;
it is the only way to recover the account.`,
	Example: `  mintdapp wallet create
  mintdapp wallet create --words 24
  mintdapp wallet create --index 1`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWallet: walletPassphrase},
	RunE:        runWalletCreate,
}

// walletImportCmd imports an existing recovery phrase.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a keystore from an existing recovery phrase",
	Long: `Import a BIP39 recovery phrase and store it encrypted.

Numbered or bulleted lists and commas are accepted. Misspelled words are
reported with the closest valid word.`,
	Example: `  mintdapp wallet import
  mintdapp wallet import --index 2`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWallet: walletPassphrase},
	RunE:        runWalletImport,
}

// walletShowCmd shows the keystore metadata.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the keystore account",
	Long:  `Show the account address and derivation path of the keystore. No passphrase is needed.`,
	Example: `  mintdapp wallet show
  mintdapp wallet show -o json`,
	Args: cobra.NoArgs,
	RunE: runWalletShow,
}

// WalletResult is the JSON output of the wallet commands.
type WalletResult struct {
	Address        string    `json:"address"`
	DerivationPath string    `json:"derivation_path"`
	AccountIndex   uint32    `json:"account_index"`
	Keystore       string    `json:"keystore"`
	CreatedAt      time.Time `json:"created_at"`
	Mnemonic       string    `json:"mnemonic,omitempty"`
}

func newWalletResult(meta wallet.Metadata, path string) WalletResult {
	return WalletResult{
		Address:        meta.Address.Hex(),
		DerivationPath: meta.Path,
		AccountIndex:   meta.AccountIndex,
		Keystore:       path,
		CreatedAt:      meta.CreatedAt,
	}
}

// accountIndex returns --index when given, the configured index otherwise.
func accountIndex(cmd *cobra.Command) uint32 {
	if cmd.Flags().Changed("index") {
		return walletIndex
	}
	return cfg.Wallet.AccountIndex
}

func runWalletCreate(cmd *cobra.Command, _ []string) error {
	cc := currentContext()

	mnemonic, err := wallet.GenerateMnemonic(createWords)
	if err != nil {
		return err
	}

	meta, err := saveKeystore(cc, mnemonic, accountIndex(cmd))
	if err != nil {
		return err
	}

	result := newWalletResult(meta, cc.Config.KeystorePath())
	if cc.Formatter.IsJSON() {
		result.Mnemonic = mnemonic
		return cc.Formatter.Print(result)
	}

	w := cc.Formatter.Writer()
	output.Successf(w, "Keystore created at %s", result.Keystore)
	outln(w)
	output.Warn(w, "Write down your recovery phrase. It will not be shown again.")
	outln(w)
	for i, word := range strings.Fields(mnemonic) {
		out(w, "%3d. %s\n", i+1, word)
	}
	outln(w)
	return renderWallet(w, result)
}

func runWalletImport(cmd *cobra.Command, _ []string) error {
	cc := currentContext()

	phrase, err := promptMnemonicFn()
	if err != nil {
		return err
	}

	mnemonic := wallet.NormalizeMnemonicInput(phrase)
	if err := wallet.ValidateMnemonic(mnemonic); err != nil {
		return err
	}

	meta, err := saveKeystore(cc, mnemonic, accountIndex(cmd))
	if err != nil {
		return err
	}

	result := newWalletResult(meta, cc.Config.KeystorePath())
	if cc.Formatter.IsJSON() {
		return cc.Formatter.Print(result)
	}

	w := cc.Formatter.Writer()
	output.Successf(w, "Keystore imported to %s", result.Keystore)
	outln(w)
	return renderWallet(w, result)
}

func runWalletShow(_ *cobra.Command, _ []string) error {
	cc := currentContext()

	keystore := wallet.NewKeystore(cc.Config.KeystorePath())
	meta, err := keystore.Metadata()
	if err != nil {
		return err
	}

	result := newWalletResult(meta, keystore.Path)
	if cc.Formatter.IsJSON() {
		return cc.Formatter.Print(result)
	}
	return renderWallet(cc.Formatter.Writer(), result)
}

// saveKeystore prompts for a new passphrase and writes the keystore.
func saveKeystore(cc *CommandContext, mnemonic string, index uint32) (wallet.Metadata, error) {
	keystore := wallet.NewKeystore(cc.Config.KeystorePath())
	if keystore.Exists() {
		return wallet.Metadata{}, dapperr.WithSuggestion(
			dapperr.WithDetails(dapperr.ErrKeystoreExists, map[string]string{"path": keystore.Path}),
			"move the existing keystore away or point wallet.keystore at a new file",
		)
	}

	passphrase, err := promptNewPasswordFn()
	if err != nil {
		return wallet.Metadata{}, err
	}
	defer zeroBytes(passphrase)

	meta, err := keystore.Save(mnemonic, string(passphrase), index)
	if err != nil {
		return wallet.Metadata{}, err
	}
	cc.Logger.Zap().Info("keystore written")
	return meta, nil
}

func renderWallet(w io.Writer, result WalletResult) error {
	var fields output.Fields
	fields.Add("Address", result.Address).
		Add("Path", result.DerivationPath).
		Add("Keystore", result.Keystore).
		Add("Created", result.CreatedAt.Format(time.RFC3339))
	return fields.Render(w)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCreateCmd.Flags().IntVarP(&createWords, "words", "w", 12, "number of words: 12 or 24")
	walletCreateCmd.Flags().Uint32Var(&walletIndex, "index", 0, "account index to sign with (default from config)")
	walletImportCmd.Flags().Uint32Var(&walletIndex, "index", 0, "account index to sign with (default from config)")

	walletCmd.AddCommand(walletCreateCmd, walletImportCmd, walletShowCmd)
	rootCmd.AddCommand(walletCmd)
}
