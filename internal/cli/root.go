// Package cli implements the mintdapp command-line interface.
//
// State lives in package-level variables, as usual for Cobra applications.
// The globals are initialized in PersistentPreRunE and released in
// PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/config"
	"github.com/capnganj/PoisonToadsDapp/internal/metrics"
	"github.com/capnganj/PoisonToadsDapp/internal/output"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// Command groups shown in root help.
const (
	groupDapp   = "dapp"
	groupWallet = "wallet"
	groupOther  = "other"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	rpcURL       string
	providerMode string

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	// stdout and stderr are swapped by tests.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	helpOnce sync.Once
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mintdapp",
	Short: "Mint Poison Toads from the terminal",
	Long: `mintdapp connects to your wallet, checks that it is on the network the
Poison Toads collection is deployed on, shows the live state of the sale and
submits mint transactions.

Two wallet backends are supported. The external backend talks to a wallet
that exposes a JSON-RPC endpoint (Frame listens on http://127.0.0.1:1248) and
leaves signing to it. The local backend talks to any node and signs with a
keystore created by "mintdapp wallet create".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	helpOnce.Do(func() { walkCommands(rootCmd, enrichHelp) })

	err := rootCmd.Execute()
	if err != nil {
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(stderr, err, format)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return dapperr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		if !os.IsNotExist(err) {
			return dapperr.WithCause(dapperr.ErrConfigInvalid, err)
		}
		cfg = config.Defaults()
	}
	cfg.Home = home

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	rebaseHome(cfg)

	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}
	if rpcURL != "" {
		cfg.Provider.RPC = config.SanitizeURL(rpcURL)
	}
	if providerMode != "" {
		cfg.Provider.Mode = providerMode
	}

	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	logger, err = config.NewLogger(logLevel, cfg.Logging.File, cfg.Logging.Encoding)
	if err != nil {
		logger = config.NullLogger()
	}

	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	formatter = output.NewFormatter(output.DetectFormat(stdout, explicitFormat), stdout)

	return nil
}

// rebaseHome moves the keystore and log file under a non-default home when
// the config still points at the default locations.
func rebaseHome(c *config.Config) {
	defaults := config.Defaults()
	if config.ExpandHome(c.Home) == config.DefaultHome() {
		return
	}
	if c.Wallet.Keystore == defaults.Wallet.Keystore {
		c.Wallet.Keystore = filepath.Join(c.Home, filepath.Base(defaults.Wallet.Keystore))
	}
	if c.Logging.File == defaults.Logging.File {
		c.Logging.File = filepath.Join(c.Home, filepath.Base(defaults.Logging.File))
	}
}

// cleanup logs the session metrics and releases the logger.
func cleanup() {
	if logger == nil {
		return
	}
	snap := metrics.Global.Snapshot()
	logger.Zap().Debug("session metrics",
		zap.Int64("rpc_calls", snap.RPCCallsTotal),
		zap.Int64("rpc_errors", snap.RPCErrorsTotal),
		zap.Float64("rpc_latency_avg_ms", metrics.Global.RPCLatencyAvgMs()),
		zap.Int64("reloads_committed", snap.ReloadsCommitted),
		zap.Int64("reloads_superseded", snap.ReloadsSuperseded),
		zap.Int64("mints_submitted", snap.MintsSubmitted),
		zap.Int64("mints_failed", snap.MintsFailed),
	)
	_ = logger.Close()
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupDapp, Title: "Minting:"},
		&cobra.Group{ID: groupWallet, Title: "Wallet:"},
		&cobra.Group{ID: groupOther, Title: "Other:"},
	)
	rootCmd.SetHelpCommandGroupID(groupOther)
	rootCmd.SetCompletionCommandGroupID(groupOther)

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "mintdapp data directory (default: ~/.mintdapp)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "wallet or node JSON-RPC endpoint")
	rootCmd.PersistentFlags().StringVar(&providerMode, "provider", "", "wallet backend: external, local")
}
