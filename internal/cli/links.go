package cli

import (
	"github.com/spf13/cobra"

	"github.com/capnganj/PoisonToadsDapp/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var linksQR bool

// linksCmd prints the block explorer and marketplace links.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var linksCmd = &cobra.Command{
	Use:     "links",
	Short:   "Show the contract and marketplace links",
	GroupID: groupDapp,
	Long: `Print the block explorer page of the contract and the marketplace page of
the collection.

The links follow the wallet's network: on a testnet the marketplace link
points at the testnet marketplace. Without a wallet the mainnet links are
shown. With --qr the marketplace link is also drawn as a QR code when the
output is a terminal.`,
	Example: `  mintdapp links
  mintdapp links --qr
  mintdapp links -o json`,
	Args: cobra.NoArgs,
	RunE: runLinks,
}

// LinksResult is the JSON output of the links command.
type LinksResult struct {
	output.Links

	Mainnet bool `json:"mainnet"`
}

func runLinks(cmd *cobra.Command, _ []string) error {
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

	view := session.View(session.Controller.State())
	if cc.Formatter.IsJSON() {
		return cc.Formatter.Print(LinksResult{Links: view.Links, Mainnet: view.Mainnet})
	}

	w := cc.Formatter.Writer()
	var fields output.Fields
	fields.Add(view.Links.Explorer, view.Links.ContractURL).Add("Marketplace", view.Links.MarketplaceURL)
	if err := fields.Render(w); err != nil {
		return err
	}

	if linksQR {
		outln(w)
		if !output.RenderQR(w, view.Links.MarketplaceURL) {
			output.Warn(stderr, "QR codes are only drawn on a terminal")
		}
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	linksCmd.Flags().BoolVar(&linksQR, "qr", false, "draw the marketplace link as a QR code")
	rootCmd.AddCommand(linksCmd)
}
