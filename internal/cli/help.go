package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// annotationWallet records what a command asks of the wallet. Help text for
// the command and its parent is derived from it.
const annotationWallet = "mintdapp/wallet"

const (
	walletAccounts   = "accounts"   // requests account access
	walletSigns      = "signs"      // sends a transaction
	walletPassphrase = "passphrase" // prompts for the keystore passphrase
)

// walletNotes is the paragraph appended to Long for each annotation value.
//
//nolint:gochecknoglobals // static help text
var walletNotes = map[string]string{
	walletAccounts: "Wallet: asks for account access. An external wallet may show an approval prompt.",
	walletSigns: "Wallet: sends a transaction from the connected account. With --provider local\n" +
		"the keystore passphrase is prompted before signing.",
	walletPassphrase: "Wallet: prompts for the keystore passphrase. Input is not echoed.",
}

// walletTags is the short marker shown next to a subcommand in its parent's list.
//
//nolint:gochecknoglobals // static help text
var walletTags = map[string]string{
	walletAccounts:   "[wallet]",
	walletSigns:      "[signs]",
	walletPassphrase: "[passphrase]",
}

// walkCommands visits every command in the tree depth-first.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

// enrichHelp derives the generated parts of a command's Long text.
func enrichHelp(cmd *cobra.Command) {
	enrichWalletNote(cmd)
	enrichParentLong(cmd)
}

// enrichWalletNote appends the wallet paragraph for an annotated command.
func enrichWalletNote(cmd *cobra.Command) {
	note, ok := walletNotes[cmd.Annotations[annotationWallet]]
	if !ok {
		return
	}
	cmd.Long = strings.TrimRight(cmd.Long, "\n") + "\n\n" + note
}

// enrichParentLong appends the list of available subcommands to a parent's
// Long text, tagging the ones that touch the wallet.
func enrichParentLong(cmd *cobra.Command) {
	if !cmd.HasSubCommands() {
		return
	}

	var sb strings.Builder
	sb.WriteString(cmd.Long)
	sb.WriteString("\n\nSubcommands:\n")

	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		line := fmt.Sprintf("  %-16s %s", sub.Name(), sub.Short)
		if tag, ok := walletTags[sub.Annotations[annotationWallet]]; ok {
			line += " " + tag
		}
		sb.WriteString(line + "\n")
	}

	cmd.Long = sb.String()
}
