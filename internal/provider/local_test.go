package provider_test

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capnganj/PoisonToadsDapp/internal/chain/eth/rpc"
	"github.com/capnganj/PoisonToadsDapp/internal/provider"
	"github.com/capnganj/PoisonToadsDapp/internal/wallet"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

const (
	testMnemonic   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPassphrase = "correct horse battery staple"
)

var keystoreAddress = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")

func staticPassphrase(p string) provider.PassphraseFunc {
	return func(context.Context) (string, error) { return p, nil }
}

func newKeystore(t *testing.T, create bool) *wallet.Keystore {
	t.Helper()
	ks := wallet.NewKeystore(filepath.Join(t.TempDir(), "wallet.age"))
	if create {
		_, err := ks.Save(testMnemonic, testPassphrase, 0)
		require.NoError(t, err)
	}
	return ks
}

func newLocal(t *testing.T, url string, ks *wallet.Keystore, passphrase provider.PassphraseFunc) *provider.Local {
	t.Helper()
	l := provider.NewLocal(rpc.NewClient(url), ks, passphrase, time.Hour, nil)
	t.Cleanup(l.Close)
	return l
}

func TestLocalDetect(t *testing.T) {
	t.Parallel()

	node, server := newFakeNode(t)
	node.configure(func(n *fakeNode) { n.clientVersion = "Geth/v1.16.8" })

	d, err := newLocal(t, server.URL, newKeystore(t, false), nil).Detect(context.Background())
	require.NoError(t, err)
	assert.False(t, d.Found)

	d, err = newLocal(t, server.URL, newKeystore(t, true), nil).Detect(context.Background())
	require.NoError(t, err)
	assert.True(t, d.Found)
	assert.True(t, d.Compatible)
	assert.Equal(t, "Geth/v1.16.8", d.ClientVersion)
}

func TestLocalAccounts(t *testing.T) {
	t.Parallel()

	_, server := newFakeNode(t)
	ctx := context.Background()

	empty := newLocal(t, server.URL, newKeystore(t, false), nil)
	accounts, err := empty.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = empty.RequestAccounts(ctx)
	require.ErrorIs(t, err, dapperr.ErrKeystoreNotFound)

	l := newLocal(t, server.URL, newKeystore(t, true), staticPassphrase(testPassphrase))
	accounts, err = l.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{keystoreAddress}, accounts)

	accounts, err = l.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{keystoreAddress}, accounts)
}

func TestLocalUnlockFailures(t *testing.T) {
	t.Parallel()

	_, server := newFakeNode(t)
	ks := newKeystore(t, true)
	ctx := context.Background()

	_, err := newLocal(t, server.URL, ks, nil).RequestAccounts(ctx)
	require.ErrorIs(t, err, dapperr.ErrWalletLocked)

	_, err = newLocal(t, server.URL, ks, staticPassphrase("wrong")).RequestAccounts(ctx)
	require.ErrorIs(t, err, dapperr.ErrDecryptionFailed)

	canceled := func(context.Context) (string, error) { return "", errors.New("prompt aborted") }
	_, err = newLocal(t, server.URL, ks, canceled).RequestAccounts(ctx)
	require.ErrorIs(t, err, dapperr.ErrWalletLocked)
}

func TestLocalSendTransaction(t *testing.T) {
	t.Parallel()

	node, server := newFakeNode(t)
	node.configure(func(n *fakeNode) { n.chainID = 80001 })
	l := newLocal(t, server.URL, newKeystore(t, true), staticPassphrase(testPassphrase))
	ctx := context.Background()

	msg := ethereum.CallMsg{
		From:  keystoreAddress,
		To:    &collection,
		Value: big.NewInt(50000000000000000),
		Data:  []byte{0xa0, 0x71, 0x2d, 0x68},
	}

	first, err := l.SendTransaction(ctx, msg)
	require.NoError(t, err)
	second, err := l.SendTransaction(ctx, msg)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	raw := node.raw()
	require.Len(t, raw, 2)

	tx := raw[0]
	assert.Equal(t, first, tx.Hash())
	assert.Equal(t, big.NewInt(80001), tx.ChainId())
	assert.Equal(t, uint64(5), tx.Nonce())
	assert.Equal(t, uint64(120000), tx.Gas())
	assert.Equal(t, big.NewInt(30000000000), tx.GasPrice())
	assert.Equal(t, msg.Value, tx.Value())
	assert.Equal(t, &collection, tx.To())

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(80001)), tx)
	require.NoError(t, err)
	assert.Equal(t, keystoreAddress, sender)

	// The node still reports nonce 5, the second transaction must not reuse it.
	assert.Equal(t, uint64(6), raw[1].Nonce())
}

func TestLocalSendTransactionWrongSender(t *testing.T) {
	t.Parallel()

	_, server := newFakeNode(t)
	l := newLocal(t, server.URL, newKeystore(t, true), staticPassphrase(testPassphrase))

	_, err := l.SendTransaction(context.Background(), ethereum.CallMsg{
		From: common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e"),
		To:   &collection,
	})
	require.ErrorIs(t, err, dapperr.ErrInvalidAddress)
}

func TestLocalCloseForgetsSigner(t *testing.T) {
	t.Parallel()

	node, server := newFakeNode(t)
	node.configure(func(n *fakeNode) { n.chainID = 80001 })

	prompts := 0
	l := newLocal(t, server.URL, newKeystore(t, true), func(context.Context) (string, error) {
		prompts++
		return testPassphrase, nil
	})
	ctx := context.Background()
	msg := ethereum.CallMsg{To: &collection, Value: big.NewInt(1)}

	_, err := l.SendTransaction(ctx, msg)
	require.NoError(t, err)
	_, err = l.SendTransaction(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, 1, prompts, "unlocked signer is cached")

	l.Close()

	_, err = l.SendTransaction(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, 2, prompts, "close must drop the cached key")
}
