package wallet

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

func TestMoveToLockedBufferWipesSource(t *testing.T) {
	t.Parallel()

	src := []byte("abandon about")
	buf := MoveToLockedBuffer(src)

	assert.Equal(t, "abandon about", string(buf.Bytes()))
	assert.Equal(t, 13, buf.Len())
	assert.Equal(t, make([]byte, 13), src)
}

func TestLockedBufferDestroy(t *testing.T) {
	t.Parallel()

	buf := MoveToLockedBuffer([]byte{1, 2, 3, 4})
	view := buf.Bytes()

	buf.Destroy()
	assert.Nil(t, buf.Bytes())
	assert.Equal(t, 0, buf.Len())
	assert.False(t, buf.Locked())
	assert.Equal(t, []byte{0, 0, 0, 0}, view)

	assert.NotPanics(t, buf.Destroy)
}

func TestLockedBufferEmpty(t *testing.T) {
	t.Parallel()

	buf := NewLockedBuffer(0)
	assert.False(t, buf.Locked())
	assert.Equal(t, 0, buf.Len())
	buf.Destroy()
}

func TestSignerDestroy(t *testing.T) {
	t.Parallel()

	ks := NewKeystore(filepath.Join(t.TempDir(), "wallet.age"))
	_, err := ks.Save(testMnemonic, "passphrase", 0)
	require.NoError(t, err)

	signer, err := ks.Unlock("passphrase")
	require.NoError(t, err)
	require.False(t, signer.Destroyed())

	key := signer.key
	signer.Destroy()
	assert.True(t, signer.Destroyed())
	assert.Equal(t, 0, key.D.Sign())

	to := common.HexToAddress("0xe6bda205de2f968271166C4b2650DefB38895De1")
	tx := types.NewTx(&types.LegacyTx{To: &to, Gas: 21000, GasPrice: big.NewInt(1)})
	_, err = signer.SignTx(tx, big.NewInt(80001))
	require.ErrorIs(t, err, dapperr.ErrWalletLocked)

	assert.NotPanics(t, signer.Destroy)
}
