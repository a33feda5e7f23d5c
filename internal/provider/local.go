package provider

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/capnganj/PoisonToadsDapp/internal/chain/eth/rpc"
	"github.com/capnganj/PoisonToadsDapp/internal/wallet"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// PassphraseFunc supplies the keystore passphrase, typically by prompting.
type PassphraseFunc func(ctx context.Context) (string, error)

// Local reads the chain through a node and signs with the local keystore.
// The keystore account counts as authorized once the keystore exists; the
// passphrase is only needed to sign.
type Local struct {
	nodeBackend
	keystore   *wallet.Keystore
	passphrase PassphraseFunc
	nonces     *NonceManager
	logger     *zap.Logger

	mu     sync.Mutex
	signer *wallet.Signer
}

// NewLocal creates a backend over a node client and a keystore.
func NewLocal(client *rpc.Client, keystore *wallet.Keystore, passphrase PassphraseFunc, pollInterval time.Duration, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Local{
		nodeBackend: nodeBackend{client: client},
		keystore:    keystore,
		passphrase:  passphrase,
		nonces:      NewNonceManager(),
		logger:      logger,
	}
	l.watcher = NewWatcher(l, pollInterval, logger)
	return l
}

// Detect reports the keystore as the wallet. The node's client version is
// included when the node is reachable.
func (l *Local) Detect(ctx context.Context) (Detection, error) {
	if !l.keystore.Exists() {
		return Detection{}, nil
	}

	d := Detection{Found: true, Compatible: true}
	if version, err := l.client.ClientVersion(ctx); err == nil {
		d.ClientVersion = version
	}
	return d, nil
}

// RequestAccounts unlocks the keystore and returns its account.
func (l *Local) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	signer, err := l.unlock(ctx)
	if err != nil {
		return nil, err
	}
	return []common.Address{signer.Address()}, nil
}

// ListAccounts returns the keystore account without unlocking it, or none
// when there is no keystore.
func (l *Local) ListAccounts(_ context.Context) ([]common.Address, error) {
	l.mu.Lock()
	signer := l.signer
	l.mu.Unlock()
	if signer != nil {
		return []common.Address{signer.Address()}, nil
	}

	if !l.keystore.Exists() {
		return []common.Address{}, nil
	}
	metadata, err := l.keystore.Metadata()
	if err != nil {
		return nil, err
	}
	return []common.Address{metadata.Address}, nil
}

func (l *Local) unlock(ctx context.Context) (*wallet.Signer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.signer != nil {
		return l.signer, nil
	}
	if !l.keystore.Exists() {
		return nil, dapperr.WithDetails(dapperr.ErrKeystoreNotFound, map[string]string{"path": l.keystore.Path})
	}
	if l.passphrase == nil {
		return nil, dapperr.ErrWalletLocked
	}

	passphrase, err := l.passphrase(ctx)
	if err != nil {
		return nil, dapperr.WithCause(dapperr.ErrWalletLocked, err)
	}

	signer, err := l.keystore.Unlock(passphrase)
	if err != nil {
		return nil, err
	}
	l.signer = signer
	l.logger.Debug("keystore unlocked", zap.String("address", signer.Address().Hex()))
	return signer, nil
}

// Close wipes the cached signer and stops the watcher.
func (l *Local) Close() {
	l.mu.Lock()
	if l.signer != nil {
		l.signer.Destroy()
		l.signer = nil
	}
	l.mu.Unlock()
	l.nodeBackend.Close()
}

// SendTransaction builds a legacy EIP-155 transaction, signs it with the
// keystore account and broadcasts it.
func (l *Local) SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	signer, err := l.unlock(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	from := signer.Address()
	if msg.From != (common.Address{}) && msg.From != from {
		return common.Hash{}, dapperr.WithDetails(dapperr.ErrInvalidAddress, map[string]string{
			"from":     msg.From.Hex(),
			"keystore": from.Hex(),
		})
	}
	msg.From = from

	rpcMsg, err := toRPCMsg(msg)
	if err != nil {
		return common.Hash{}, err
	}

	chainID, err := l.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	gasLimit := msg.Gas
	if gasLimit == 0 {
		if gasLimit, err = l.client.EstimateGas(ctx, rpcMsg); err != nil {
			return common.Hash{}, err
		}
	}

	gasPrice := msg.GasPrice
	if gasPrice == nil {
		if gasPrice, err = l.client.GasPrice(ctx); err != nil {
			return common.Hash{}, err
		}
	}

	pending, err := l.client.GetTransactionCount(ctx, from, "pending")
	if err != nil {
		return common.Hash{}, err
	}
	nonce := l.nonces.Next(from, pending)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       msg.To,
		Value:    msg.Value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     msg.Data,
	})

	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		l.nonces.Reset(from)
		return common.Hash{}, dapperr.Wrap(err, "signing transaction")
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		l.nonces.Reset(from)
		return common.Hash{}, dapperr.Wrap(err, "encoding transaction")
	}

	hash, err := l.client.SendRawTransaction(ctx, raw)
	if err != nil {
		l.nonces.Reset(from)
		return common.Hash{}, err
	}

	l.logger.Debug("transaction broadcast",
		zap.String("hash", hash.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gasLimit))
	return hash, nil
}
