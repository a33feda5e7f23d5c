package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/capnganj/PoisonToadsDapp/internal/fileutil"
	"github.com/capnganj/PoisonToadsDapp/internal/metrics"
	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

const (
	keystoreVersion     = 1
	keystorePermissions = 0o600
)

// Metadata is the unencrypted part of a keystore file.
type Metadata struct {
	Version      int            `json:"version"`
	Address      common.Address `json:"address"`
	AccountIndex uint32         `json:"account_index"`
	Path         string         `json:"derivation_path"`
	CreatedAt    time.Time      `json:"created_at"`
}

// keystoreFile is the on-disk layout: metadata in the clear, mnemonic sealed.
type keystoreFile struct {
	Metadata
	EncryptedMnemonic []byte `json:"encrypted_mnemonic"`
}

// Keystore is the single local wallet file.
type Keystore struct {
	Path string
}

// NewKeystore returns a keystore stored at path.
func NewKeystore(path string) *Keystore {
	return &Keystore{Path: path}
}

// Exists reports whether the keystore file is present.
func (k *Keystore) Exists() bool {
	info, err := os.Stat(k.Path)
	return err == nil && !info.IsDir()
}

// Save seals mnemonic with passphrase and writes the keystore.
// It refuses to overwrite an existing keystore.
func (k *Keystore) Save(mnemonic, passphrase string, index uint32) (metadata Metadata, err error) {
	defer func() { metrics.Global.RecordWalletOp(err) }()

	if k.Exists() {
		return Metadata{}, dapperr.WithDetails(dapperr.ErrKeystoreExists, map[string]string{"path": k.Path})
	}

	normalized := NormalizeMnemonicInput(mnemonic)
	if err = ValidateMnemonic(normalized); err != nil {
		return Metadata{}, err
	}

	rawSeed, err := MnemonicToSeed(normalized, "")
	if err != nil {
		return Metadata{}, err
	}
	seed := MoveToLockedBuffer(rawSeed)
	defer seed.Destroy()

	address, err := DeriveAddress(seed.Bytes(), index)
	if err != nil {
		return Metadata{}, err
	}

	sealed, err := Seal([]byte(normalized), passphrase)
	if err != nil {
		return Metadata{}, err
	}

	file := keystoreFile{
		Metadata: Metadata{
			Version:      keystoreVersion,
			Address:      address,
			AccountIndex: index,
			Path:         DerivationPath(index),
			CreatedAt:    time.Now().UTC(),
		},
		EncryptedMnemonic: sealed,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return Metadata{}, fmt.Errorf("marshaling keystore: %w", err)
	}

	if err = fileutil.CreateAtomic(k.Path, data, keystorePermissions); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Metadata{}, dapperr.WithDetails(dapperr.ErrKeystoreExists, map[string]string{"path": k.Path})
		}
		return Metadata{}, fmt.Errorf("writing keystore: %w", err)
	}

	return file.Metadata, nil
}

func (k *Keystore) read() (keystoreFile, error) {
	// #nosec G304 -- keystore path comes from config
	data, err := os.ReadFile(k.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return keystoreFile{}, dapperr.WithDetails(dapperr.ErrKeystoreNotFound, map[string]string{"path": k.Path})
	}
	if err != nil {
		return keystoreFile{}, fmt.Errorf("reading keystore: %w", err)
	}

	var file keystoreFile
	if err := json.Unmarshal(data, &file); err != nil {
		return keystoreFile{}, dapperr.WithCause(dapperr.ErrDecryptionFailed, err)
	}
	return file, nil
}

// Metadata reads the keystore without decrypting it.
func (k *Keystore) Metadata() (Metadata, error) {
	file, err := k.read()
	if err != nil {
		return Metadata{}, err
	}
	return file.Metadata, nil
}

// Load decrypts the keystore and returns the mnemonic in a locked buffer
// together with the metadata. The caller must Destroy the buffer.
func (k *Keystore) Load(passphrase string) (mnemonic *LockedBuffer, metadata Metadata, err error) {
	defer func() { metrics.Global.RecordWalletOp(err) }()

	file, err := k.read()
	if err != nil {
		return nil, Metadata{}, err
	}

	plaintext, err := Open(file.EncryptedMnemonic, passphrase)
	if err != nil {
		return nil, Metadata{}, err
	}
	return MoveToLockedBuffer(plaintext), file.Metadata, nil
}

// Unlock decrypts the keystore and returns a signer for its account.
// The mnemonic and seed are wiped before it returns.
func (k *Keystore) Unlock(passphrase string) (*Signer, error) {
	mnemonic, metadata, err := k.Load(passphrase)
	if err != nil {
		return nil, err
	}
	defer mnemonic.Destroy()

	rawSeed, err := MnemonicToSeed(string(mnemonic.Bytes()), "")
	if err != nil {
		return nil, err
	}
	seed := MoveToLockedBuffer(rawSeed)
	defer seed.Destroy()

	key, err := DeriveKey(seed.Bytes(), metadata.AccountIndex)
	if err != nil {
		return nil, err
	}

	signer := NewSigner(key)
	if signer.Address() != metadata.Address {
		signer.Destroy()
		return nil, dapperr.WithDetails(dapperr.ErrDecryptionFailed, map[string]string{
			"reason": "derived address does not match keystore",
		})
	}
	return signer, nil
}
