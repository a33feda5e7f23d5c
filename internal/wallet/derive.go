package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
)

// Ethereum account path components: m/44'/60'/0'/0/index.
const (
	purpose  = 44
	coinType = 60
)

// DerivationPath returns the BIP44 path of the account at index.
func DerivationPath(index uint32) string {
	return fmt.Sprintf("m/%d'/%d'/0'/0/%d", purpose, coinType, index)
}

// DeriveKey derives the private key of the account at index from a BIP39 seed.
func DeriveKey(seed []byte, index uint32) (*ecdsa.PrivateKey, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	key := master
	for _, child := range []uint32{
		bip32.FirstHardenedChild + purpose,
		bip32.FirstHardenedChild + coinType,
		bip32.FirstHardenedChild,
		0,
		index,
	} {
		key, err = key.NewChildKey(child)
		if err != nil {
			return nil, fmt.Errorf("deriving %s: %w", DerivationPath(index), err)
		}
	}

	// bip32 drops leading zero bytes from private keys.
	return crypto.ToECDSA(common.LeftPadBytes(key.Key, 32))
}

// DeriveAddress derives the address of the account at index.
func DeriveAddress(seed []byte, index uint32) (common.Address, error) {
	key, err := DeriveKey(seed, index)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
