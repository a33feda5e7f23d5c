package contract

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract method names.
const (
	MethodMaxSupply          = "maxSupply"
	MethodTotalSupply        = "totalSupply"
	MethodMaxMintAmountPerTx = "maxMintAmountPerTx"
	MethodCost               = "cost"
	MethodPaused             = "paused"
	MethodDiscountCost       = "discountCost"
	MethodMint               = "mint"
)

//go:embed abi.json
var abiJSON string

//nolint:gochecknoglobals // Parsed once, read-only afterwards
var parseABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
})

// ABI returns the parsed collection contract ABI.
func ABI() (abi.ABI, error) {
	return parseABI()
}
