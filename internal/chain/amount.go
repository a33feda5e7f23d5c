package chain

import "math/big"

// FormatDecimalAmount converts a big.Int to a human-readable string with the given decimal places.
// Trailing zeros after the decimal point are removed.
// For example, 1500000000000000000 with 18 decimals returns "1.5".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	result := str[:decimalPos] + "." + str[decimalPos:]

	for len(result) > 1 && result[len(result)-1] == '0' && result[len(result)-2] != '.' {
		result = result[:len(result)-1]
	}

	return result
}

// FormatNative formats a wei amount in the native currency, e.g. "0.05 MATIC".
func FormatNative(wei *big.Int, symbol string) string {
	formatted := FormatDecimalAmount(wei, NativeDecimals)
	if symbol == "" {
		return formatted
	}
	return formatted + " " + symbol
}

// MulAmount returns price * amount without mutating price.
func MulAmount(price *big.Int, amount uint64) *big.Int {
	if price == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(price, new(big.Int).SetUint64(amount))
}
