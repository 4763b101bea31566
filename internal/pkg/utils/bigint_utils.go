package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FormatFixed converts a big.Int amount to a decimal string with exactly `places`
// fractional digits, considering the given number of decimals. The last digit is rounded
// half-up.
// Example: amount=1234560000000000000, decimals=18, places=4 => "1.2346"
func FormatFixed(amount *big.Int, decimals uint8, places uint8) (string, error) {
	if amount == nil {
		return "", fmt.Errorf("amount is nil")
	}
	if amount.Sign() < 0 {
		return "", fmt.Errorf("negative amount %s", amount.String())
	}
	if places > decimals {
		places = decimals
	}

	// Переводим в единицы последнего отображаемого знака с округлением вверх от половины.
	shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals-places)), nil)
	scaled, rem := new(big.Int).QuoRem(amount, shift, new(big.Int))
	if rem.Lsh(rem, 1).Cmp(shift) >= 0 {
		scaled.Add(scaled, big.NewInt(1))
	}

	if places == 0 {
		return scaled.String(), nil
	}

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	whole, frac := new(big.Int).QuoRem(scaled, unit, new(big.Int))
	fracStr := frac.String()
	if pad := int(places) - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	return whole.String() + "." + fracStr, nil
}

// FormatNativeBalance decodes a hex Wei quantity as returned by eth_getBalance and formats
// it with four fractional digits followed by the native symbol.
// Example: "0xde0b6b3a7640000", 18, "AVAX" => "1.0000 AVAX"
func FormatNativeBalance(balanceHex string, decimals uint8, symbol string) (string, error) {
	wei, err := hexutil.DecodeBig(strings.TrimSpace(balanceHex))
	if err != nil {
		return "", fmt.Errorf("failed to decode balance %q: %w", balanceHex, err)
	}
	formatted, err := FormatFixed(wei, decimals, 4)
	if err != nil {
		return "", err
	}
	return formatted + " " + symbol, nil
}
