package utils

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ShortenAddress returns the first 6 and last 4 characters of an address joined by "...".
// Empty input yields the placeholder.
func ShortenAddress(address, placeholder string) string {
	if address == "" {
		return placeholder
	}
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// IsAccountAddress reports whether s is a 0x-prefixed 20 byte hex address.
func IsAccountAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// ChainIDHex renders a numeric chain id the way eth_chainId returns it.
func ChainIDHex(chainID uint64) string {
	return hexutil.EncodeUint64(chainID)
}

// SameChainID compares two chain ids as quantities, so "0xA869" matches "0xa869".
// Values that are not valid quantities are compared case-insensitively.
func SameChainID(a, b string) bool {
	av, aErr := parseChainID(a)
	bv, bErr := parseChainID(b)
	if aErr == nil && bErr == nil {
		return av == bv
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func parseChainID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
