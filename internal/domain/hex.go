package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// FormatTokenID renders a raw numeric token id as a 0x-prefixed hex string
// zero-padded to 32 bytes, matching the wire format expected by display
// devices. Inputs may be decimal or 0x-hex strings; unparsable input is
// returned unchanged.
func FormatTokenID(tokenID string) string {
	n, ok := parseBig(tokenID)
	if !ok {
		return tokenID
	}
	s := n.Text(16)
	if pad := 64 - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return "0x" + s
}

// NormalizeAddress lower-cases an EVM address. Checksummed, upper and lower
// case renditions of the same address compare equal after normalization.
func NormalizeAddress(address string) string {
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}

func parseBig(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, ok := new(big.Int).SetString(s[2:], 16)
		return n, ok
	}
	n, ok := new(big.Int).SetString(s, 10)
	return n, ok
}
