package domain

import (
	"fmt"
	"math/big"
	"strings"
)

var weiPerEth = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiToEth renders a wei amount as a fixed 18-decimal ETH string, using
// integer math so large amounts keep full precision.
func WeiToEth(wei *big.Int) string {
	quo, rem := new(big.Int).QuoRem(wei, weiPerEth, new(big.Int))
	return fmt.Sprintf("%s.%018s", quo.String(), rem.String())
}

// ParseWei parses a decimal base-unit amount as reported by the explorer.
// Hex-prefixed values are accepted too since chain RPCs report them that way.
func ParseWei(s string) (*big.Int, bool) {
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
