package util

import (
	"fmt"
	"math/big"
	"strings"
)

// EtherDecimals is the number of decimals between wei and ether.
const EtherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)

// FormatEther renders a wei amount as a decimal ether string. Trailing zeros are trimmed but at least
// one fractional digit is kept, so 0 is "0.0" and 5e16 is "0.05".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	fracStr := frac.String()
	fracStr = strings.Repeat("0", EtherDecimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		fracStr = "0"
	}

	s := whole.String() + "." + fracStr
	if neg {
		s = "-" + s
	}
	return s
}

// ParseEther converts a decimal ether string to wei. More than 18 fractional digits is an error.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty ether amount")
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > EtherDecimals {
		return nil, fmt.Errorf("too many decimals in ether amount: %s", s)
	}
	frac += strings.Repeat("0", EtherDecimals-len(frac))

	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid ether amount: %s", s)
	}
	if neg {
		wei.Neg(wei)
	}
	return wei, nil
}
