package units

import (
	"fmt"
	"math/big"
	"strings"
)

// Format renders a raw smallest-denomination amount as a decimal string with a
// fixed number of places. The division is exact; only the displayed places are
// truncated, the raw value itself is never rounded in place.
func Format(raw *big.Int, decimals, places int) string {
	if raw == nil {
		raw = big.NewInt(0)
	}
	if decimals < 0 {
		decimals = 0
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(raw, scale, frac)

	neg := raw.Sign() < 0
	whole.Abs(whole)
	frac.Abs(frac)

	if places <= 0 {
		if neg {
			return "-" + whole.String()
		}
		return whole.String()
	}

	fracStr := frac.String()
	if len(fracStr) < decimals {
		fracStr = strings.Repeat("0", decimals-len(fracStr)) + fracStr
	}
	if len(fracStr) > places {
		fracStr = fracStr[:places]
	} else if len(fracStr) < places {
		fracStr = fracStr + strings.Repeat("0", places-len(fracStr))
	}

	out := whole.String() + "." + fracStr
	if neg {
		out = "-" + out
	}
	return out
}

// Parse converts a human-entered decimal amount into raw smallest-denomination
// units. The fractional part may not carry more digits than the asset's scale.
func Parse(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("negative amount %q", amount)
	}

	whole := amount
	frac := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q exceeds %d decimal places", amount, decimals)
	}

	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	raw, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return raw, nil
}
