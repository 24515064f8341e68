// Package units converts fixed-point token amounts between base units and
// human-readable decimal strings without going through floating point.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the scale used by ERC20 tokens that mirror ether.
const EtherDecimals = 18

var errNegativeDecimals = errors.New("decimals must not be negative")

// FormatEther formats value with EtherDecimals.
func FormatEther(value string) (string, error) {
	return Format(value, EtherDecimals)
}

// Format renders the base-10 digit string value, scaled by 10^decimals, as a
// decimal string. Trailing fractional zeros are dropped and a zero fraction
// is omitted entirely.
func Format(value string, decimals int) (string, error) {
	if decimals < 0 {
		return "", errNegativeDecimals
	}
	if value == "" {
		return "", errors.New("empty value")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("value %q is not a non-negative integer", value)
		}
	}

	digits := strings.TrimLeft(value, "0")
	if digits == "" {
		return "0", nil
	}
	if decimals == 0 {
		return digits, nil
	}

	if len(digits) <= decimals {
		fractional := strings.Repeat("0", decimals-len(digits)) + digits
		return "0." + strings.TrimRight(fractional, "0"), nil
	}

	split := len(digits) - decimals
	integral, fractional := digits[:split], digits[split:]
	fractional = strings.TrimRight(fractional, "0")
	if fractional == "" {
		return integral, nil
	}
	return integral + "." + fractional, nil
}

// FormatBig is Format for a big integer.
func FormatBig(value *big.Int, decimals int) (string, error) {
	if value == nil {
		return "", errors.New("nil value")
	}
	if value.Sign() < 0 {
		return "", fmt.Errorf("value %s is negative", value)
	}
	return Format(value.String(), decimals)
}

// Scale returns amount * 10^decimals.
func Scale(amount uint64, decimals int) *big.Int {
	if decimals < 0 {
		decimals = 0
	}
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return exp.Mul(exp, new(big.Int).SetUint64(amount))
}

// Parse converts a human decimal string such as "1.5" into base units.
// Values that need more than decimals fractional digits are rejected.
func Parse(human string, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, errNegativeDecimals
	}
	d, err := decimal.NewFromString(strings.TrimSpace(human))
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", human, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q is negative", human)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", human, decimals)
	}
	return scaled.BigInt(), nil
}
