package captable

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Shares is a whole number of shares.
type Shares int64

// Decimal returns the share count as a decimal.
func (s Shares) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(s)) }

func (s Shares) IsZero() bool     { return s == 0 }
func (s Shares) IsPositive() bool { return s > 0 }
func (s Shares) String() string   { return strconv.FormatInt(int64(s), 10) }

// nonNegative floors s at zero.
func (s Shares) nonNegative() Shares { return max(s, 0) }

// roundShares rounds a fractional number of shares to the nearest whole share,
// halves going up. Negative inputs yield zero.
func roundShares(d decimal.Decimal) Shares {
	if !d.IsPositive() {
		return 0
	}
	// Round is half away from zero, which is half-up for positive values.
	return Shares(d.Round(0).IntPart())
}
