package recipes

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Price is a monetary amount held in cents so that sums are exact.
// It encodes as a decimal number of dollars in JSON and YAML.
type Price int64

// Dollars converts a dollar amount to a Price, rounding to the nearest cent.
// NaN becomes zero and amounts beyond the range saturate; use FromDollars
// for untrusted input.
func Dollars(d float64) Price {
	p, err := FromDollars(d)
	switch {
	case err == nil:
		return p
	case math.IsNaN(d):
		return 0
	case d > 0:
		return math.MaxInt64
	default:
		return -math.MaxInt64
	}
}

// FromDollars converts a dollar amount to a Price, rejecting NaN, infinities
// and amounts whose cents do not fit in an int64.
func FromDollars(d float64) (Price, error) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("price %v is not a finite amount", d)
	}
	cents := math.Round(d * 100)
	if cents >= 0x1p63 || cents <= -0x1p63 {
		return 0, fmt.Errorf("price %v is out of range", d)
	}
	return Price(cents), nil
}

// ParsePrice parses "4.99", "$4.99" or "4" into a Price.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return FromDollars(f)
}

// Float64 returns the amount in dollars.
func (p Price) Float64() float64 {
	return float64(p) / 100
}

func (p Price) String() string {
	sign, cents := "", uint64(p)
	if p < 0 {
		// -(p+1)+1 keeps MinInt64 representable.
		sign, cents = "-", uint64(-(p+1))+1
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.Float64(), 'f', 2, 64)), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// Some producers quote numbers.
		var s string
		if serr := json.Unmarshal(b, &s); serr != nil {
			return fmt.Errorf("price: %w", err)
		}
		v, perr := ParsePrice(s)
		if perr != nil {
			return perr
		}
		*p = v
		return nil
	}
	v, err := FromDollars(f)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p *Price) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParsePrice(value.Value)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
