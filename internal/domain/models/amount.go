package models

import (
	"fmt"
	"math"
	"strconv"
)

// Amount is a quantity that always encodes as a JSON float, so whole values
// render as 150.0 rather than 150.
type Amount float64

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("amount %v is not a finite number", f)
	}

	b := strconv.AppendFloat(nil, f, 'f', -1, 64)
	if f == math.Trunc(f) {
		b = append(b, '.', '0')
	}
	return b, nil
}
