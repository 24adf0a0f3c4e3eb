package morphology

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a measurement that may be unavailable.
type Value struct {
	v  float64
	ok bool
}

// Unavailable is the value of a measurement whose inputs are missing.
var Unavailable = Value{}

// Of returns an available value.
func Of(v float64) Value { return Value{v: v, ok: true} }

// OfInt returns an available integer value.
func OfInt(v int) Value { return Of(float64(v)) }

// Get returns the number and whether it is available.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Available reports whether the value carries a number.
func (v Value) Available() bool { return v.ok }

func (v Value) String() string {
	if !v.ok {
		return "unavailable"
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// MarshalJSON writes the number or null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON reads a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Unavailable
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Of(f)
	return nil
}

// RoundTo rounds an available value to n decimals. Negative zero becomes zero.
func (v Value) RoundTo(n int) Value {
	if !v.ok {
		return v
	}
	p := math.Pow(10, float64(n))
	r := math.Round(v.v*p) / p
	if r == 0 {
		r = 0
	}
	return Of(r)
}
