package trig

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// Tangent is a tangent value that is explicitly undefined at odd multiples of 90°.
// The zero value is undefined, matching a NULL column.
type Tangent struct {
	value   float64
	defined bool
}

// DefinedTangent wraps a finite tangent value.
func DefinedTangent(v float64) Tangent {
	return Tangent{value: v, defined: true}
}

// UndefinedTangent is the sentinel reported where cos(θ) is zero.
func UndefinedTangent() Tangent {
	return Tangent{}
}

// Defined reports whether the tangent has a finite value.
func (t Tangent) Defined() bool {
	return t.defined
}

// Float64 returns the value, or +Inf when undefined.
func (t Tangent) Float64() float64 {
	if !t.defined {
		return math.Inf(1)
	}
	return t.value
}

func (t Tangent) String() string {
	if !t.defined {
		return "Infinity"
	}
	return fmt.Sprintf("%g", t.value)
}

// MarshalJSON encodes an undefined tangent as the string "Infinity".
func (t Tangent) MarshalJSON() ([]byte, error) {
	if !t.defined {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(t.value)
}

func (t *Tangent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Infinity" {
			return fmt.Errorf("tangent: unexpected string %q", s)
		}
		*t = UndefinedTangent()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("tangent: %w", err)
	}
	*t = DefinedTangent(v)
	return nil
}

// Value stores an undefined tangent as NULL.
func (t Tangent) Value() (driver.Value, error) {
	if !t.defined {
		return nil, nil
	}
	return t.value, nil
}

func (t *Tangent) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = UndefinedTangent()
	case float64:
		*t = DefinedTangent(v)
	case int64:
		*t = DefinedTangent(float64(v))
	default:
		return fmt.Errorf("tangent: cannot scan %T", src)
	}
	return nil
}
