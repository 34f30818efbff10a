package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
)

// BigInt persists an arbitrary-precision integer as decimal text, so values
// beyond 64 bits survive both sqlite and postgres.
type BigInt struct {
	big.Int
}

func NewBigInt(v *big.Int) BigInt {
	var b BigInt
	if v != nil {
		b.Set(v)
	}
	return b
}

func (b BigInt) Value() (driver.Value, error) {
	return b.String(), nil
}

func (b *BigInt) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		b.SetInt64(v)
		return nil
	default:
		return fmt.Errorf("bigint: cannot scan %T", src)
	}
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("bigint: invalid decimal %q", s)
	}
	return nil
}

// MarshalJSON emits a decimal string; JSON numbers lose precision past 2^53.
func (b BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bigint: %w", err)
	}
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("bigint: invalid decimal %q", s)
	}
	return nil
}
