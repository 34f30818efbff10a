package models

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigIntBeyond64Bits(t *testing.T) {
	v, ok := new(big.Int).SetString("2417851639229258349412351", 10)
	require.True(t, ok)
	b := NewBigInt(v)

	dv, err := b.Value()
	require.NoError(t, err)
	assert.Equal(t, "2417851639229258349412351", dv)

	var scanned BigInt
	require.NoError(t, scanned.Scan([]byte("2417851639229258349412351")))
	assert.Zero(t, v.Cmp(&scanned.Int))

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `"2417851639229258349412351"`, string(data))
}

func TestBigIntScanRejectsGarbage(t *testing.T) {
	var b BigInt
	assert.Error(t, b.Scan("0x1A"))
	assert.Error(t, b.Scan(1.5))
}

func TestConfirmationStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, ConfirmationStatus("").Valid())
	assert.False(t, ConfirmationStatus("confirmed").Valid())
}
