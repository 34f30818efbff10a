package trig

import (
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiovaTC/HEXA-IBM/apperr"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "1A", "26"},
		{"lower", "ff", "255"},
		{"prefix", "0x5A", "90"},
		{"upper prefix", "0XdeadBEEF", "3735928559"},
		{"whitespace", "  \t0x10\n", "16"},
		{"zero", "0", "0"},
		{"leading zeros", "0x000F", "15"},
		{"beyond uint64", "0x1FFFFFFFFFFFFFFFFFFFF", "2417851639229258349412351"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeHex(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestDecodeHexInvalid(t *testing.T) {
	inputs := []string{"", "   ", "0x", "0X  ", "xyz", "1G", "-1A", "+1A", "1_000", "0x0x1", "1A 2B", "é"}
	for _, input := range inputs {
		t.Run(strconv.Quote(input), func(t *testing.T) {
			_, err := DecodeHex(input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestDecodeHexMatchesParseUint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		v := rng.Uint64()
		s := strconv.FormatUint(v, 16)
		switch i % 3 {
		case 1:
			s = "0x" + strings.ToUpper(s)
		case 2:
			s = "0X" + s
		}

		got, err := DecodeHex(s)
		require.NoError(t, err, s)
		assert.Zero(t, new(big.Int).SetUint64(v).Cmp(got), s)
	}
}
