// Package trig decodes hex literals, folds them into an angular domain and
// evaluates the trig functions there.
package trig

import (
	"math/big"
	"strings"

	"github.com/GiovaTC/HEXA-IBM/apperr"
)

// DecodeHex parses a hexadecimal literal of arbitrary size. Surrounding
// whitespace and a single 0x/0X prefix are accepted; signs and digit
// separators are not.
func DecodeHex(input string) (*big.Int, error) {
	const op = "decode hex"

	s := strings.TrimSpace(input)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" {
		return nil, apperr.New(apperr.KindInvalidInput, op, "empty hex literal")
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return nil, apperr.Newf(apperr.KindInvalidInput, op, "invalid hex character %q at offset %d", s[i], i)
		}
	}

	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, apperr.Newf(apperr.KindInvalidInput, op, "cannot parse %q", input)
	}
	return v, nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
