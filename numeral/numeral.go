// Package numeral parses the signed integer and masked-integer literals
// used throughout register addresses, defaults and write payloads,
// as small free functions operating directly on byte slices.
package numeral

import (
	"math/big"
	"strings"

	"github.com/sensorfs/sensorfs/sensorerr"
)

// radixPrefix returns the radix and the number of prefix characters to
// skip (0 or 2, plus 1 for a leading '-') for a literal with an
// optional leading '-'.
func radixPrefix(s string) (radix int, skip int, negative bool, err error) {
	rest := s
	if strings.HasPrefix(rest, "-") {
		negative = true
		rest = rest[1:]
	}
	switch {
	case len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X'):
		return 16, len(s) - len(rest) + 2, negative, nil
	case len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'o' || rest[1] == 'O'):
		return 8, len(s) - len(rest) + 2, negative, nil
	case len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'b' || rest[1] == 'B'):
		return 2, len(s) - len(rest) + 2, negative, nil
	case len(rest) >= 1 && rest[0] >= '0' && rest[0] <= '9':
		return 10, len(s) - len(rest), negative, nil
	default:
		return 0, 0, false, &sensorerr.InvalidRadix{Input: s}
	}
}

func digitValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 10
	default:
		return -1
	}
}

func checkDigits(digits string, radix int) error {
	for i := 0; i < len(digits); i++ {
		v := digitValue(digits[i])
		if v < 0 || v >= radix {
			return &sensorerr.InvalidDigit{Ch: digits[i], Radix: radix}
		}
	}
	return nil
}

// toSignedBigEndian returns the minimal big-endian two's-complement
// representation of v.
func toSignedBigEndian(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if len(b) == 0 || b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// negative: two's complement over the minimal number of bytes
	mag := new(big.Int).Neg(v)
	nbytes := len(mag.Bytes())
	for {
		if nbytes == 0 {
			nbytes = 1
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8-1))
		// representable range for nbytes signed bytes: [-limit, limit-1]
		if mag.Cmp(limit) <= 0 {
			break
		}
		nbytes++
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
	twos := new(big.Int).Add(mod, v)
	twos.Mod(twos, mod)
	out := make([]byte, nbytes)
	b := twos.Bytes()
	copy(out[nbytes-len(b):], b)
	return out
}

// ParseNum parses a signed integer literal in base 2, 8, 10 or 16 into
// its minimal big-endian two's-complement byte representation.
func ParseNum(s string) ([]byte, error) {
	radix, skip, negative, err := radixPrefix(s)
	if err != nil {
		return nil, err
	}
	digits := s[skip:]
	if err := checkDigits(digits, radix); err != nil {
		return nil, err
	}
	if digits == "" {
		digits = "0"
	}
	v, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return nil, &sensorerr.InvalidRadix{Input: s}
	}
	if negative {
		v.Neg(v)
	}
	return toSignedBigEndian(v), nil
}

// ParseNumPadded behaves like ParseNum but left-pads (for non-negative
// values, with 0x00; for negative values, with 0xFF) the result up to
// width bytes. If the natural representation is already at least width
// bytes wide, it is returned unchanged.
func ParseNumPadded(s string, width int) ([]byte, error) {
	b, err := ParseNum(s)
	if err != nil {
		return nil, err
	}
	if len(b) >= width {
		return b, nil
	}
	pad := byte(0x00)
	if len(b) > 0 && b[0]&0x80 != 0 {
		pad = 0xFF
	}
	out := make([]byte, width)
	for i := 0; i < width-len(b); i++ {
		out[i] = pad
	}
	copy(out[width-len(b):], b)
	return out, nil
}

func maxDigitFor(radix int) byte {
	switch radix {
	case 2:
		return '1'
	case 8:
		return '7'
	case 16:
		return 'f'
	default:
		return '0'
	}
}

// ParseNumMask extends ParseNum to literals that use 'z' digits to mark
// bits that should be preserved from the existing value during a
// register write. If s contains no 'z' it returns (nil, parseNum(s)).
// Otherwise the radix must be a power of two.
func ParseNumMask(s string) (mask, value []byte, err error) {
	if !strings.ContainsRune(s, 'z') && !strings.ContainsRune(s, 'Z') {
		v, err := ParseNum(s)
		return nil, v, err
	}

	radix, skip, negative, err := radixPrefix(s)
	if err != nil {
		return nil, nil, err
	}
	if radix&(radix-1) != 0 {
		return nil, nil, &sensorerr.InvalidMaskRadix{Radix: radix}
	}

	digits := s[skip:]
	maxDigit := maxDigitFor(radix)

	valueDigits := make([]byte, len(digits))
	maskDigits := make([]byte, len(digits))
	for i := 0; i < len(digits); i++ {
		ch := digits[i]
		if ch == 'z' || ch == 'Z' {
			valueDigits[i] = '0'
			maskDigits[i] = '0'
		} else {
			valueDigits[i] = ch
			maskDigits[i] = maxDigit
		}
	}

	if err := checkDigits(string(valueDigits), radix); err != nil {
		return nil, nil, err
	}

	sign := ""
	if negative {
		sign = "-"
	}

	value, err = ParseNum(sign + prefixFor(radix) + string(valueDigits))
	if err != nil {
		return nil, nil, err
	}
	mask, err = ParseNum(sign + prefixFor(radix) + string(maskDigits))
	if err != nil {
		return nil, nil, err
	}
	return mask, value, nil
}

func prefixFor(radix int) string {
	switch radix {
	case 16:
		return "0x"
	case 8:
		return "0o"
	case 2:
		return "0b"
	default:
		return ""
	}
}
