package style

import (
	"fmt"
	"strconv"
	"strings"
)

// HexToRGBA converts a #rrggbb color to an rgba() string with the given alpha.
func HexToRGBA(hex string, alpha float64) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64)), nil
}

// ParseHex decodes a #rrggbb color into its components.
func ParseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil //nolint:gosec // masked to 8 bits by conversion
}

// MustRGBA is HexToRGBA for palette constants known to be valid.
func MustRGBA(hex string, alpha float64) string {
	s, err := HexToRGBA(hex, alpha)
	if err != nil {
		panic(err)
	}
	return s
}
