// Package design maps general settings onto CSS custom properties and holds
// the color helpers used by the editor and the public templates.
package design

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ErrInvalidHex is returned for strings that are not #rgb or #rrggbb colors.
var ErrInvalidHex = errors.New("invalid hex color")

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Hsl is a color as hue (degrees), saturation and lightness (percent) with
// an optional opacity between 0 and 1.
type Hsl struct {
	H       float64  `json:"h"                 validate:"gte=0,lte=360"`
	S       float64  `json:"s"                 validate:"gte=0,lte=100"`
	L       float64  `json:"l"                 validate:"gte=0,lte=100"`
	Opacity *float64 `json:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Alpha returns the opacity, 1 when unset.
func (c Hsl) Alpha() float64 {
	if c.Opacity == nil {
		return 1
	}

	return clamp(*c.Opacity, 0, 1)
}

// Triple renders the "h s% l%" form used by the theme variables.
func (c Hsl) Triple() string {
	h, s, l := c.normalized()

	return num(h) + " " + num(s) + "% " + num(l) + "%"
}

// CSS renders hsl() or hsla() when an opacity below 1 is set.
func (c Hsl) CSS() string {
	h, s, l := c.normalized()

	if a := c.Alpha(); a < 1 {
		return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", num(h), num(s), num(l), num(a))
	}

	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", num(h), num(s), num(l))
}

// Hex renders the color as #rrggbb ignoring opacity.
func (c Hsl) Hex() string {
	return HslToHex(c.H, c.S, c.L)
}

func (c Hsl) normalized() (float64, float64, float64) {
	h := math.Mod(c.H, 360) //nolint:mnd
	if h < 0 {
		h += 360
	}

	return h, clamp(c.S, 0, 100), clamp(c.L, 0, 100) //nolint:mnd
}

// RGB is an 8 bit per channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HexToRgb parses "#rrggbb", "rrggbb", "#rgb" or "rgb".
func HexToRgb(hex string) (RGB, error) {
	hex = strings.TrimSpace(hex)
	if !hexPattern.MatchString(hex) {
		return RGB{}, errors.Wrapf(ErrInvalidHex, "%q", hex)
	}

	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return RGB{}, errors.Wrapf(ErrInvalidHex, "%q: %v", hex, err)
	}

	r, g, b := c.RGB255()

	return RGB{R: r, G: g, B: b}, nil
}

// RgbToHex renders c as lower case #rrggbb.
func RgbToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HslToHex converts hue in degrees and saturation and lightness in percent to #rrggbb.
// The hue wraps into [0,360); saturation and lightness are clamped to [0,100].
func HslToHex(h, s, l float64) string {
	hh, ss, ll := Hsl{H: h, S: s, L: l}.normalized()

	return colorful.Hsl(hh, ss/100, ll/100).Clamped().Hex() //nolint:mnd
}

// NormalizeHex returns hex as lower case #rrggbb.
func NormalizeHex(hex string) (string, error) {
	rgb, err := HexToRgb(hex)
	if err != nil {
		return "", err
	}

	return RgbToHex(rgb), nil
}

// EffectiveColorHex picks the color a component renders: a valid hex wins,
// then the hsl value, then fallback.
func EffectiveColorHex(hex string, hsl *Hsl, fallback string) string {
	if hex != "" {
		if out, err := NormalizeHex(hex); err == nil {
			return out
		}
	}

	if hsl != nil {
		return hsl.Hex()
	}

	return fallback
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) //nolint:mnd
}
