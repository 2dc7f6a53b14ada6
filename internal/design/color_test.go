package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToRgb(t *testing.T) {
	testCases := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{in: "#ff0000", want: RGB{R: 255}},
		{in: "00ff00", want: RGB{G: 255}},
		{in: "#ABCDEF", want: RGB{R: 0xab, G: 0xcd, B: 0xef}},
		{in: "#fff", want: RGB{R: 255, G: 255, B: 255}},
		{in: "#1a2", want: RGB{R: 0x11, G: 0xaa, B: 0x22}},
		{in: "#12345g", wantErr: true},
		{in: "#1234", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := HexToRgb(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidHex)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#123456", "#abcdef", "#0f0f0f", "#7f8081"} {
		rgb, err := HexToRgb(hex)
		require.NoError(t, err)
		assert.Equal(t, hex, RgbToHex(rgb))
	}
}

func TestHslToHex(t *testing.T) {
	testCases := []struct {
		name    string
		h, s, l float64
		want    string
	}{
		{name: "red", h: 0, s: 100, l: 50, want: "#ff0000"},
		{name: "blue", h: 240, s: 100, l: 50, want: "#0000ff"},
		{name: "white", h: 0, s: 0, l: 100, want: "#ffffff"},
		{name: "black", h: 0, s: 0, l: 0, want: "#000000"},
		{name: "gray", h: 0, s: 0, l: 50, want: "#808080"},
		{name: "hue wraps", h: 360, s: 100, l: 50, want: "#ff0000"},
		{name: "negative hue wraps", h: -120, s: 100, l: 50, want: "#0000ff"},
		{name: "lightness clamped", h: 0, s: 0, l: 150, want: "#ffffff"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := HslToHex(tc.h, tc.s, tc.l)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, HslToHex(tc.h, tc.s, tc.l), "deterministic")
		})
	}
}

func TestEffectiveColorHex(t *testing.T) {
	red := &Hsl{H: 0, S: 100, L: 50}

	assert.Equal(t, "#00ff00", EffectiveColorHex("#00FF00", red, "#000000"))
	assert.Equal(t, "#ff0000", EffectiveColorHex("not-a-color", red, "#000000"))
	assert.Equal(t, "#ff0000", EffectiveColorHex("", red, "#000000"))
	assert.Equal(t, "#000000", EffectiveColorHex("", nil, "#000000"))
}

func TestHslFormatting(t *testing.T) {
	half := 0.5
	c := Hsl{H: 222.2, S: 47.4, L: 11.2}

	assert.Equal(t, "222.2 47.4% 11.2%", c.Triple())
	assert.Equal(t, "hsl(222.2, 47.4%, 11.2%)", c.CSS())

	c.Opacity = &half
	assert.Equal(t, "hsla(222.2, 47.4%, 11.2%, 0.5)", c.CSS())
	assert.InDelta(t, 0.5, c.Alpha(), 0.0001)
}
