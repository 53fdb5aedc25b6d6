// Package csscolor extracts color decorations from a parsed stylesheet:
// hex colors, CSS named colors, and rgb()/rgba()/hsl()/hsla() function
// calls, plus the small numeric conversions an editor's color picker needs
// to round-trip a decoration back into source text. It is a pure tree walk
// over an already-built *cssast.Tree: one function per node shape,
// building up a flat result slice.
package csscolor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/logger"
)

// RGBA is a normalized color value, components in [0,1], matching the LSP
// ColorInformation shape so a caller can marshal it directly.
type RGBA struct {
	Red, Green, Blue, Alpha float64
}

// Decoration is one color occurrence in the source.
type Decoration struct {
	Range logger.Range
	Color RGBA
}

// Find walks the whole tree and returns every color decoration it finds.
func Find(tree *cssast.Tree, root cssast.Index) []Decoration {
	var out []Decoration
	tree.Accept(root, func(idx cssast.Index) bool {
		n := tree.Node(idx)
		switch n.Kind {
		case cssast.KindHexColorValue:
			if c, ok := parseHex(tree.GetText(idx)); ok {
				out = append(out, Decoration{Range: n.Range, Color: c})
			}
		case cssast.KindIdentifier:
			if c, ok := namedColors[strings.ToLower(tree.GetText(idx))]; ok {
				out = append(out, Decoration{Range: n.Range, Color: c})
			}
		case cssast.KindFunction:
			if c, ok := functionColor(tree, idx); ok {
				out = append(out, Decoration{Range: n.Range, Color: c})
			}
		}
		return true
	})
	return out
}

func parseHex(text string) (RGBA, bool) {
	if len(text) == 0 || text[0] != '#' {
		return RGBA{}, false
	}
	hex := text[1:]
	expand := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	}
	switch len(hex) {
	case 3:
		hex = expand(hex) + "ff"
	case 4:
		hex = expand(hex)
	case 6:
		hex = hex + "ff"
	case 8:
		// already RRGGBBAA
	default:
		return RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, false
	}
	r := float64((v>>24)&0xff) / 255
	g := float64((v>>16)&0xff) / 255
	b := float64((v>>8)&0xff) / 255
	a := float64(v&0xff) / 255
	return RGBA{Red: r, Green: g, Blue: b, Alpha: a}, true
}

func functionColor(tree *cssast.Tree, idx cssast.Index) (RGBA, bool) {
	data, _ := tree.Data(idx).(*cssast.FunctionData)
	if data == nil {
		return RGBA{}, false
	}
	name := strings.ToLower(data.Name)
	var nums []float64
	for _, arg := range data.Arguments {
		// One argument Expression can hold several components separated
		// by ",", "/" or whitespace, so each component is parsed on its own.
		fields := strings.FieldsFunc(tree.GetText(arg), func(r rune) bool {
			return r == ',' || r == '/' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		for _, field := range fields {
			f, err := strconv.ParseFloat(strings.TrimSuffix(field, "%"), 64)
			if err != nil {
				continue
			}
			nums = append(nums, f)
		}
	}
	switch name {
	case "rgb", "rgba":
		if len(nums) < 3 {
			return RGBA{}, false
		}
		a := 1.0
		if len(nums) >= 4 {
			a = nums[3]
		}
		return RGBA{Red: nums[0] / 255, Green: nums[1] / 255, Blue: nums[2] / 255, Alpha: a}, true
	case "hsl", "hsla":
		if len(nums) < 3 {
			return RGBA{}, false
		}
		a := 1.0
		if len(nums) >= 4 {
			a = nums[3]
		}
		r, g, b := hslToRGB(nums[0], nums[1]/100, nums[2]/100)
		return RGBA{Red: r, Green: g, Blue: b, Alpha: a}, true
	}
	return RGBA{}, false
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = normalizeHue(h)
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h/360+1.0/3)
	g = hueToRGB(p, q, h/360)
	b = hueToRGB(p, q, h/360-1.0/3)
	return
}

func normalizeHue(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return h
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// FormatHex renders c as a "#rrggbb" or "#rrggbbaa" literal, the textual
// edit a color-picker "presentation" response applies back into source.
func FormatHex(c RGBA) string {
	r := clampByte(c.Red)
	g := clampByte(c.Green)
	b := clampByte(c.Blue)
	if c.Alpha >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, clampByte(c.Alpha))
}

func clampByte(v float64) int {
	n := int(v*255 + 0.5)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// namedColors is a small curated subset of the CSS named-color table —
// the full 148-entry list belongs in internal/cssdata's provider, not
// hardcoded here; these are the handful common enough to decorate without
// a provider round-trip.
var namedColors = map[string]RGBA{
	"red":      {Red: 1, Green: 0, Blue: 0, Alpha: 1},
	"green":    {Red: 0, Green: 0.5019607843137255, Blue: 0, Alpha: 1},
	"blue":     {Red: 0, Green: 0, Blue: 1, Alpha: 1},
	"white":    {Red: 1, Green: 1, Blue: 1, Alpha: 1},
	"black":    {Red: 0, Green: 0, Blue: 0, Alpha: 1},
	"gray":     {Red: 0.5019607843137255, Green: 0.5019607843137255, Blue: 0.5019607843137255, Alpha: 1},
	"grey":     {Red: 0.5019607843137255, Green: 0.5019607843137255, Blue: 0.5019607843137255, Alpha: 1},
	"yellow":   {Red: 1, Green: 1, Blue: 0, Alpha: 1},
	"orange":   {Red: 1, Green: 0.6470588235294118, Blue: 0, Alpha: 1},
	"purple":   {Red: 0.5019607843137255, Green: 0, Blue: 0.5019607843137255, Alpha: 1},
	"pink":     {Red: 1, Green: 0.7529411764705882, Blue: 0.796078431372549, Alpha: 1},
	"brown":    {Red: 0.6470588235294118, Green: 0.16470588235294117, Blue: 0.16470588235294117, Alpha: 1},
	"cyan":     {Red: 0, Green: 1, Blue: 1, Alpha: 1},
	"magenta":  {Red: 1, Green: 0, Blue: 1, Alpha: 1},
	"lime":     {Red: 0, Green: 1, Blue: 0, Alpha: 1},
	"navy":     {Red: 0, Green: 0, Blue: 0.5019607843137255, Alpha: 1},
	"teal":     {Red: 0, Green: 0.5019607843137255, Blue: 0.5019607843137255, Alpha: 1},
	"maroon":   {Red: 0.5019607843137255, Green: 0, Blue: 0, Alpha: 1},
	"olive":    {Red: 0.5019607843137255, Green: 0.5019607843137255, Blue: 0, Alpha: 1},
	"silver":   {Red: 0.7529411764705882, Green: 0.7529411764705882, Blue: 0.7529411764705882, Alpha: 1},
	"gold":     {Red: 1, Green: 0.8431372549019608, Blue: 0, Alpha: 1},
	"coral":    {Red: 1, Green: 0.4980392156862745, Blue: 0.3137254901960784, Alpha: 1},
	"salmon":   {Red: 0.9803921568627451, Green: 0.5019607843137255, Blue: 0.4470588235294118, Alpha: 1},
	"indigo":   {Red: 0.29411764705882354, Green: 0, Blue: 0.5098039215686274, Alpha: 1},
	"violet":   {Red: 0.9333333333333333, Green: 0.5098039215686274, Blue: 0.9333333333333333, Alpha: 1},
	"tan":      {Red: 0.8235294117647058, Green: 0.7058823529411765, Blue: 0.5490196078431373, Alpha: 1},
	"beige":    {Red: 0.9607843137254902, Green: 0.9607843137254902, Blue: 0.8627450980392157, Alpha: 1},
	"ivory":    {Red: 1, Green: 1, Blue: 0.9411764705882353, Alpha: 1},
	"khaki":    {Red: 0.9411764705882353, Green: 0.9019607843137255, Blue: 0.5490196078431373, Alpha: 1},
	"lavender": {Red: 0.9019607843137255, Green: 0.9019607843137255, Blue: 0.9803921568627451, Alpha: 1},
	"plum":     {Red: 0.8666666666666667, Green: 0.6274509803921569, Blue: 0.8666666666666667, Alpha: 1},
	"crimson":  {Red: 0.8627450980392157, Green: 0.0784313725490196, Blue: 0.23529411764705882, Alpha: 1},
	"chocolate": {
		Red:   0.8235294117647058,
		Green: 0.4117647058823529,
		Blue:  0.11764705882352941,
		Alpha: 1,
	},
	"transparent": {Red: 0, Green: 0, Blue: 0, Alpha: 0},
}
