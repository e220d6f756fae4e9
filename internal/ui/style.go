package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".panel", "#search" or "button"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// Match merges the properties of every rule whose selector matches the element's type,
// class or id, in sheet order.
func (s *Stylesheet) Match(typ, class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, rule := range s.Rules {
		sel := rule.Selector
		var ok bool
		switch {
		case strings.HasPrefix(sel, "."):
			ok = class != "" && hasClass(class, sel[1:])
		case strings.HasPrefix(sel, "#"):
			ok = id != "" && sel[1:] == id
		default:
			ok = typ != "" && sel == typ
		}
		if ok {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// hasClass reports whether the space-separated class list contains name.
func hasClass(list, name string) bool {
	for _, c := range strings.Fields(list) {
		if c == name {
			return true
		}
	}
	return false
}

// ComputedStyle holds resolved values used for drawing.
// LeftPct/TopPct: 0–100 for percentage positioning; -1 means use Left/Top as pixels.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Accent     rl.Color // selected rows, active title bars
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32
	TopPct     int32
	Padding    int32
	FontSize   int32
	LineHeight int32
}

// DefaultComputedStyle returns a minimal style: transparent background, white text, no border.
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		Accent:     rl.NewColor(255, 170, 0, 255),
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
		FontSize:   18,
		LineHeight: 20,
	}
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA. Returns rl.Black and false on error.
func ParseHexColor(s string) (rl.Color, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return rl.Black, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return rl.Black, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rl.Black, false
	}
	return rl.NewColor(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// ParsePx parses a number, with optional "px" suffix, to int32. Unitless is treated as pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" to int32 (0–100).
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// ResolveProps builds a ComputedStyle from a merged property map.
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	color := func(v string, dst *rl.Color) bool {
		c, ok := ParseHexColor(v)
		if ok {
			*dst = c
		}
		return ok
	}
	px := func(v string, dst *int32) {
		if n, ok := ParsePx(v); ok && n >= 0 {
			*dst = n
		}
	}
	for k, v := range props {
		switch k {
		case "background":
			color(v, &out.Background)
		case "color":
			color(v, &out.Color)
		case "accent":
			color(v, &out.Accent)
		case "border":
			out.HasBorder = color(v, &out.Border)
		case "width":
			px(v, &out.Width)
		case "height":
			px(v, &out.Height)
		case "padding":
			px(v, &out.Padding)
		case "font-size":
			px(v, &out.FontSize)
		case "line-height":
			px(v, &out.LineHeight)
		case "left", "x":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else {
				px(v, &out.Left)
			}
		case "top", "y":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else {
				px(v, &out.Top)
			}
		}
	}
	return out
}
