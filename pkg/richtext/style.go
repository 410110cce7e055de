package richtext

import (
	"sort"
	"strings"
)

// FontSizes is the toolbar font-size ladder, smallest first.
var FontSizes = []string{"12px", "14px", "16px", "20px", "28px"}

// DefaultFontSize is the size of text that carries no fontSize mark.
const DefaultFontSize = "16px"

// ColorPalette is the set of toolbar text colours.
var ColorPalette = []string{
	"#000000", "#434343", "#666666", "#999999", "#ffffff",
	"#e03131", "#f08c00", "#2f9e44", "#1971c2", "#6741d9", "#c2255c", "#0c8599",
}

func IsFontSize(v string) bool {
	for _, s := range FontSizes {
		if s == v {
			return true
		}
	}
	return false
}

func IsPaletteColor(v string) bool {
	v = strings.ToLower(v)
	for _, c := range ColorPalette {
		if c == v {
			return true
		}
	}
	return false
}

// SafeCSSValue reports whether v can be placed in a style attribute without
// opening a new declaration, a block, a comment or a string. Everything else
// is applied as stored; attribute escaping is the HTML writer's job.
func SafeCSSValue(v string) bool {
	if strings.TrimSpace(v) == "" || strings.ContainsAny(v, ";{}\"'\\<>") {
		return false
	}
	for _, r := range v {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	lower := strings.ToLower(v)
	return !strings.Contains(lower, "url(") &&
		!strings.Contains(lower, "expression(") &&
		!strings.Contains(lower, "/*")
}

// StyleMap holds parsed CSS declarations.
type StyleMap map[string]string

// ParseStyle parses a CSS style attribute such as "color: #e03131; font-size: 20px".
func ParseStyle(styleStr string) StyleMap {
	styles := make(StyleMap)
	if styleStr == "" {
		return styles
	}

	for _, part := range strings.Split(styleStr, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		v := strings.TrimSpace(kv[1])
		if k != "" && v != "" {
			styles[k] = v
		}
	}
	return styles
}

// String renders the declarations sorted by property name.
func (s StyleMap) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+s[k])
	}
	return strings.Join(parts, ";")
}

// LeafStyle returns the inline CSS for a leaf's marks. Values that fail
// SafeCSSValue are left out.
func LeafStyle(l *Leaf) StyleMap {
	s := make(StyleMap)
	if l.Bold {
		s["font-weight"] = "bold"
	}
	if l.Italic {
		s["font-style"] = "italic"
	}
	if l.Underline {
		s["text-decoration"] = "underline"
	}
	if l.Color != "" && SafeCSSValue(l.Color) {
		s["color"] = l.Color
	}
	if l.FontSize != "" && SafeCSSValue(l.FontSize) {
		s["font-size"] = l.FontSize
	}
	return s
}

// ApplyStyle copies recognised declarations onto a leaf.
func (s StyleMap) ApplyStyle(l *Leaf) {
	if v, ok := s["color"]; ok && SafeCSSValue(v) {
		l.Color = v
	}
	if v, ok := s["font-size"]; ok && SafeCSSValue(v) {
		l.FontSize = v
	}
	if v, ok := s["font-weight"]; ok && (v == "bold" || v == "700") {
		l.Bold = true
	}
	if s["font-style"] == "italic" {
		l.Italic = true
	}
	if strings.Contains(s["text-decoration"], "underline") {
		l.Underline = true
	}
}
