package design

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// SectionNamePattern restricts section keys to what is safe inside a
// variable name and a JSON path.
var SectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ThemeColors lists the themeColors keys in output order.
var ThemeColors = []string{"primary", "secondary", "background", "foreground", "accent"} //nolint:gochecknoglobals

func opacity(v float64) *float64 { return &v }

// Defaults used when a field is absent from the settings document.
var (
	DefaultTheme = map[string]Hsl{ //nolint:gochecknoglobals
		"primary":    {H: 222.2, S: 47.4, L: 11.2},
		"secondary":  {H: 210, S: 40, L: 96.1},
		"background": {H: 0, S: 0, L: 100},
		"foreground": {H: 222.2, S: 84, L: 4.9},
		"accent":     {H: 210, S: 40, L: 96.1},
	}
	DefaultHeaderBg     = Hsl{H: 0, S: 0, L: 100, Opacity: opacity(1)} //nolint:gochecknoglobals
	DefaultFooterBg     = Hsl{H: 222.2, S: 47.4, L: 11.2}               //nolint:gochecknoglobals
	DefaultFooterText   = Hsl{H: 210, S: 40, L: 98}                     //nolint:gochecknoglobals
	DefaultHeaderText   = "#111827"
	DefaultHeaderHeight = 80
	DefaultLogoWidth    = 120
	DefaultButtonRadius = 0.5
)

// Variables maps a general settings document to CSS custom properties.
// The mapping is pure: equal input gives equal output, absent or malformed
// fields fall back to the defaults.
func Variables(settings []byte) map[string]string {
	doc := gjson.ParseBytes(settings)
	vars := make(map[string]string)

	for _, name := range ThemeColors {
		c := hslAt(doc, "themeColors."+name, DefaultTheme[name])
		vars["--"+name] = c.Triple()
		vars["--"+name+"-hex"] = c.Hex()
	}

	height := intAt(doc, "header.height", DefaultHeaderHeight)
	primary := hslAt(doc, "themeColors.primary", DefaultTheme["primary"])

	vars["--header-height"] = px(height)
	vars["--header-logo-width"] = px(intAt(doc, "header.logoWidth", DefaultLogoWidth))
	vars["--header-bg"] = hslAt(doc, "header.bg", DefaultHeaderBg).CSS()
	vars["--header-text"] = EffectiveColorHex(doc.Get("header.textColor").String(), nil, DefaultHeaderText)
	vars["--header-link"] = EffectiveColorHex(doc.Get("header.linkColor").String(), &primary, "")

	vars["--header-position"] = "relative"
	if doc.Get("header.sticky").Bool() {
		vars["--header-position"] = "sticky"
	}

	// an overlaid header sits on top of the hero, so content starts at 0
	vars["--header-offset"] = px(height)
	if doc.Get("header.overlay").Bool() {
		vars["--header-offset"] = "0px"
	}

	vars["--footer-bg"] = hslAt(doc, "footer.bg", DefaultFooterBg).CSS()
	vars["--footer-text"] = hslAt(doc, "footer.text", DefaultFooterText).CSS()

	radius := DefaultButtonRadius
	if r := doc.Get("buttonRadius"); r.Type == gjson.Number {
		radius = clamp(r.Float(), 0, 4) //nolint:mnd
	}

	vars["--radius"] = num(radius) + "rem"

	doc.Get("sectionPadding").ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !SectionNamePattern.MatchString(name) || !value.IsObject() {
			return true
		}

		vars["--section-"+name+"-pt"] = px(clampInt(int(value.Get("top").Int()), 0, 400))    //nolint:mnd
		vars["--section-"+name+"-pb"] = px(clampInt(int(value.Get("bottom").Int()), 0, 400)) //nolint:mnd

		return true
	})

	return vars
}

// Stylesheet renders vars as a :root rule with names sorted.
func Stylesheet(vars map[string]string) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	sort.Strings(names)

	var b strings.Builder

	b.WriteString(":root {\n")

	for _, name := range names {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(sanitizeValue(vars[name]))
		b.WriteString(";\n")
	}

	b.WriteString("}\n")

	return b.String()
}

func hslAt(doc gjson.Result, path string, fallback Hsl) Hsl {
	r := doc.Get(path)
	if !r.IsObject() {
		return fallback
	}

	c := Hsl{
		H: r.Get("h").Float(),
		S: r.Get("s").Float(),
		L: r.Get("l").Float(),
	}

	if o := r.Get("opacity"); o.Type == gjson.Number {
		c.Opacity = opacity(o.Float())
	}

	return c
}

func intAt(doc gjson.Result, path string, fallback int) int {
	r := doc.Get(path)
	if r.Type != gjson.Number || r.Int() <= 0 {
		return fallback
	}

	return int(r.Int())
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// sanitizeValue keeps a value from closing the declaration or the rule.
func sanitizeValue(v string) string {
	return strings.NewReplacer(";", "", "{", "", "}", "", "<", "", "\n", " ").Replace(v)
}
