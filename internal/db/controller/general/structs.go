package general

import "github.com/digiflydk/studio-sub001/internal/design"

type (
	// Settings is the typed shape of the general settings document.
	// Unknown fields are kept in the stored document untouched.
	Settings struct {
		SiteName       string                    `json:"siteName,omitempty"       validate:"omitempty,max=120"`
		Logo           *Logo                     `json:"logo,omitempty"`
		ThemeColors    *ThemeColors              `json:"themeColors,omitempty"`
		Header         *Header                   `json:"header,omitempty"`
		Footer         *Footer                   `json:"footer,omitempty"`
		ButtonRadius   *float64                  `json:"buttonRadius,omitempty"   validate:"omitempty,gte=0,lte=4"`
		SectionPadding map[string]SectionPadding `json:"sectionPadding,omitempty" validate:"omitempty,dive,keys,sectionname,endkeys"`
		UpdatedAt      string                    `json:"updatedAt,omitempty"`
		UpdatedBy      string                    `json:"updatedBy,omitempty"`
	}

	// Logo is the site logo.
	Logo struct {
		URL   string `json:"url,omitempty"   validate:"omitempty,max=2048"`
		Alt   string `json:"alt,omitempty"   validate:"omitempty,max=200"`
		Width int    `json:"width,omitempty" validate:"gte=0,lte=1000"`
	}

	// ThemeColors are the base palette.
	ThemeColors struct {
		Primary    *design.Hsl `json:"primary,omitempty"`
		Secondary  *design.Hsl `json:"secondary,omitempty"`
		Background *design.Hsl `json:"background,omitempty"`
		Foreground *design.Hsl `json:"foreground,omitempty"`
		Accent     *design.Hsl `json:"accent,omitempty"`
	}

	// Header is the header appearance inside general settings.
	Header struct {
		Height    int         `json:"height,omitempty"    validate:"gte=0,lte=400"`
		LogoWidth int         `json:"logoWidth,omitempty" validate:"gte=0,lte=1000"`
		Bg        *design.Hsl `json:"bg,omitempty"`
		TextColor string      `json:"textColor,omitempty" validate:"hexcolor_loose"`
		LinkColor string      `json:"linkColor,omitempty" validate:"hexcolor_loose"`
		Sticky    bool        `json:"sticky"`
		Overlay   bool        `json:"overlay"`
		NavLinks  []NavLink   `json:"navLinks,omitempty"  validate:"omitempty,max=20,dive"`
	}

	// NavLink is one header navigation entry.
	NavLink struct {
		Label  string `json:"label"            validate:"required,max=80"`
		Href   string `json:"href"             validate:"required,max=2048"`
		NewTab bool   `json:"newTab,omitempty"`
	}

	// Footer colors.
	Footer struct {
		Bg   *design.Hsl `json:"bg,omitempty"`
		Text *design.Hsl `json:"text,omitempty"`
	}

	// SectionPadding is the vertical padding of one page section in px.
	SectionPadding struct {
		Top    int `json:"top"    validate:"gte=0,lte=400"`
		Bottom int `json:"bottom" validate:"gte=0,lte=400"`
	}
)
