package editor

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

// Values is the form input of one request.
type Values interface {
	FormValue(key string, defaultValue ...string) string
	// Has reports whether the request carried key, even with an empty value.
	Has(key string) bool
}

// ctxValues reads url encoded and multipart forms of a fiber request.
type ctxValues struct {
	c *fiber.Ctx
}

func (v ctxValues) FormValue(key string, defaultValue ...string) string {
	return v.c.FormValue(key, defaultValue...)
}

func (v ctxValues) Has(key string) bool {
	if v.c.Request().PostArgs().Has(key) {
		return true
	}

	form, err := v.c.MultipartForm()
	if err != nil {
		return false
	}

	_, ok := form.Value[key]

	return ok
}

// patchForm turns form inputs into a document patch. Empty inputs become
// document.Undefined so they leave the stored value untouched.
type patchForm struct {
	values Values
	errs   []validation.FieldError
}

func newPatchForm(v Values) *patchForm {
	return &patchForm{values: v}
}

func (f *patchForm) raw(name string) string {
	return strings.TrimSpace(f.values.FormValue(name))
}

func (f *patchForm) str(name string) any {
	if v := f.raw(name); v != "" {
		return v
	}

	return document.Undefined
}

// text is str for fields an editor may clear: a submitted empty input
// becomes "", only an absent input leaves the stored value untouched.
func (f *patchForm) text(name string) any {
	if !f.values.Has(name) {
		return document.Undefined
	}

	return f.raw(name)
}

func (f *patchForm) int(name, field string) any {
	v := f.raw(name)
	if v == "" {
		return document.Undefined
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		f.errs = append(f.errs, validation.FieldError{Field: field, Tag: "number", Value: v})
		return document.Undefined
	}

	return n
}

func (f *patchForm) float(name, field string) any {
	v := f.raw(name)
	if v == "" {
		return document.Undefined
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.errs = append(f.errs, validation.FieldError{Field: field, Tag: "number", Value: v})
		return document.Undefined
	}

	return n
}

// bool reads a checkbox. Unchecked boxes are not submitted, so absence is false.
func (f *patchForm) bool(name string) bool {
	switch strings.ToLower(f.raw(name)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// hsl reads name_h, name_s, name_l and the optional name_opacity. All three
// channels empty leaves the color untouched.
func (f *patchForm) hsl(name, field string) any {
	h, s, l := f.raw(name+"_h"), f.raw(name+"_s"), f.raw(name+"_l")
	if h == "" && s == "" && l == "" {
		return document.Undefined
	}

	return map[string]any{
		"h":       f.float(name+"_h", field+".h"),
		"s":       f.float(name+"_s", field+".s"),
		"l":       f.float(name+"_l", field+".l"),
		"opacity": f.float(name+"_opacity", field+".opacity"),
	}
}

// lines splits a textarea into rows of "a | b | c" cells.
func (f *patchForm) lines(name string) [][]string {
	rows := make([][]string, 0)

	for _, line := range strings.Split(f.values.FormValue(name), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}

		rows = append(rows, cells)
	}

	return rows
}

func (f *patchForm) err() error {
	if len(f.errs) == 0 {
		return nil
	}

	return &validation.Error{Fields: f.errs}
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}

	return ""
}

// navLinks parses "Label | href | newtab" rows.
func (f *patchForm) navLinks(name string) []any {
	out := make([]any, 0)

	for _, cells := range f.lines(name) {
		link := map[string]any{"label": cell(cells, 0), "href": cell(cells, 1)}
		if strings.EqualFold(cell(cells, 2), "newtab") {
			link["newTab"] = true
		}

		out = append(out, link)
	}

	return out
}

// slides parses "imageUrl | title | subtitle | href" rows.
func (f *patchForm) slides(name string) []any {
	out := make([]any, 0)

	for _, cells := range f.lines(name) {
		slide := map[string]any{"imageUrl": cell(cells, 0)}

		for i, key := range []string{"title", "subtitle", "href"} {
			if v := cell(cells, i+1); v != "" {
				slide[key] = v
			}
		}

		out = append(out, slide)
	}

	return out
}
