// Package general reads and writes the general settings document.
package general

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/design"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

const (
	// Path of the general settings document.
	Path = "settings/general"

	// AuditSave is the audit type of Save.
	AuditSave = "settings.general.save"
	// AuditSectionPadding is the audit type of SaveSectionPadding.
	AuditSectionPadding = "settings.sectionPadding.save"
)

// Service works on the general settings document.
type Service struct {
	handles   *document.Handles
	audit     *audit.Log
	validator *validation.XValidator
	now       func() time.Time
}

// New creates the general settings service. log may be nil.
func New(handles *document.Handles, log *audit.Log) *Service {
	return &Service{
		handles:   handles,
		audit:     log,
		validator: validation.Default,
		now:       time.Now,
	}
}

// Get reads the raw document through the client handle.
func (s *Service) Get(ctx context.Context) (*document.Snapshot, error) {
	return s.handles.Client().Get(ctx, Path)
}

// Load reads the document into Settings.
func (s *Service) Load(ctx context.Context) (*Settings, error) {
	snap, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := json.Unmarshal(snap.Raw, settings); err != nil {
		return nil, errors.Wrapf(err, "decode %s", Path)
	}

	return settings, nil
}

// Save deep merges patch over the stored settings, validates the result and
// writes it. Undefined values in patch leave the stored value as it is.
func (s *Service) Save(ctx context.Context, patch map[string]any, actor string) (*document.Snapshot, error) {
	store, err := s.handles.Admin()
	if err != nil {
		return nil, err
	}

	patch = document.Without(patch, document.FieldUpdatedAt, document.FieldUpdatedBy)

	var before map[string]any

	snap, err := store.Update(ctx, Path, func(current map[string]any, _ bool) (map[string]any, error) {
		before = current

		merged, _ := document.StripUndefined(document.DeepMerge(current, patch)).(map[string]any)
		if err := s.check(merged); err != nil {
			return nil, err
		}

		document.Stamp(merged, actor, s.now())

		return merged, nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{Type: AuditSave, Path: Path, Actor: actor, Before: before, After: snap.Data})

	return snap, nil
}

// SaveSectionPadding sets sectionPadding.<name> for every entry of body
// and leaves every other field of the document untouched.
func (s *Service) SaveSectionPadding(ctx context.Context, body []byte, actor string) (*document.Snapshot, error) {
	paddings, err := s.decodePaddings(body)
	if err != nil {
		return nil, err
	}

	store, err := s.handles.Admin()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(paddings))
	for name := range paddings {
		names = append(names, name)
	}

	sort.Strings(names)

	var before []byte

	snap, err := store.UpdateRaw(ctx, Path, func(current []byte, exists bool) ([]byte, error) {
		doc := []byte("{}")
		if exists {
			doc = current
			before = current
		}

		var err error

		if !gjson.GetBytes(doc, "sectionPadding").IsObject() {
			if doc, err = sjson.SetRawBytes(doc, "sectionPadding", []byte("{}")); err != nil {
				return nil, errors.Wrap(err, "set sectionPadding")
			}
		}

		for _, name := range names {
			if doc, err = sjson.SetBytes(doc, "sectionPadding."+name, paddings[name]); err != nil {
				return nil, errors.Wrapf(err, "set sectionPadding.%s", name)
			}
		}

		at := s.now().UTC().Format(time.RFC3339Nano)

		if doc, err = sjson.SetBytes(doc, document.FieldUpdatedAt, at); err != nil {
			return nil, errors.Wrap(err, "stamp")
		}

		return sjson.SetBytes(doc, document.FieldUpdatedBy, actor)
	})
	if err != nil {
		return nil, err
	}

	var prior map[string]any
	if len(before) > 0 {
		_ = json.Unmarshal(before, &prior)
	}

	s.audit.Record(ctx, audit.Entry{Type: AuditSectionPadding, Path: Path, Actor: actor, Before: prior, After: snap.Data})

	return snap, nil
}

// Seed writes defaults when no general settings exist. It reports whether
// a document was written.
func (s *Service) Seed(ctx context.Context, actor string) (bool, error) {
	store, err := s.handles.Admin()
	if err != nil {
		return false, err
	}

	exists, err := store.Exists(ctx, Path)
	if err != nil || exists {
		return false, err
	}

	defaults, err := toMap(Defaults())
	if err != nil {
		return false, err
	}

	document.Stamp(defaults, actor, s.now())

	if _, err := store.Set(ctx, Path, defaults); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Service) check(merged map[string]any) error {
	raw, err := json.Marshal(merged)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}

	return s.validator.Decode(raw, &Settings{})
}

func (s *Service) decodePaddings(body []byte) (map[string]SectionPadding, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil || len(entries) == 0 {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "$", Tag: "required"}}}
	}

	out := make(map[string]SectionPadding, len(entries))
	fields := make([]validation.FieldError, 0)

	for name, raw := range entries {
		if !design.SectionNamePattern.MatchString(name) {
			fields = append(fields, validation.FieldError{Field: name, Tag: "sectionname", Value: name})
			continue
		}

		if string(bytes.TrimSpace(raw)) == "null" {
			fields = append(fields, validation.FieldError{Field: name, Tag: "required"})
			continue
		}

		var p SectionPadding

		if err := s.validator.Decode(raw, &p); err != nil {
			var verr *validation.Error
			if !errors.As(err, &verr) {
				return nil, err
			}

			fields = append(fields, verr.Prefix(name).Fields...)

			continue
		}

		out[name] = p
	}

	if len(fields) > 0 {
		sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
		return nil, &validation.Error{Fields: fields}
	}

	return out, nil
}

// Defaults is the initial general settings document.
func Defaults() Settings {
	radius := design.DefaultButtonRadius
	theme := func(name string) *design.Hsl {
		c := design.DefaultTheme[name]
		return &c
	}

	headerBg := design.DefaultHeaderBg
	footerBg := design.DefaultFooterBg
	footerText := design.DefaultFooterText

	return Settings{
		SiteName: "Studio",
		Logo:     &Logo{URL: "/static/logo.svg", Alt: "Studio", Width: design.DefaultLogoWidth},
		ThemeColors: &ThemeColors{
			Primary:    theme("primary"),
			Secondary:  theme("secondary"),
			Background: theme("background"),
			Foreground: theme("foreground"),
			Accent:     theme("accent"),
		},
		Header: &Header{
			Height:    design.DefaultHeaderHeight,
			LogoWidth: design.DefaultLogoWidth,
			Bg:        &headerBg,
			TextColor: design.DefaultHeaderText,
			Sticky:    true,
			NavLinks: []NavLink{
				{Label: "Services", Href: "#services"},
				{Label: "About", Href: "#about"},
				{Label: "Contact", Href: "#contact"},
			},
		},
		Footer:       &Footer{Bg: &footerBg, Text: &footerText},
		ButtonRadius: &radius,
		SectionPadding: map[string]SectionPadding{
			"hero":     {Top: 96, Bottom: 96},
			"services": {Top: 64, Bottom: 64},
		},
	}
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}

	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	return out, nil
}
