// Package header manages the CMS header document and its derivation from
// the general settings.
package header

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/design"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

const (
	// Path of the CMS header document.
	Path = "cms/pages/header/header"

	// AuditSave is the audit type of Save.
	AuditSave = "cms.header.save"
	// AuditSync is the audit type of SyncFromGeneral.
	AuditSync = "cms.header.sync"

	fieldVersion = "version"
	fieldSource  = "source"
)

var (
	// ErrGeneralMissing is returned by SyncFromGeneral when no general settings exist.
	ErrGeneralMissing = errors.New("general settings not found")
	// ErrNoHeaderSection is returned by SyncFromGeneral when the general settings have no header.
	ErrNoHeaderSection = errors.New("general settings have no header section")
)

type (
	// Doc is the typed CMS header document.
	Doc struct {
		Logo      *general.Logo     `json:"logo,omitempty"`
		NavLinks  []general.NavLink `json:"navLinks,omitempty"  validate:"omitempty,max=20,dive"`
		Bg        *design.Hsl       `json:"bg,omitempty"`
		TextColor string            `json:"textColor,omitempty" validate:"hexcolor_loose"`
		LinkColor string            `json:"linkColor,omitempty" validate:"hexcolor_loose"`
		Height    int               `json:"height,omitempty"    validate:"gte=0,lte=400"`
		LogoWidth int               `json:"logoWidth,omitempty" validate:"gte=0,lte=1000"`
		Sticky    bool              `json:"sticky"`
		Overlay   bool              `json:"overlay"`
		Version   int               `json:"version"`
		UpdatedAt string            `json:"updatedAt,omitempty"`
		UpdatedBy string            `json:"updatedBy,omitempty"`
		Source    *Source           `json:"source,omitempty"`
	}

	// Source records the document a header was derived from.
	Source struct {
		Path      string `json:"path"`
		UpdatedAt string `json:"updatedAt"`
	}

	// Result is returned by writes.
	Result struct {
		Path    string `json:"path"`
		Version int    `json:"version"`
	}
)

// Service works on the CMS header document.
type Service struct {
	handles   *document.Handles
	audit     *audit.Log
	validator *validation.XValidator
	now       func() time.Time
}

// New creates the header service. log may be nil.
func New(handles *document.Handles, log *audit.Log) *Service {
	return &Service{
		handles:   handles,
		audit:     log,
		validator: validation.Default,
		now:       time.Now,
	}
}

// Get reads the raw header document through the client handle.
func (s *Service) Get(ctx context.Context) (*document.Snapshot, error) {
	return s.handles.Client().Get(ctx, Path)
}

// Load reads the header document into Doc.
func (s *Service) Load(ctx context.Context) (*Doc, error) {
	snap, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	doc := &Doc{}
	if err := json.Unmarshal(snap.Raw, doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", Path)
	}

	return doc, nil
}

// Save validates payload as a header, shallow merges it over the stored
// document and bumps the version. Client supplied version and stamps are ignored.
func (s *Service) Save(ctx context.Context, payload map[string]any, actor string) (*Result, error) {
	payload = document.Without(payload, fieldVersion, fieldSource, document.FieldUpdatedAt, document.FieldUpdatedBy)

	cleaned, _ := document.StripUndefined(payload).(map[string]any)
	if err := s.check(cleaned); err != nil {
		return nil, err
	}

	return s.write(ctx, AuditSave, actor, func(current map[string]any) map[string]any {
		return document.ShallowMerge(current, cleaned)
	})
}

// SyncFromGeneral copies the header section and logo of the general settings
// into the header document.
func (s *Service) SyncFromGeneral(ctx context.Context, actor string) (*Result, error) {
	gen, err := s.handles.Client().Get(ctx, general.Path)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrGeneralMissing
		}

		return nil, err
	}

	derived, err := Derive(gen)
	if err != nil {
		return nil, err
	}

	return s.write(ctx, AuditSync, actor, func(current map[string]any) map[string]any {
		return document.ShallowMerge(current, derived)
	})
}

// Derive builds the header fields from a general settings snapshot.
func Derive(gen *document.Snapshot) (map[string]any, error) {
	section, ok := gen.Data["header"].(map[string]any)
	if !ok {
		return nil, ErrNoHeaderSection
	}

	out := make(map[string]any)

	for _, key := range []string{"navLinks", "bg", "textColor", "linkColor", "height", "logoWidth", "sticky", "overlay"} {
		if v, ok := section[key]; ok {
			out[key] = v
		}
	}

	if logo, ok := gen.Data["logo"]; ok {
		out["logo"] = logo
	}

	out[fieldSource] = map[string]any{
		"path":      general.Path,
		"updatedAt": SourceTime(gen),
	}

	return out, nil
}

// SourceTime is the general settings time recorded in source.updatedAt.
func SourceTime(gen *document.Snapshot) string {
	if at, ok := gen.Data[document.FieldUpdatedAt].(string); ok && at != "" {
		return at
	}

	return gen.UpdatedAt.UTC().Format(time.RFC3339Nano)
}

func (s *Service) write(
	ctx context.Context,
	auditType, actor string,
	merge func(current map[string]any) map[string]any,
) (*Result, error) {
	store, err := s.handles.Admin()
	if err != nil {
		return nil, err
	}

	var (
		before  map[string]any
		version int
	)

	snap, err := store.Update(ctx, Path, func(current map[string]any, _ bool) (map[string]any, error) {
		before = current

		next := merge(current)
		version = Version(current) + 1
		next[fieldVersion] = version

		document.Stamp(next, actor, s.now())

		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{Type: auditType, Path: Path, Actor: actor, Before: before, After: snap.Data})

	return &Result{Path: Path, Version: version}, nil
}

func (s *Service) check(payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}

	return s.validator.Decode(raw, &Doc{})
}

// Version returns the stored version of doc, 0 when absent or not a number.
func Version(doc map[string]any) int {
	switch v := doc[fieldVersion].(type) {
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0
		}

		return int(v)
	case int:
		return max(v, 0)
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 {
			return 0
		}

		return int(n)
	default:
		return 0
	}
}
