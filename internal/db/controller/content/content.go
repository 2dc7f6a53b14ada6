// Package content stores the admin edited page content: the header
// announcement and the home page hero.
package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

const (
	// HeaderPath of the admin header content document.
	HeaderPath = "admin/pages/header/header"
	// HomePath of the admin home content document.
	HomePath = "admin/pages/home/home"

	// AuditHeaderSave is the audit type of SaveHeader.
	AuditHeaderSave = "admin.header.save"
	// AuditHomeSave is the audit type of SaveHome.
	AuditHomeSave = "admin.home.save"
)

type (
	// Header is the admin header content.
	Header struct {
		Announcement string `json:"announcement,omitempty" validate:"omitempty,max=280"`
		CTA          *CTA   `json:"cta,omitempty"`
		UpdatedAt    string `json:"updatedAt,omitempty"`
		UpdatedBy    string `json:"updatedBy,omitempty"`
	}

	// Home is the admin home page content.
	Home struct {
		Hero      *Hero  `json:"hero,omitempty"`
		UpdatedAt string `json:"updatedAt,omitempty"`
		UpdatedBy string `json:"updatedBy,omitempty"`
	}

	// Hero is the home page hero. Body is markdown.
	Hero struct {
		Title    string  `json:"title,omitempty"    validate:"omitempty,max=200"`
		Subtitle string  `json:"subtitle,omitempty" validate:"omitempty,max=400"`
		Body     string  `json:"body,omitempty"     validate:"omitempty,max=20000"`
		CTA      *CTA    `json:"cta,omitempty"`
		ImageURL string  `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
		Slides   []Slide `json:"slides,omitempty"   validate:"omitempty,max=12,dive"`
	}

	// Slide is one hero slider entry.
	Slide struct {
		Title    string `json:"title,omitempty"    validate:"omitempty,max=200"`
		Subtitle string `json:"subtitle,omitempty" validate:"omitempty,max=400"`
		ImageURL string `json:"imageUrl"           validate:"required,max=2048"`
		Href     string `json:"href,omitempty"     validate:"omitempty,max=2048"`
	}

	// CTA is a call to action link.
	CTA struct {
		Label string `json:"label,omitempty" validate:"omitempty,max=60"`
		Href  string `json:"href,omitempty"  validate:"required_with=Label,max=2048"`
	}
)

// Service reads and writes admin content. Every operation uses the admin
// handle, including reads, so missing credentials fail with ErrCredentials.
type Service struct {
	handles   *document.Handles
	audit     *audit.Log
	validator *validation.XValidator
	now       func() time.Time
}

// New creates the content service. log may be nil.
func New(handles *document.Handles, log *audit.Log) *Service {
	return &Service{
		handles:   handles,
		audit:     log,
		validator: validation.Default,
		now:       time.Now,
	}
}

// Header reads the raw admin header document.
func (s *Service) Header(ctx context.Context) (*document.Snapshot, error) {
	return s.get(ctx, HeaderPath)
}

// Home reads the raw admin home document.
func (s *Service) Home(ctx context.Context) (*document.Snapshot, error) {
	return s.get(ctx, HomePath)
}

// LoadHome reads the home document into Home.
func (s *Service) LoadHome(ctx context.Context) (*Home, error) {
	snap, err := s.Home(ctx)
	if err != nil {
		return nil, err
	}

	home := &Home{}
	if err := json.Unmarshal(snap.Raw, home); err != nil {
		return nil, errors.Wrapf(err, "decode %s", HomePath)
	}

	return home, nil
}

// LoadHeader reads the header document into Header.
func (s *Service) LoadHeader(ctx context.Context) (*Header, error) {
	snap, err := s.Header(ctx)
	if err != nil {
		return nil, err
	}

	h := &Header{}
	if err := json.Unmarshal(snap.Raw, h); err != nil {
		return nil, errors.Wrapf(err, "decode %s", HeaderPath)
	}

	return h, nil
}

// SaveHeader deep merges patch into the admin header document.
func (s *Service) SaveHeader(ctx context.Context, patch map[string]any, actor string) (*document.Snapshot, error) {
	return s.save(ctx, HeaderPath, AuditHeaderSave, patch, actor, &Header{})
}

// SaveHome deep merges patch into the admin home document. Slides are
// replaced as a whole.
func (s *Service) SaveHome(ctx context.Context, patch map[string]any, actor string) (*document.Snapshot, error) {
	return s.save(ctx, HomePath, AuditHomeSave, patch, actor, &Home{})
}

func (s *Service) get(ctx context.Context, path string) (*document.Snapshot, error) {
	store, err := s.handles.Admin()
	if err != nil {
		return nil, err
	}

	return store.Get(ctx, path)
}

func (s *Service) save(
	ctx context.Context,
	path, auditType string,
	patch map[string]any,
	actor string,
	shape any,
) (*document.Snapshot, error) {
	store, err := s.handles.Admin()
	if err != nil {
		return nil, err
	}

	patch = document.Without(patch, document.FieldUpdatedAt, document.FieldUpdatedBy)

	var before map[string]any

	snap, err := store.Update(ctx, path, func(current map[string]any, _ bool) (map[string]any, error) {
		before = current

		merged, _ := document.StripUndefined(document.DeepMerge(current, patch)).(map[string]any)

		raw, err := json.Marshal(merged)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", path)
		}

		if err := s.validator.Decode(raw, shape); err != nil {
			return nil, err
		}

		document.Stamp(merged, actor, s.now())

		return merged, nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{Type: auditType, Path: path, Actor: actor, Before: before, After: snap.Data})

	return snap, nil
}
