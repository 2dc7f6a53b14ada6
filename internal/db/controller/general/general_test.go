package general

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/dbtest"
	"github.com/digiflydk/studio-sub001/internal/db/models"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *audit.Log) {
	t.Helper()

	db, h := dbtest.Handles(t, nil)

	log, err := audit.New(db)
	require.NoError(t, err)

	s := New(h, log)
	s.now = func() time.Time { return fixedNow }

	return s, log
}

func TestGetNotFound(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Get(context.Background())
	require.ErrorIs(t, err, document.ErrNotFound)

	_, err = s.Load(context.Background())
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestSaveMergesAndStamps(t *testing.T) {
	s, log := newService(t)
	ctx := context.Background()

	_, err := s.Save(ctx, map[string]any{
		"siteName": "Studio",
		"header":   map[string]any{"height": 80, "sticky": true},
		"custom":   "kept",
	}, "alice")
	require.NoError(t, err)

	snap, err := s.Save(ctx, map[string]any{
		"header":    map[string]any{"height": 96, "textColor": document.Undefined},
		"updatedBy": "mallory",
	}, "bob")
	require.NoError(t, err)

	header, ok := snap.Data["header"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 96, header["height"], 0)
	assert.Equal(t, true, header["sticky"])
	assert.NotContains(t, header, "textColor")
	assert.Equal(t, "Studio", snap.Data["siteName"])
	assert.Equal(t, "kept", snap.Data["custom"])
	assert.Equal(t, "bob", snap.Data["updatedBy"])
	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), snap.Data["updatedAt"])

	settings, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 96, settings.Header.Height)

	records, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, AuditSave, records[0].Type)
	assert.Equal(t, "bob", records[0].Actor)
}

func TestSaveValidation(t *testing.T) {
	testCases := []struct {
		name  string
		patch map[string]any
		field string
	}{
		{
			name:  "hue out of range",
			patch: map[string]any{"themeColors": map[string]any{"primary": map[string]any{"h": 400, "s": 10, "l": 10}}},
			field: "themeColors.primary.h",
		},
		{
			name:  "bad hex",
			patch: map[string]any{"header": map[string]any{"linkColor": "blue"}},
			field: "header.linkColor",
		},
		{
			name:  "wrong type",
			patch: map[string]any{"header": map[string]any{"height": "tall"}},
			field: "header.height",
		},
		{
			name:  "nav link without href",
			patch: map[string]any{"header": map[string]any{"navLinks": []any{map[string]any{"label": "Home"}}}},
			field: "header.navLinks[0].href",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newService(t)

			_, err := s.Save(context.Background(), tc.patch, "alice")

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Fields[0].Field)

			_, err = s.Get(context.Background())
			require.ErrorIs(t, err, document.ErrNotFound, "nothing written")
		})
	}
}

func TestSaveWithoutAdminCredentials(t *testing.T) {
	db := dbtest.Open(t)

	h, err := document.Connect(db, dbtest.ClientCredentials(), document.Credentials{ProjectID: dbtest.ProjectID}, nil)
	require.NoError(t, err)

	_, err = New(h, nil).Save(context.Background(), map[string]any{"siteName": "x"}, "alice")
	require.ErrorIs(t, err, document.ErrCredentials)
}

func TestSaveSectionPadding(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.Save(ctx, map[string]any{
		"siteName":       "Studio",
		"sectionPadding": map[string]any{"services": map[string]any{"top": 10, "bottom": 10}},
	}, "alice")
	require.NoError(t, err)

	snap, err := s.SaveSectionPadding(ctx, []byte(`{"hero":{"top":20,"bottom":40}}`), "bob")
	require.NoError(t, err)

	assert.Equal(t, "Studio", snap.Data["siteName"])

	settings, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SectionPadding{Top: 20, Bottom: 40}, settings.SectionPadding["hero"])
	assert.Equal(t, SectionPadding{Top: 10, Bottom: 10}, settings.SectionPadding["services"])
	assert.Equal(t, "bob", settings.UpdatedBy)
}

func TestSaveSectionPaddingCreatesDocument(t *testing.T) {
	s, _ := newService(t)

	_, err := s.SaveSectionPadding(context.Background(), []byte(`{"cta-2":{"top":0,"bottom":8}}`), "bob")
	require.NoError(t, err)

	settings, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SectionPadding{Top: 0, Bottom: 8}, settings.SectionPadding["cta-2"])
}

func TestSaveSectionPaddingValidation(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "empty", body: `{}`, fields: []string{"$"}},
		{name: "not json", body: `nope`, fields: []string{"$"}},
		{name: "bad name", body: `{"a.b":{"top":1,"bottom":1}}`, fields: []string{"a.b"}},
		{name: "out of range", body: `{"hero":{"top":500,"bottom":-1}}`, fields: []string{"hero.bottom", "hero.top"}},
		{name: "wrong type", body: `{"hero":{"top":"x","bottom":1}}`, fields: []string{"hero.top"}},
		{name: "null entry", body: `{"hero":null,"cta-2":{"top":1,"bottom":1}}`, fields: []string{"hero"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newService(t)

			_, err := s.SaveSectionPadding(context.Background(), []byte(tc.body), "bob")

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)

			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}

			assert.Equal(t, tc.fields, got)
		})
	}
}

func TestSeed(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	written, err := s.Seed(ctx, "system")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = s.Seed(ctx, "system")
	require.NoError(t, err)
	assert.False(t, written)

	settings, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Studio", settings.SiteName)
	assert.Len(t, settings.Header.NavLinks, 3)
	require.NoError(t, validation.Default.Struct(settings))
}

func TestSaveSurvivesAuditFailure(t *testing.T) {
	db, h := dbtest.Handles(t, nil)

	log, err := audit.New(db)
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.AuditRecord{}))

	s := New(h, log)
	ctx := context.Background()

	_, err = s.Save(ctx, map[string]any{"siteName": "X"}, "alice")
	require.NoError(t, err)

	_, err = s.SaveSectionPadding(ctx, []byte(`{"hero":{"top":4,"bottom":8}}`), "alice")
	require.NoError(t, err)

	settings, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", settings.SiteName)
	assert.Equal(t, SectionPadding{Top: 4, Bottom: 8}, settings.SectionPadding["hero"])
}
