package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/dbtest"
	"github.com/digiflydk/studio-sub001/internal/db/models"
)

func newLog(t *testing.T) *Log {
	t.Helper()

	l, err := New(dbtest.Open(t))
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	l.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}

	return l
}

func TestNewNilDB(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, document.ErrDBNil)
}

func TestAppend(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	rec, err := l.Append(ctx, Entry{
		Type:   "settings.general.save",
		Path:   "settings/general",
		Actor:  "admin",
		Before: map[string]any{"siteName": "Old", "buttonRadius": 0.5},
		After:  map[string]any{"siteName": "New", "buttonRadius": 0.5},
	})
	require.NoError(t, err)

	assert.Len(t, rec.ID, 36)
	assert.Equal(t, "audit/"+rec.ID, Path(rec))
	assert.Equal(t, time.UTC, rec.Timestamp.Location())

	var diff map[string]document.Change
	require.NoError(t, json.Unmarshal(rec.Diff, &diff))
	assert.Equal(t, map[string]document.Change{"siteName": {Before: "Old", After: "New"}}, diff)
}

func TestAppendWithoutPayload(t *testing.T) {
	l := newLog(t)

	rec, err := l.Append(context.Background(), Entry{Type: "cms.header.sync", Path: "cms/pages/header/header"})
	require.NoError(t, err)
	assert.Nil(t, rec.Before)
	assert.Nil(t, rec.After)
	assert.Nil(t, rec.Diff)
}

func TestRecent(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	for _, typ := range []string{"a", "b", "c"} {
		_, err := l.Append(ctx, Entry{Type: typ, Path: "x/y"})
		require.NoError(t, err)
	}

	records, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].Type)
	assert.Equal(t, "b", records[1].Type)

	records, err = l.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestClampLimit(t *testing.T) {
	testCases := []struct {
		in, want int
	}{
		{in: -1, want: DefaultLimit},
		{in: 0, want: DefaultLimit},
		{in: 5, want: 5},
		{in: MaxLimit, want: MaxLimit},
		{in: 1000, want: MaxLimit},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, ClampLimit(tc.in))
	}
}

func TestRecordNilLog(t *testing.T) {
	var l *Log

	assert.NotPanics(t, func() { l.Record(context.Background(), Entry{Type: "x"}) })
}

func TestRecordSwallowsAppendFailure(t *testing.T) {
	db := dbtest.Open(t)

	l, err := New(db)
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.AuditRecord{}))

	_, err = l.Append(context.Background(), Entry{Type: "x", Path: "settings/general"})
	require.Error(t, err)

	assert.NotPanics(t, func() {
		l.Record(context.Background(), Entry{Type: "x", Path: "settings/general"})
	})
}
