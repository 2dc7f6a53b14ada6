package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
)

func TestDeepMerge(t *testing.T) {
	base := map[string]any{
		"siteName": "Studio",
		"header": map[string]any{
			"height": float64(80),
			"sticky": true,
		},
		"navLinks": []any{"a"},
	}

	patch := map[string]any{
		"header": map[string]any{
			"height":  float64(96),
			"overlay": false,
			"bg":      document.Undefined,
		},
		"navLinks": []any{"b", "c"},
		"footer":   nil,
	}

	got := document.DeepMerge(base, patch)

	assert.Equal(t, map[string]any{
		"siteName": "Studio",
		"header": map[string]any{
			"height":  float64(96),
			"sticky":  true,
			"overlay": false,
		},
		"navLinks": []any{"b", "c"},
		"footer":   nil,
	}, got)

	// inputs untouched
	assert.Equal(t, float64(80), base["header"].(map[string]any)["height"])
	assert.NotContains(t, base, "footer")
}

func TestDeepMergeIdempotent(t *testing.T) {
	testCases := []struct {
		name  string
		base  map[string]any
		patch map[string]any
	}{
		{
			name:  "empty base",
			patch: map[string]any{"a": float64(1)},
		},
		{
			name:  "nested",
			base:  map[string]any{"a": map[string]any{"b": map[string]any{"c": "x", "d": "y"}}},
			patch: map[string]any{"a": map[string]any{"b": map[string]any{"c": "z"}}},
		},
		{
			name:  "scalar replaced by map",
			base:  map[string]any{"a": "scalar"},
			patch: map[string]any{"a": map[string]any{"b": float64(1)}},
		},
		{
			name:  "disjoint keys",
			base:  map[string]any{"a": float64(1)},
			patch: map[string]any{"b": []any{float64(1), float64(2)}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			once := document.DeepMerge(tc.base, tc.patch)
			twice := document.DeepMerge(once, tc.patch)

			assert.Equal(t, once, twice)
		})
	}
}

func TestDeepMergeDisjointAssociative(t *testing.T) {
	base := map[string]any{"x": float64(0)}
	p := map[string]any{"a": float64(1)}
	q := map[string]any{"b": float64(2)}

	left := document.DeepMerge(document.DeepMerge(base, p), q)
	right := document.DeepMerge(base, document.DeepMerge(p, q))

	assert.Equal(t, left, right)
}

func TestStripUndefined(t *testing.T) {
	in := map[string]any{
		"keepNil":   nil,
		"keepZero":  float64(0),
		"keepFalse": false,
		"keepEmpty": "",
		"drop":      document.Undefined,
		"nested": map[string]any{
			"drop": document.Undefined,
			"keep": "v",
		},
		"list": []any{document.Undefined, float64(1), map[string]any{"drop": document.Undefined}},
	}

	got := document.StripUndefined(in)

	assert.Equal(t, map[string]any{
		"keepNil":   nil,
		"keepZero":  float64(0),
		"keepFalse": false,
		"keepEmpty": "",
		"nested":    map[string]any{"keep": "v"},
		"list":      []any{float64(1), map[string]any{}},
	}, got)

	assert.Equal(t, float64(3), document.StripUndefined(float64(3)))
}

func TestDiff(t *testing.T) {
	before := map[string]any{"a": float64(1), "b": "same", "gone": true}
	after := map[string]any{"a": float64(2), "b": "same", "new": "x"}

	got := document.Diff(before, after)

	assert.Equal(t, map[string]document.Change{
		"a":    {Before: float64(1), After: float64(2)},
		"gone": {Before: true},
		"new":  {After: "x"},
	}, got)
}

func TestValidatePath(t *testing.T) {
	testCases := []struct {
		path    string
		wantErr bool
	}{
		{path: "settings/general"},
		{path: "cms/pages/header/header"},
		{path: "", wantErr: true},
		{path: "settings", wantErr: true},
		{path: "cms/pages/header", wantErr: true},
		{path: "settings//general/x", wantErr: true},
		{path: "/settings", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			err := document.ValidatePath(tc.path)
			if tc.wantErr {
				assert.ErrorIs(t, err, document.ErrInvalidPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Equal(t, "cms/pages/header", document.Collection("cms/pages/header/header"))
}
