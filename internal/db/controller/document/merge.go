package document

import (
	"reflect"
)

type undefined struct{}

// Undefined marks a patch value that must not touch the stored document.
// Form decoders use it for inputs left empty. It never reaches the database.
var Undefined = undefined{} //nolint:gochecknoglobals

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// DeepMerge returns base with patch applied: nested maps merge recursively,
// any other patch value replaces the base value. Undefined patch values are
// skipped. Neither input is modified.
func DeepMerge(base, patch map[string]any) map[string]any {
	out := Clone(base)
	if out == nil {
		out = make(map[string]any, len(patch))
	}

	for k, pv := range patch {
		if IsUndefined(pv) {
			continue
		}

		pm, patchIsMap := pv.(map[string]any)
		bm, baseIsMap := out[k].(map[string]any)

		if patchIsMap && baseIsMap {
			out[k] = DeepMerge(bm, pm)
			continue
		}

		out[k] = cloneValue(StripUndefined(pv))
	}

	return out
}

// ShallowMerge returns base with the top-level keys of patch replaced.
func ShallowMerge(base, patch map[string]any) map[string]any {
	out := Clone(base)
	if out == nil {
		out = make(map[string]any, len(patch))
	}

	for k, pv := range patch {
		if IsUndefined(pv) {
			continue
		}

		out[k] = cloneValue(StripUndefined(pv))
	}

	return out
}

// StripUndefined removes Undefined map values and slice elements at every
// depth. nil, zero and false values stay.
func StripUndefined(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))

		for k, child := range t {
			if IsUndefined(child) {
				continue
			}

			out[k] = StripUndefined(child)
		}

		return out
	case []any:
		out := make([]any, 0, len(t))

		for _, child := range t {
			if IsUndefined(child) {
				continue
			}

			out = append(out, StripUndefined(child))
		}

		return out
	default:
		return v
	}
}

// Clone deep copies a decoded JSON object.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out, _ := cloneValue(m).(map[string]any)

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = cloneValue(child)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneValue(child)
		}

		return out
	default:
		return v
	}
}

// Change is one entry of Diff.
type Change struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Diff lists the top-level keys whose values differ between before and after.
func Diff(before, after map[string]any) map[string]Change {
	out := make(map[string]Change)

	for k, bv := range before {
		av, ok := after[k]
		if !ok {
			out[k] = Change{Before: bv}
			continue
		}

		if !reflect.DeepEqual(bv, av) {
			out[k] = Change{Before: bv, After: av}
		}
	}

	for k, av := range after {
		if _, ok := before[k]; !ok {
			out[k] = Change{After: av}
		}
	}

	return out
}
