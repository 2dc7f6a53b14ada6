package document

import "time"

const (
	// FieldUpdatedAt holds the RFC 3339 time of the last write.
	FieldUpdatedAt = "updatedAt"
	// FieldUpdatedBy holds the actor of the last write.
	FieldUpdatedBy = "updatedBy"
)

// Stamp sets the write metadata on m.
func Stamp(m map[string]any, actor string, at time.Time) {
	m[FieldUpdatedAt] = at.UTC().Format(time.RFC3339Nano)
	m[FieldUpdatedBy] = actor
}

// Without returns a shallow copy of m lacking keys.
func Without(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	for _, k := range keys {
		delete(out, k)
	}

	return out
}
