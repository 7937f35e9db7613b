package docstore

import "time"

type serverTimestamp struct{}

// ServerTimestamp is a write-only field value replaced by the store's clock.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ResolveTimestamps returns a copy of fields with every ServerTimestamp
// replaced by now.
func ResolveTimestamps(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// MergeFields returns existing overlaid with updates. Neither input is modified.
func MergeFields(existing, updates Fields) Fields {
	out := make(Fields, len(existing)+len(updates))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Fields = MergeFields(d.Fields, nil)
	return &c
}
