// Package visibility tracks whether a field's validation message may be shown.
//
// Validity is computed live on every keystroke; visibility is raised when the
// user leaves a field and lowered when they return to it, so messages never
// flash while typing.
package visibility

import "ddinvest/internal/registration/models"

// Tracker holds one flag per tracked field. The zero value tracks nothing.
type Tracker struct {
	shown map[models.Field]bool
}

// New tracks the given fields, all initially hidden.
func New(fields ...models.Field) *Tracker {
	t := &Tracker{shown: make(map[models.Field]bool, len(fields))}
	for _, f := range fields {
		t.shown[f] = false
	}
	return t
}

// Tracks reports whether field has a visibility flag.
func (t *Tracker) Tracks(field models.Field) bool {
	_, ok := t.shown[field]
	return ok
}

// Focus hides the field's message.
func (t *Tracker) Focus(field models.Field) {
	if t.Tracks(field) {
		t.shown[field] = false
	}
}

// Blur shows the field's message when the field holds a value. Leaving an
// empty field keeps its message hidden.
func (t *Tracker) Blur(field models.Field, value string) {
	if t.Tracks(field) && value != "" {
		t.shown[field] = true
	}
}

// Visible reports whether the field's message may be shown.
func (t *Tracker) Visible(field models.Field) bool {
	return t.shown[field]
}
