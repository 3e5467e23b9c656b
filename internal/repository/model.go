package repository

import (
	"encoding/json"
	"strings"
	"time"
)

// TimestampLayout is RFC 3339 in UTC with exactly three fractional digits,
// so encoded timestamps of equal precision sort as strings.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Note is a single persisted record.
type Note struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"notblank"`
	Content   string    `json:"content" validate:"notblank"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required,gtefield=CreatedAt"`
}

type noteJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MarshalJSON writes timestamps with TimestampLayout. Decoding keeps the
// default time.Time parser, which accepts any RFC 3339 fraction width.
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt: n.UpdatedAt.UTC().Format(TimestampLayout),
	})
}

// Collection is the full ordered set of notes, the unit of load and save.
type Collection []Note

// Normalize trims surrounding whitespace from the editable fields.
func (n *Note) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
}

// IndexOf returns the position of the first note with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
// Never returns nil so an empty collection encodes as [].
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Without returns a copy of c with the element at i removed, order preserved.
func (c Collection) Without(i int) Collection {
	out := make(Collection, 0, len(c))
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

// AreCollectionsEqual compares two collections element by element.
// Timestamps are compared with time.Time.Equal so a decoded copy matches its source.
func AreCollectionsEqual(a, b Collection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].Content != b[i].Content {
			return false
		}
		if !a[i].CreatedAt.Equal(b[i].CreatedAt) || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}
