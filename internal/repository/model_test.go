package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func createTestCollection() Collection {
	created := time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)
	return Collection{
		{ID: "a", Title: "first", Content: "one", CreatedAt: created, UpdatedAt: created},
		{ID: "b", Title: "second", Content: "two", CreatedAt: created, UpdatedAt: created.Add(time.Minute)},
		{ID: "c", Title: "third", Content: "three", CreatedAt: created, UpdatedAt: created},
	}
}

func TestNote_Normalize(t *testing.T) {
	n := Note{Title: "  hello \n", Content: "\tworld  "}
	n.Normalize()

	assert.Equal(t, "hello", n.Title)
	assert.Equal(t, "world", n.Content)
}

func TestNote_Normalize_WhitespaceOnly(t *testing.T) {
	n := Note{Title: "   ", Content: "\n\t"}
	n.Normalize()

	assert.Empty(t, n.Title)
	assert.Empty(t, n.Content)
}

func TestCollection_IndexOf(t *testing.T) {
	c := createTestCollection()

	assert.Equal(t, 0, c.IndexOf("a"))
	assert.Equal(t, 2, c.IndexOf("c"))
	assert.Equal(t, -1, c.IndexOf("missing"))
	assert.Equal(t, -1, Collection{}.IndexOf("a"))
}

func TestCollection_Clone(t *testing.T) {
	c := createTestCollection()
	cloned := c.Clone()
	cloned[0].Title = "changed"

	assert.Equal(t, "first", c[0].Title, "clone must not share the backing array")

	var empty Collection
	assert.NotNil(t, empty.Clone())
}

func TestCollection_Without(t *testing.T) {
	c := createTestCollection()

	rest := c.Without(1)

	assert.Len(t, rest, 2)
	assert.Equal(t, "a", rest[0].ID)
	assert.Equal(t, "c", rest[1].ID)
	assert.Len(t, c, 3, "source collection must be untouched")
	assert.Equal(t, "b", c[1].ID)
}

func TestCollection_Without_Ends(t *testing.T) {
	c := createTestCollection()

	assert.Equal(t, []string{"b", "c"}, ids(c.Without(0)))
	assert.Equal(t, []string{"a", "b"}, ids(c.Without(2)))
	assert.Empty(t, Collection{{ID: "x"}}.Without(0))
}

func TestAreCollectionsEqual(t *testing.T) {
	a := createTestCollection()
	b := createTestCollection()
	assert.True(t, AreCollectionsEqual(a, b))

	// same instant, different location
	b[0].CreatedAt = b[0].CreatedAt.In(time.FixedZone("X", 3600))
	assert.True(t, AreCollectionsEqual(a, b))

	b[1].Content = "other"
	assert.False(t, AreCollectionsEqual(a, b))

	assert.False(t, AreCollectionsEqual(a, a[:2]))
	assert.True(t, AreCollectionsEqual(nil, Collection{}))
}

func ids(c Collection) []string {
	out := make([]string, 0, len(c))
	for _, n := range c {
		out = append(out, n.ID)
	}
	return out
}
