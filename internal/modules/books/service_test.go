package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsundoku-app/core/internal/models"
	"github.com/tsundoku-app/core/internal/modules/googlebooks"
)

type fakeMetadata struct {
	byISBN     []googlebooks.BookRecord
	byTitle    []googlebooks.BookRecord
	isbnCalls  int
	titleCalls int
	lastTitle  string
	lastAuthor string
}

func (f *fakeMetadata) SearchByISBN(_ context.Context, isbn string, _ int) []googlebooks.BookRecord {
	f.isbnCalls++
	return f.byISBN
}

func (f *fakeMetadata) SearchByTitle(_ context.Context, title, author string, _ int) []googlebooks.BookRecord {
	f.titleCalls++
	f.lastTitle = title
	f.lastAuthor = author
	return f.byTitle
}

func (f *fakeMetadata) GetByID(context.Context, string) *googlebooks.BookRecord {
	return nil
}

func TestSearchPrefersISBN(t *testing.T) {
	meta := &fakeMetadata{
		byISBN:  []googlebooks.BookRecord{{Title: "By ISBN"}},
		byTitle: []googlebooks.BookRecord{{Title: "By Title"}},
	}
	svc := &Service{metadata: meta}

	results := svc.Search(context.Background(), "9784873117523", "", 0)
	assert.Equal(t, "By ISBN", results[0].Title)
	assert.Equal(t, 1, meta.isbnCalls)
	assert.Equal(t, 0, meta.titleCalls, "title search skipped when ISBN matched")
}

func TestSearchFallsBackToTitle(t *testing.T) {
	meta := &fakeMetadata{
		byTitle: []googlebooks.BookRecord{{Title: "By Title"}},
	}
	svc := &Service{metadata: meta}

	results := svc.Search(context.Background(), "Learning Go", "Jon Bodner", 0)
	assert.Equal(t, "By Title", results[0].Title)
	assert.Equal(t, 1, meta.isbnCalls)
	assert.Equal(t, 1, meta.titleCalls)
	assert.Equal(t, "Learning Go", meta.lastTitle)
	assert.Equal(t, "Jon Bodner", meta.lastAuthor)
}

func TestSearchNothingFound(t *testing.T) {
	meta := &fakeMetadata{}
	svc := &Service{metadata: meta}

	assert.Empty(t, svc.Search(context.Background(), "nothing", "", 0))
	assert.Equal(t, 1, meta.isbnCalls)
	assert.Equal(t, 1, meta.titleCalls)
}

func TestStatusDateColumn(t *testing.T) {
	assert.Equal(t, "wish_date", statusDateColumn(models.StatusWish))
	assert.Equal(t, "tsundoku_date", statusDateColumn(models.StatusTsundoku))
	assert.Equal(t, "completed_date", statusDateColumn(models.StatusCompleted))
}

func TestOrKeep(t *testing.T) {
	assert.Equal(t, "fresh", orKeep("fresh", "old"))
	assert.Equal(t, "old", orKeep("", "old"))
}

func TestStrPtr(t *testing.T) {
	assert.Nil(t, strPtr(""))
	p := strPtr("x")
	assert.Equal(t, "x", *p)
}
