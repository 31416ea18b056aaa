package recommend

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsundoku-app/core/internal/models"
)

func newTestSelector(seed int64) *Selector {
	rng := rand.New(rand.NewSource(seed))
	return &Selector{
		now:       func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
		randFloat: rng.Float64,
	}
}

func tsundokuBook(id string, daysAgo int) *models.BookModel {
	book := &models.BookModel{Title: id, ReadingStatus: models.StatusTsundoku}
	book.ID = id
	if daysAgo >= 0 {
		date := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
		book.TsundokuDate = &date
	}
	return book
}

func TestSelectEmpty(t *testing.T) {
	s := newTestSelector(1)
	assert.Nil(t, s.Select(nil))
	assert.Nil(t, s.Select([]*models.BookModel{}))
}

func TestSelectSingle(t *testing.T) {
	s := newTestSelector(1)
	only := tsundokuBook("only", 10)
	assert.Same(t, only, s.Select([]*models.BookModel{only}))
}

func TestWeightFloorsAtOne(t *testing.T) {
	s := newTestSelector(1)
	now := s.now()

	assert.Equal(t, 1, s.weight(tsundokuBook("no-date", -1), now))
	assert.Equal(t, 1, s.weight(tsundokuBook("today", 0), now))
	assert.Equal(t, 1, s.weight(tsundokuBook("yesterday-ish", 1), now))
	assert.Equal(t, 30, s.weight(tsundokuBook("month", 30), now))
}

func TestSelectConvergesToDominantWeight(t *testing.T) {
	// One book at weight 1000 against nine at weight 1; its share of draws
	// should approach 1000/1009.
	books := []*models.BookModel{tsundokuBook("heavy", 1000)}
	for i := 0; i < 9; i++ {
		books = append(books, tsundokuBook(fmt.Sprintf("light-%d", i), 1))
	}

	s := newTestSelector(42)
	const draws = 2000
	heavy := 0
	for i := 0; i < draws; i++ {
		picked := s.Select(books)
		require.NotNil(t, picked)
		if picked.ID == "heavy" {
			heavy++
		}
	}

	share := float64(heavy) / draws
	assert.InDelta(t, 1000.0/1009.0, share, 0.02)
}

func TestSelectEveryCandidateReachable(t *testing.T) {
	books := []*models.BookModel{
		tsundokuBook("a", 5),
		tsundokuBook("b", 5),
		tsundokuBook("c", 5),
	}

	s := newTestSelector(7)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[s.Select(books).ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestSelectUniformFallback(t *testing.T) {
	books := []*models.BookModel{
		tsundokuBook("a", 5),
		tsundokuBook("b", 5),
	}

	// A pathological source that returns 1.0 pushes the draw past every
	// cumulative bucket, forcing the uniform fallback branch.
	calls := 0
	s := &Selector{
		now: time.Now,
		randFloat: func() float64 {
			calls++
			if calls == 1 {
				return 1.0
			}
			return 0.6
		},
	}

	picked := s.Select(books)
	require.NotNil(t, picked)
	assert.Equal(t, "b", picked.ID)
}
