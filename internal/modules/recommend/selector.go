// Package recommend picks one tsundoku book per user for the weekly
// recommendation mail, weighted so books that sat unread longer come up
// more often.
package recommend

import (
	"math/rand"
	"time"

	"github.com/tsundoku-app/core/internal/models"
)

// Selector draws a weighted random book from a candidate set.
type Selector struct {
	now func() time.Time

	// randFloat returns a value in [0,1); swapped out in tests.
	randFloat func() float64
}

// NewSelector returns a selector seeded from the clock.
func NewSelector() *Selector {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Selector{
		now:       time.Now,
		randFloat: rng.Float64,
	}
}

// Select picks one book. Weight is the number of days the book has been
// tsundoku, at least 1, so every candidate keeps a non-zero chance while
// long-neglected books dominate. Empty input returns nil; a single
// candidate is returned as-is.
func (s *Selector) Select(books []*models.BookModel) *models.BookModel {
	switch len(books) {
	case 0:
		return nil
	case 1:
		return books[0]
	}

	now := s.now()
	weights := make([]int, len(books))
	total := 0
	for i, book := range books {
		w := s.weight(book, now)
		weights[i] = w
		total += w
	}

	draw := s.randFloat() * float64(total)
	cumulative := 0.0
	for i, book := range books {
		cumulative += float64(weights[i])
		if draw < cumulative {
			return book
		}
	}

	// Unreachable with a well-behaved random source; kept as a safety net.
	return books[int(s.randFloat()*float64(len(books)))%len(books)]
}

func (s *Selector) weight(book *models.BookModel, now time.Time) int {
	if book.TsundokuDate == nil {
		return 1
	}
	days := int(now.Sub(*book.TsundokuDate).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
