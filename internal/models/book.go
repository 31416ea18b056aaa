package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ReadingStatus is the shelf state of a book.
type ReadingStatus int

const (
	StatusWish      ReadingStatus = iota // want to read, not owned yet
	StatusTsundoku                       // owned but unread
	StatusCompleted                      // finished
)

// ParseReadingStatus maps the API string form to a ReadingStatus.
func ParseReadingStatus(s string) (ReadingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wish":
		return StatusWish, true
	case "tsundoku":
		return StatusTsundoku, true
	case "completed":
		return StatusCompleted, true
	}
	return 0, false
}

func (s ReadingStatus) String() string {
	switch s {
	case StatusWish:
		return "wish"
	case StatusTsundoku:
		return "tsundoku"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// BookModel represents a book on a user's shelf, optionally enriched
// with Google Books metadata.
type BookModel struct {
	Base
	UserID string `json:"-" gorm:"index;not null"`

	Title         string `json:"title"          gorm:"size:500;not null;index"`
	Author        string `json:"author"         gorm:"size:500;index"` // comma-joined list
	Publisher     string `json:"publisher"      gorm:"size:255"`
	PublishedDate string `json:"published_date" gorm:"size:50"` // free text from the API
	Description   string `json:"description"    gorm:"type:text"`
	ISBN10        *string `json:"isbn_10"       gorm:"size:10;uniqueIndex"`
	ISBN13        *string `json:"isbn_13"       gorm:"size:13;uniqueIndex"`
	ImageURL      string `json:"image_url"      gorm:"size:1000"`
	GoogleBooksID *string `json:"google_books_id" gorm:"size:100;uniqueIndex"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"       gorm:"size:10"`
	Categories    string `json:"categories"     gorm:"size:500"` // comma-joined list

	PurchaseReason string     `json:"purchase_reason" gorm:"type:text"`
	PurchaseDate   *time.Time `json:"purchase_date"`

	ReadingStatus ReadingStatus `json:"reading_status" gorm:"not null;default:1;index"`
	WishDate      *time.Time    `json:"wish_date"`
	TsundokuDate  *time.Time    `json:"tsundoku_date"`
	CompletedDate *time.Time    `json:"completed_date"`
}

func (BookModel) TableName() string { return "books" }

// BeforeSave keeps the unique-indexed identifier columns NULL instead of ""
// so the constraints only apply to real values.
func (b *BookModel) BeforeSave(tx *gorm.DB) error {
	b.ISBN10 = nilIfBlank(b.ISBN10)
	b.ISBN13 = nilIfBlank(b.ISBN13)
	b.GoogleBooksID = nilIfBlank(b.GoogleBooksID)
	return nil
}

// PrimaryISBN returns the ISBN-13 when present, else the ISBN-10.
func (b *BookModel) PrimaryISBN() string {
	if b.ISBN13 != nil && *b.ISBN13 != "" {
		return *b.ISBN13
	}
	if b.ISBN10 != nil && *b.ISBN10 != "" {
		return *b.ISBN10
	}
	return ""
}

// AuthorList splits the comma-joined author column.
func (b *BookModel) AuthorList() []string {
	if strings.TrimSpace(b.Author) == "" {
		return nil
	}
	parts := strings.Split(b.Author, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// TouchStatusDate records the transition timestamp for the given status.
func (b *BookModel) TouchStatusDate(status ReadingStatus, now time.Time) {
	switch status {
	case StatusWish:
		b.WishDate = &now
	case StatusTsundoku:
		b.TsundokuDate = &now
	case StatusCompleted:
		b.CompletedDate = &now
	}
}

func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
