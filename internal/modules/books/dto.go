package books

import "time"

type CreateBookDTO struct {
	Title          string     `json:"title"           binding:"required,max=500"`
	Author         string     `json:"author"          binding:"max=500"`
	Publisher      string     `json:"publisher"       binding:"max=255"`
	PublishedDate  string     `json:"published_date"  binding:"max=50"`
	Description    string     `json:"description"     binding:"max=5000"`
	ISBN10         string     `json:"isbn_10"         binding:"max=10"`
	ISBN13         string     `json:"isbn_13"         binding:"max=13"`
	ImageURL       string     `json:"image_url"       binding:"max=1000"`
	GoogleBooksID  string     `json:"google_books_id" binding:"max=100"`
	PurchaseReason string     `json:"purchase_reason" binding:"max=1000"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	ReadingStatus  *string    `json:"reading_status"`
}

type UpdateBookDTO struct {
	Title          *string    `json:"title"           binding:"omitempty,max=500"`
	Author         *string    `json:"author"          binding:"omitempty,max=500"`
	Publisher      *string    `json:"publisher"       binding:"omitempty,max=255"`
	PublishedDate  *string    `json:"published_date"  binding:"omitempty,max=50"`
	Description    *string    `json:"description"     binding:"omitempty,max=5000"`
	ISBN10         *string    `json:"isbn_10"         binding:"omitempty,max=10"`
	ISBN13         *string    `json:"isbn_13"         binding:"omitempty,max=13"`
	ImageURL       *string    `json:"image_url"       binding:"omitempty,max=1000"`
	PurchaseReason *string    `json:"purchase_reason" binding:"omitempty,max=1000"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	ReadingStatus  *string    `json:"reading_status"`
}

// CreateFromGoogleBooksDTO carries a search result the user picked. The
// fields mirror what the search endpoints return.
type CreateFromGoogleBooksDTO struct {
	GoogleBooksID  string     `json:"google_books_id" binding:"max=100"`
	Title          string     `json:"title"           binding:"required,max=500"`
	Author         string     `json:"author"          binding:"max=500"`
	Publisher      string     `json:"publisher"       binding:"max=255"`
	PublishedDate  string     `json:"published_date"  binding:"max=50"`
	Description    string     `json:"description"     binding:"max=5000"`
	ISBN10         string     `json:"isbn_10"         binding:"max=10"`
	ISBN13         string     `json:"isbn_13"         binding:"max=13"`
	ImageURL       string     `json:"image_url"       binding:"max=1000"`
	PurchaseReason string     `json:"purchase_reason" binding:"max=1000"`
	PurchaseDate   *time.Time `json:"purchase_date"`
}
