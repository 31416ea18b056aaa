// Package books manages a user's bookshelf: CRUD, reading-status
// transitions, and enrichment from the Google Books API.
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tsundoku-app/core/internal/models"
	"github.com/tsundoku-app/core/internal/modules/googlebooks"
	"github.com/tsundoku-app/core/internal/pkg/pagination"
	"github.com/tsundoku-app/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidStatus = errors.New("invalid reading status")
	ErrNoGoogleID    = errors.New("book has no google books id")
)

// Metadata is the slice of the Google Books client this service needs.
type Metadata interface {
	SearchByISBN(ctx context.Context, isbn string, maxResults int) []googlebooks.BookRecord
	SearchByTitle(ctx context.Context, title, author string, maxResults int) []googlebooks.BookRecord
	GetByID(ctx context.Context, googleBooksID string) *googlebooks.BookRecord
}

// ReasonPredictor guesses a purchase reason when the user did not give one.
type ReasonPredictor interface {
	Predict(ctx context.Context, userBookCount int, title, author, description string, pastReasons []string) string
}

type Service struct {
	db        *gorm.DB
	metadata  Metadata
	predictor ReasonPredictor
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(db *gorm.DB, metadata Metadata, predictor ReasonPredictor, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		metadata:  metadata,
		predictor: predictor,
		logger:    logger.Named("Books"),
		now:       time.Now,
	}
}

// List returns the user's books, newest first, optionally filtered by
// reading status.
func (s *Service) List(userID string, q pagination.Query, status *models.ReadingStatus) ([]models.BookModel, response.Pagination, error) {
	tx := s.db.Model(&models.BookModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if status != nil {
		tx = tx.Where("reading_status = ?", *status)
	}
	var items []models.BookModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(userID, id string) (*models.BookModel, error) {
	var book models.BookModel
	err := s.db.First(&book, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create adds a book to the shelf. When no purchase reason is given the
// predictor fills one in from the book metadata and the user's history.
func (s *Service) Create(ctx context.Context, userID string, dto *CreateBookDTO) (*models.BookModel, error) {
	status := models.StatusTsundoku
	if dto.ReadingStatus != nil {
		parsed, ok := models.ParseReadingStatus(*dto.ReadingStatus)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	now := s.now()
	book := models.BookModel{
		UserID:         userID,
		Title:          dto.Title,
		Author:         dto.Author,
		Publisher:      dto.Publisher,
		PublishedDate:  dto.PublishedDate,
		Description:    dto.Description,
		ISBN10:         strPtr(dto.ISBN10),
		ISBN13:         strPtr(dto.ISBN13),
		GoogleBooksID:  strPtr(dto.GoogleBooksID),
		ImageURL:       dto.ImageURL,
		PurchaseReason: dto.PurchaseReason,
		PurchaseDate:   dto.PurchaseDate,
		ReadingStatus:  status,
	}
	book.TouchStatusDate(status, now)
	if book.PurchaseDate == nil {
		book.PurchaseDate = &now
	}
	if book.PurchaseReason == "" {
		book.PurchaseReason = s.predictReason(ctx, userID, book.Title, book.Author, book.Description)
	}

	if err := s.db.Create(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *Service) Update(userID, id string, dto *UpdateBookDTO) (*models.BookModel, error) {
	book, err := s.GetByID(userID, id)
	if err != nil || book == nil {
		return book, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Author != nil {
		updates["author"] = *dto.Author
	}
	if dto.Publisher != nil {
		updates["publisher"] = *dto.Publisher
	}
	if dto.PublishedDate != nil {
		updates["published_date"] = *dto.PublishedDate
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.ISBN10 != nil {
		updates["isbn_10"] = strPtr(*dto.ISBN10)
	}
	if dto.ISBN13 != nil {
		updates["isbn_13"] = strPtr(*dto.ISBN13)
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.PurchaseReason != nil {
		updates["purchase_reason"] = *dto.PurchaseReason
	}
	if dto.PurchaseDate != nil {
		updates["purchase_date"] = *dto.PurchaseDate
	}

	if dto.ReadingStatus != nil {
		status, ok := models.ParseReadingStatus(*dto.ReadingStatus)
		if !ok {
			return nil, ErrInvalidStatus
		}
		if status != book.ReadingStatus {
			now := s.now()
			updates["reading_status"] = status
			updates[statusDateColumn(status)] = now
			book.TouchStatusDate(status, now)
		}
	}

	if err := s.db.Model(book).Updates(updates).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (s *Service) Delete(userID, id string) (bool, error) {
	res := s.db.Delete(&models.BookModel{}, "id = ? AND user_id = ?", id, userID)
	return res.RowsAffected > 0, res.Error
}

// Search queries Google Books, trying the input as an ISBN first and
// falling back to a title search when that yields nothing. Never errors;
// lookup failures surface as an empty list.
func (s *Service) Search(ctx context.Context, query, author string, maxResults int) []googlebooks.BookRecord {
	results := s.metadata.SearchByISBN(ctx, query, maxResults)
	if len(results) == 0 {
		results = s.metadata.SearchByTitle(ctx, query, author, maxResults)
	}
	return results
}

// CreateFromGoogleBooks adds a search result to the shelf. If the user
// already has the book (matched by google_books_id, then isbn_13, then
// isbn_10) the existing record is returned instead of a duplicate.
func (s *Service) CreateFromGoogleBooks(ctx context.Context, userID string, dto *CreateFromGoogleBooksDTO) (*models.BookModel, bool, error) {
	existing, err := s.findByIdentifiers(userID, dto.GoogleBooksID, dto.ISBN13, dto.ISBN10)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := s.now()
	book := models.BookModel{
		UserID:         userID,
		Title:          dto.Title,
		Author:         dto.Author,
		Publisher:      dto.Publisher,
		PublishedDate:  dto.PublishedDate,
		Description:    dto.Description,
		ISBN10:         strPtr(dto.ISBN10),
		ISBN13:         strPtr(dto.ISBN13),
		GoogleBooksID:  strPtr(dto.GoogleBooksID),
		ImageURL:       dto.ImageURL,
		PurchaseReason: dto.PurchaseReason,
		PurchaseDate:   dto.PurchaseDate,
		ReadingStatus:  models.StatusTsundoku,
	}
	book.TouchStatusDate(models.StatusTsundoku, now)
	if book.PurchaseDate == nil {
		book.PurchaseDate = &now
	}
	if book.PurchaseReason == "" {
		book.PurchaseReason = s.predictReason(ctx, userID, book.Title, book.Author, book.Description)
	}

	if err := s.db.Create(&book).Error; err != nil {
		return nil, false, err
	}
	return &book, true, nil
}

// RefreshFromGoogleBooks re-fetches metadata for a book that was created
// from a Google Books record. Fields the API no longer returns keep their
// current value.
func (s *Service) RefreshFromGoogleBooks(ctx context.Context, userID, id string) (*models.BookModel, error) {
	book, err := s.GetByID(userID, id)
	if err != nil || book == nil {
		return book, err
	}
	if book.GoogleBooksID == nil || *book.GoogleBooksID == "" {
		return nil, ErrNoGoogleID
	}

	record := s.metadata.GetByID(ctx, *book.GoogleBooksID)
	if record == nil {
		return nil, fmt.Errorf("google books volume %s not found", *book.GoogleBooksID)
	}

	updates := map[string]interface{}{
		"title":          orKeep(record.Title, book.Title),
		"author":         orKeep(record.Author, book.Author),
		"publisher":      orKeep(record.Publisher, book.Publisher),
		"published_date": orKeep(record.PublishedDate, book.PublishedDate),
		"description":    orKeep(record.Description, book.Description),
		"image_url":      orKeep(record.ImageURL, book.ImageURL),
	}
	if record.ISBN10 != "" {
		updates["isbn_10"] = record.ISBN10
	}
	if record.ISBN13 != "" {
		updates["isbn_13"] = record.ISBN13
	}

	if err := s.db.Model(book).Updates(updates).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// predictReason never fails: the predictor itself falls back to a fixed
// phrase when generation is unavailable.
func (s *Service) predictReason(ctx context.Context, userID, title, author, description string) string {
	var count int64
	if err := s.db.Model(&models.BookModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		s.logger.Error("count user books", zap.Error(err))
	}

	var pastReasons []string
	err := s.db.Model(&models.BookModel{}).
		Where("user_id = ? AND purchase_reason <> ''", userID).
		Order("created_at DESC").
		Limit(5).
		Pluck("purchase_reason", &pastReasons).Error
	if err != nil {
		s.logger.Error("load past purchase reasons", zap.Error(err))
	}

	return s.predictor.Predict(ctx, int(count), title, author, description, pastReasons)
}

func (s *Service) findByIdentifiers(userID, googleBooksID, isbn13, isbn10 string) (*models.BookModel, error) {
	lookup := func(column, value string) (*models.BookModel, error) {
		if value == "" {
			return nil, nil
		}
		var book models.BookModel
		err := s.db.First(&book, "user_id = ? AND "+column+" = ?", userID, value).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &book, nil
	}

	for _, probe := range []struct{ column, value string }{
		{"google_books_id", googleBooksID},
		{"isbn_13", isbn13},
		{"isbn_10", isbn10},
	} {
		book, err := lookup(probe.column, probe.value)
		if err != nil || book != nil {
			return book, err
		}
	}
	return nil, nil
}

func statusDateColumn(status models.ReadingStatus) string {
	switch status {
	case models.StatusWish:
		return "wish_date"
	case models.StatusCompleted:
		return "completed_date"
	default:
		return "tsundoku_date"
	}
}

func orKeep(fresh, current string) string {
	if fresh != "" {
		return fresh
	}
	return current
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
