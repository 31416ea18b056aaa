package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tsundoku-app/core/internal/config"
	"github.com/tsundoku-app/core/internal/models"
	"github.com/tsundoku-app/core/internal/pkg/mail"
	"github.com/tsundoku-app/core/internal/pkg/pagination"
	"github.com/tsundoku-app/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mailer is the slice of the mail sender the weekly cycle needs.
type Mailer interface {
	SendWeeklyRecommendation(to string, data mail.WeeklyRecommendationData) error
}

// Service runs the recommendation cycle: find eligible users, pick a book
// per user, send the mail, and record the notification.
type Service struct {
	db       *gorm.DB
	selector *Selector
	mailer   Mailer
	cfg      config.RecommendationConfig
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, mailer Mailer, cfg config.RecommendationConfig, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		selector: NewSelector(),
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger.Named("Recommend"),
		now:      time.Now,
	}
}

// Candidates loads a user's tsundoku books, excluding any book that was
// the subject of a notification within the exclusion window. Ordered by
// creation time so the weighted walk is deterministic for a given draw.
func (s *Service) Candidates(userID string) ([]*models.BookModel, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.ExcludeRecentDays)

	recentlyNotified := s.db.Model(&models.NotificationModel{}).
		Select("book_id").
		Where("user_id = ? AND sent_at >= ? AND book_id IS NOT NULL", userID, cutoff)

	var books []*models.BookModel
	err := s.db.
		Where("user_id = ? AND reading_status = ?", userID, models.StatusTsundoku).
		Where("id NOT IN (?)", recentlyNotified).
		Order("created_at ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	return books, nil
}

// SelectForUser picks this week's book for one user, or nil when the user
// has no eligible candidates.
func (s *Service) SelectForUser(userID string) (*models.BookModel, error) {
	candidates, err := s.Candidates(userID)
	if err != nil {
		return nil, err
	}
	return s.selector.Select(candidates), nil
}

// eligibleUsers returns users who own at least one tsundoku book and were
// not notified within the cooldown window.
func (s *Service) eligibleUsers() ([]models.UserModel, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.NotifyCooldownDays)

	var users []models.UserModel
	err := s.db.
		Where("EXISTS (SELECT 1 FROM books WHERE books.user_id = users.id AND books.reading_status = ? AND books.deleted_at IS NULL)",
			models.StatusTsundoku).
		Where("NOT EXISTS (SELECT 1 FROM notifications WHERE notifications.user_id = users.id AND notifications.sent_at >= ? AND notifications.deleted_at IS NULL)",
			cutoff).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("load eligible users: %w", err)
	}
	return users, nil
}

// RunWeekly executes one recommendation cycle. Per-user failures are
// logged and skipped so one bad mailbox never blocks the rest.
func (s *Service) RunWeekly(ctx context.Context) error {
	users, err := s.eligibleUsers()
	if err != nil {
		return err
	}
	s.logger.Info("weekly recommendation cycle", zap.Int("users", len(users)))

	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.recommendToUser(&user); err != nil {
			s.logger.Error("recommendation failed",
				zap.String("user", user.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) recommendToUser(user *models.UserModel) error {
	book, err := s.SelectForUser(user.ID)
	if err != nil {
		return err
	}
	if book == nil {
		s.logger.Debug("no candidates", zap.String("user", user.ID))
		return nil
	}

	now := s.now()

	var tsundokuCount int64
	if err := s.db.Model(&models.BookModel{}).
		Where("user_id = ? AND reading_status = ?", user.ID, models.StatusTsundoku).
		Count(&tsundokuCount).Error; err != nil {
		return fmt.Errorf("count tsundoku: %w", err)
	}

	days := 0
	if book.TsundokuDate != nil {
		days = int(now.Sub(*book.TsundokuDate).Hours() / 24)
	}

	if err := s.mailer.SendWeeklyRecommendation(user.Email, mail.WeeklyRecommendationData{
		UserName:       user.Name,
		Title:          book.Title,
		Author:         book.Author,
		ImageURL:       book.ImageURL,
		PurchaseReason: book.PurchaseReason,
		TsundokuDays:   days,
		TsundokuCount:  tsundokuCount,
	}); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	notification := models.NotificationModel{
		UserID: user.ID,
		BookID: &book.ID,
		Type:   models.NotificationRecommendation,
		SentAt: now,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	s.logger.Info("recommendation sent",
		zap.String("user", user.ID),
		zap.String("book", book.ID),
		zap.String("title", book.Title),
	)
	return nil
}

// ListNotifications returns the user's notification history, newest first.
func (s *Service) ListNotifications(userID string, q pagination.Query) ([]models.NotificationModel, response.Pagination, error) {
	query := s.db.Model(&models.NotificationModel{}).
		Where("user_id = ?", userID).
		Preload("Book").
		Order("sent_at DESC")

	var items []models.NotificationModel
	page, err := pagination.Paginate(query, q, &items)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return items, page, nil
}
