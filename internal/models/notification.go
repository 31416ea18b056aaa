package models

import "time"

// Notification types.
const (
	NotificationRecommendation = "recommendation"
	NotificationReminder       = "reminder"
	NotificationWeeklyDigest   = "weekly_digest"
	NotificationMonthlySummary = "monthly_summary"
)

// NotificationModel is one delivered notification. The weekly recommendation
// job writes a row per sent mail; the selector reads them back to keep a
// recently recommended book out of the next draws.
type NotificationModel struct {
	Base
	UserID string     `json:"-"       gorm:"index;not null"`
	BookID *string    `json:"book_id" gorm:"index"`
	Type   string     `json:"type"    gorm:"size:50;not null;index"`
	SentAt time.Time  `json:"sent_at" gorm:"not null;index"`
	Book   *BookModel `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

func (NotificationModel) TableName() string { return "notifications" }
