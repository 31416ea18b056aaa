package models

import "time"

// UserModel represents an account that owns a bookshelf.
type UserModel struct {
	Base
	Email         string     `json:"email"           gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"               gorm:"not null"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`

	Books         []BookModel         `json:"books,omitempty"         gorm:"foreignKey:UserID"`
	Notifications []NotificationModel `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }
