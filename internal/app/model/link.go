package model

import "time"

// Link describes a short link as listed on the dashboard.
type Link struct {
	ID        string     `db:"id" gorm:"primaryKey;size:36"`
	URLKey    string     `db:"url_key" gorm:"uniqueIndex;size:32;not null"`
	URL       string     `db:"url" gorm:"type:text;not null"`
	Clicks    int64      `db:"clicks" gorm:"not null;default:0"`
	Favicon   *string    `db:"favicon" gorm:"type:text"`
	ExpiresAt *time.Time `db:"expires_at" gorm:"index"`
	CreatedAt time.Time  `db:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `db:"updated_at" gorm:"autoUpdateTime"`
}
