package domain

import "time"

const (
	LinkStatusActive  = "active"
	LinkStatusExpired = "expired"
	LinkStatusDeleted = "deleted"
)

type Shortlink struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index;not null" json:"userId"`
	OriginalURL string    `gorm:"type:text;not null" json:"originalUrl"`
	ShortCode   string    `gorm:"uniqueIndex;size:20;not null" json:"shortCode"`
	Clicks      int64     `gorm:"not null;default:0" json:"clicks"`
	Status      string    `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Shortlink) TableName() string { return "shortlinks" }

// ShortlinkRow 仪表盘最近短链：带归属用户名
type ShortlinkRow struct {
	Shortlink
	Username string `gorm:"column:username" json:"username"`
}
