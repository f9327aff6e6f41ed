package domain

import (
	"context"
	"time"
)

// 用户状态（封闭枚举，其他值一律拒绝）
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
	UserStatusBanned  = "banned"
)

func ValidUserStatus(s string) bool {
	switch s {
	case UserStatusActive, UserStatusBlocked, UserStatusBanned:
		return true
	}
	return false
}

// 余额操作
const (
	BalanceOpAdd    = "add"
	BalanceOpDeduct = "deduct"
)

type User struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegramId"`
	Username   string    `gorm:"size:100;not null" json:"username"`
	Balance    float64   `gorm:"not null;default:0" json:"balance"` // 永不为负，deduct 在 0 截断
	Status     string    `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// UserRow 列表页行：用户 + 关联计数（相关子查询算出）
type UserRow struct {
	User
	TotalLinks    int64 `gorm:"column:total_links" json:"totalLinks"`       // 名下短链数
	TotalPayments int64 `gorm:"column:total_payments" json:"totalPayments"` // 已通过的充值笔数
}

// UserFilter 条件之间 AND，零值字段不参与过滤
type UserFilter struct {
	Search string // username / telegram_id 模糊匹配（%term%）
	Status string
}

// Page 页码从 1 起；Size 固定由配置给出
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Size
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, f UserFilter, p Page) ([]UserRow, int64, error)
	AdjustBalance(ctx context.Context, id int64, amount float64, op string) (float64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}
