package domain

import "context"

// Overview 仪表盘总览。各计数独立查询，不保证同一时间点快照。
type Overview struct {
	TotalUsers      int64   `json:"total_users"`
	TotalShortlinks int64   `json:"total_shortlinks"`
	TotalClicks     int64   `json:"total_clicks"`
	PendingPayments int64   `json:"pending_payments"`
	TotalRevenue    float64 `json:"total_revenue"` // = total_shortlinks * 单价，不是充值合计

	// users 页顶部卡片
	ActiveUsers    int64   `json:"active_users"`
	BlockedUsers   int64   `json:"blocked_users"`
	TotalBalance   float64 `json:"total_balance"`
	ApprovedAmount float64 `json:"approved_amount"` // 已通过充值合计，仅作参考展示
}

// Recent 仪表盘"最近动态"
type Recent struct {
	Users           []User         `json:"users"`
	Shortlinks      []ShortlinkRow `json:"shortlinks"`
	PendingPayments []PaymentRow   `json:"pending_payments"`
}

type StatsRepository interface {
	Counters(ctx context.Context) (*Overview, error) // TotalRevenue 留给 service 填
	Recent(ctx context.Context, n int) (*Recent, error)
}
