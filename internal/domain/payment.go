package domain

import (
	"context"
	"time"
)

// 充值单状态
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// 审核结论
const (
	VerdictApprove = "approve"
	VerdictReject  = "reject"
)

type Payment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Method    string    `gorm:"size:50;not null;default:manual" json:"method"` // manual / razorpay / cashfree
	Status    string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

// PaymentRow 仪表盘待审充值：带归属用户名
type PaymentRow struct {
	Payment
	Username string `gorm:"column:username" json:"username"`
}

type PaymentRepository interface {
	// Review 审核 pending 充值单；approve 在同一事务里把金额入账
	Review(ctx context.Context, paymentID int64, verdict string) error
}
