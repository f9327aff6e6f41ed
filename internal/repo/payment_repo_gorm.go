package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shortlink-admin/internal/domain"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Review 审核充值单。只有 pending 可审；approve 的入账和状态翻转在同一事务里。
func (r *PaymentRepo) Review(ctx context.Context, paymentID int64, verdict string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pay domain.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&pay, "id = ?", paymentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if pay.Status != domain.PaymentStatusPending {
			return domain.ErrInvalidArgument
		}

		switch verdict {
		case domain.VerdictApprove:
			err := tx.Model(&domain.User{}).Where("id = ?", pay.UserID).
				Update("balance", gorm.Expr("balance + ?", pay.Amount)).Error
			if err != nil {
				return err
			}
			return tx.Model(&domain.Payment{}).Where("id = ?", pay.ID).
				Update("status", domain.PaymentStatusApproved).Error
		case domain.VerdictReject:
			return tx.Model(&domain.Payment{}).Where("id = ?", pay.ID).
				Update("status", domain.PaymentStatusRejected).Error
		default:
			return domain.ErrInvalidArgument
		}
	})
}
