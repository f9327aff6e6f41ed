package repo

import (
	"context"

	"gorm.io/gorm"

	"shortlink-admin/internal/domain"
)

type StatsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) *StatsRepo { return &StatsRepo{db: db} }

// Counters 各计数独立查询，不做跨表快照；空表的 SUM 记 0。
// TotalRevenue 不在这里算（口径 = 短链数 × 单价，单价归 service 持有）。
func (r *StatsRepo) Counters(ctx context.Context) (*domain.Overview, error) {
	db := r.db.WithContext(ctx)
	var o domain.Overview

	if err := db.Model(&domain.User{}).Count(&o.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Shortlink{}).Count(&o.TotalShortlinks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Shortlink{}).
		Select("COALESCE(SUM(clicks), 0)").Scan(&o.TotalClicks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Payment{}).
		Where("status = ?", domain.PaymentStatusPending).Count(&o.PendingPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.User{}).
		Where("status = ?", domain.UserStatusActive).Count(&o.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.User{}).
		Where("status = ?", domain.UserStatusBlocked).Count(&o.BlockedUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.User{}).
		Select("COALESCE(SUM(balance), 0)").Scan(&o.TotalBalance).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Payment{}).
		Where("status = ?", domain.PaymentStatusApproved).
		Select("COALESCE(SUM(amount), 0)").Scan(&o.ApprovedAmount).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// Recent 仪表盘"最近动态"三个榜单
func (r *StatsRepo) Recent(ctx context.Context, n int) (*domain.Recent, error) {
	db := r.db.WithContext(ctx)
	out := &domain.Recent{
		Users:           make([]domain.User, 0, n),
		Shortlinks:      make([]domain.ShortlinkRow, 0, n),
		PendingPayments: make([]domain.PaymentRow, 0, n),
	}

	if err := db.Model(&domain.User{}).
		Order("created_at DESC, id DESC").Limit(n).
		Find(&out.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Shortlink{}).
		Select("shortlinks.*, users.username").
		Joins("JOIN users ON users.id = shortlinks.user_id").
		Order("shortlinks.created_at DESC, shortlinks.id DESC").Limit(n).
		Find(&out.Shortlinks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Payment{}).
		Select("payments.*, users.username").
		Joins("JOIN users ON users.id = payments.user_id").
		Where("payments.status = ?", domain.PaymentStatusPending).
		Order("payments.created_at DESC, payments.id DESC").Limit(n).
		Find(&out.PendingPayments).Error; err != nil {
		return nil, err
	}
	return out, nil
}
