package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shortlink-admin/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List 过滤 + 分页 + 排序，行上带短链数 / 已通过充值数（相关子查询）。
// total 是过滤后、分页前的行数；超出末页返回空集不报错。
func (r *UserRepo) List(ctx context.Context, f domain.UserFilter, p domain.Page) ([]domain.UserRow, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("username LIKE ? OR CAST(telegram_id AS CHAR) LIKE ?", like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]domain.UserRow, 0, p.Size)
	err := q.
		Select("users.*,"+
			" (SELECT COUNT(*) FROM shortlinks WHERE shortlinks.user_id = users.id) AS total_links,"+
			" (SELECT COUNT(*) FROM payments WHERE payments.user_id = users.id AND payments.status = ?) AS total_payments",
			domain.PaymentStatusApproved).
		Order("created_at DESC, id DESC"). // 时间戳撞车时用 id 兜底，保证翻页稳定
		Limit(p.Size).Offset(p.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// AdjustBalance 行锁内读改写，deduct 在 0 截断；返回落库后的余额。
func (r *UserRepo) AdjustBalance(ctx context.Context, id int64, amount float64, op string) (float64, error) {
	var newBal float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		switch op {
		case domain.BalanceOpAdd:
			newBal = u.Balance + amount
		case domain.BalanceOpDeduct:
			newBal = u.Balance - amount
			if newBal < 0 {
				newBal = 0
			}
		default:
			return domain.ErrInvalidArgument
		}
		return tx.Model(&domain.User{}).Where("id = ?", id).Update("balance", newBal).Error
	})
	if err != nil {
		return 0, err
	}
	return newBal, nil
}

func (r *UserRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 依赖顺序 payments → shortlinks → users，整体一个事务，半途失败全回滚。
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		err := tx.First(&u, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Shortlink{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
}
