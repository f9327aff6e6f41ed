package service

import (
	"context"
	"fmt"
	"strings"

	"shortlink-admin/internal/domain"
)

// UserService 入参校验都在这一层，不合法的请求不落库。
type UserService struct {
	users    domain.UserRepository
	payments domain.PaymentRepository
	pageSize int
}

func NewUserService(users domain.UserRepository, payments domain.PaymentRepository, pageSize int) *UserService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &UserService{users: users, payments: payments, pageSize: pageSize}
}

func (s *UserService) PageSize() int { return s.pageSize }

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// List 列表查询。状态过滤值不在枚举内时按"不过滤"降级（查询路径宽容，
// 变更路径严格）。
func (s *UserService) List(ctx context.Context, search, status string, page int) ([]domain.UserRow, int64, error) {
	f := domain.UserFilter{Search: strings.TrimSpace(search)}
	if domain.ValidUserStatus(status) {
		f.Status = status
	}
	if page < 1 {
		page = 1
	}
	return s.users.List(ctx, f, domain.Page{Number: page, Size: s.pageSize})
}

func (s *UserService) AdjustBalance(ctx context.Context, id int64, amount float64, op string) (float64, error) {
	if op != domain.BalanceOpAdd && op != domain.BalanceOpDeduct {
		return 0, fmt.Errorf("operation %q: %w", op, domain.ErrInvalidArgument)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount %.2f: %w", amount, domain.ErrInvalidArgument)
	}
	return s.users.AdjustBalance(ctx, id, amount, op)
}

func (s *UserService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !domain.ValidUserStatus(status) {
		return fmt.Errorf("status %q: %w", status, domain.ErrInvalidArgument)
	}
	return s.users.UpdateStatus(ctx, id, status)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) ReviewPayment(ctx context.Context, paymentID int64, verdict string) error {
	if verdict != domain.VerdictApprove && verdict != domain.VerdictReject {
		return fmt.Errorf("verdict %q: %w", verdict, domain.ErrInvalidArgument)
	}
	return s.payments.Review(ctx, paymentID, verdict)
}
