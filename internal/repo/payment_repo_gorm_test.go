package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"shortlink-admin/internal/domain"
)

func paymentColumns() []string {
	return []string{"id", "user_id", "amount", "method", "status", "created_at"}
}

func TestReviewApproveCreditsBalance(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewPaymentRepo(db)

	// approve：入账和状态翻转在同一事务
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `payments` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(paymentColumns()).
			AddRow(int64(3), int64(9), 100.0, "manual", "pending", time.Now()))
	mock.ExpectExec("UPDATE `users` SET `balance`=balance \\+ ").
		WithArgs(100.0, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `payments` SET `status`=").
		WithArgs(domain.PaymentStatusApproved, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := r.Review(context.Background(), 3, domain.VerdictApprove); err != nil {
		t.Fatalf("review error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewRejectOnlyFlipsStatus(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `payments` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(paymentColumns()).
			AddRow(int64(3), int64(9), 100.0, "manual", "pending", time.Now()))
	mock.ExpectExec("UPDATE `payments` SET `status`=").
		WithArgs(domain.PaymentStatusRejected, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := r.Review(context.Background(), 3, domain.VerdictReject); err != nil {
		t.Fatalf("review error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewAlreadyProcessed(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewPaymentRepo(db)

	// 已审过的单子不允许二次审核
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `payments` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(paymentColumns()).
			AddRow(int64(3), int64(9), 100.0, "manual", "approved", time.Now()))
	mock.ExpectRollback()

	err := r.Review(context.Background(), 3, domain.VerdictApprove)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviewPaymentMissing(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `payments` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(paymentColumns()))
	mock.ExpectRollback()

	err := r.Review(context.Background(), 404, domain.VerdictApprove)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
