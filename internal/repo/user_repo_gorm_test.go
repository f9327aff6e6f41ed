package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shortlink-admin/internal/domain"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return gdb, mock
}

func userColumns() []string {
	return []string{"id", "telegram_id", "username", "balance", "status", "created_at"}
}

func TestAdjustBalanceAddExact(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(5), int64(111), "fox", 50.0, "active", time.Now()))
	mock.ExpectExec("UPDATE `users` SET `balance`=").
		WithArgs(125.0, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := r.AdjustBalance(context.Background(), 5, 75, domain.BalanceOpAdd)
	if err != nil {
		t.Fatalf("adjust error: %v", err)
	}
	if got != 125.0 {
		t.Fatalf("new balance = %v, want 125", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjustBalanceDeductClampsAtZero(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	// 余额 50，扣 70：落库 0 而不是 -20
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(5), int64(111), "fox", 50.0, "active", time.Now()))
	mock.ExpectExec("UPDATE `users` SET `balance`=").
		WithArgs(0.0, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := r.AdjustBalance(context.Background(), 5, 70, domain.BalanceOpDeduct)
	if err != nil {
		t.Fatalf("adjust error: %v", err)
	}
	if got != 0 {
		t.Fatalf("new balance = %v, want 0", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjustBalanceUserMissing(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	// 查无此人：回滚，且没有任何 UPDATE
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectRollback()

	_, err := r.AdjustBalance(context.Background(), 404, 10, domain.BalanceOpAdd)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListUsersCombinedFilter(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	like := "%fox%"
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs(like, like, "blocked").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT users\\..*total_links.*total_payments.* FROM `users`").
		WillReturnRows(sqlmock.NewRows(append(userColumns(), "total_links", "total_payments")).
			AddRow(int64(7), int64(222), "foxy", 10.0, "blocked", time.Now(), int64(3), int64(1)))

	rows, total, err := r.List(context.Background(),
		domain.UserFilter{Search: "fox", Status: "blocked"},
		domain.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("total = %d, rows = %d, want 1/1", total, len(rows))
	}
	if rows[0].Status != "blocked" || rows[0].TotalLinks != 3 || rows[0].TotalPayments != 1 {
		t.Fatalf("row mismatch: %+v", rows[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListUsersPageBeyondEnd(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	// 第 99 页：空行集 + 真实 total，不是错误
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT users\\..* FROM `users`").
		WillReturnRows(sqlmock.NewRows(append(userColumns(), "total_links", "total_payments")))

	rows, total, err := r.List(context.Background(), domain.UserFilter{}, domain.Page{Number: 99, Size: 20})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want empty", len(rows))
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserRemovesDependentsInOrder(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	// 顺序约束：payments → shortlinks → users，同一事务
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = ").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(7), int64(222), "foxy", 10.0, "active", time.Now()))
	mock.ExpectExec("DELETE FROM `payments` WHERE user_id = ").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `shortlinks` WHERE user_id = ").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `users` WHERE id = ").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := r.Delete(context.Background(), 7); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserRollsBackOnFailure(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = ").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(7), int64(222), "foxy", 10.0, "active", time.Now()))
	mock.ExpectExec("DELETE FROM `payments` WHERE user_id = ").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `shortlinks` WHERE user_id = ").
		WithArgs(int64(7)).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	if err := r.Delete(context.Background(), 7); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusUserMissing(t *testing.T) {
	db, mock := newTestDB(t)
	r := NewUserRepo(db)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = ").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	err := r.UpdateStatus(context.Background(), 404, domain.UserStatusBlocked)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
