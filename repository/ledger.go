package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
)

type unlockRepository struct {
	database *gorm.DB
}

func (u *unlockRepository) Find(ctx context.Context, userId, chapterId string) (UnlockRecord, error) {
	var record UnlockRecord
	err := u.database.WithContext(ctx).Model(UnlockRecord{}).
		Where("user_id = ? AND chapter_id = ?", userId, chapterId).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, domain.ErrNotFound
	}
	return record, err
}

func (u *unlockRepository) ListByUser(ctx context.Context, userId string) ([]UnlockRecord, error) {
	var records []UnlockRecord
	err := u.database.WithContext(ctx).Model(UnlockRecord{}).
		Where("user_id = ?", userId).Order("created_at DESC").Find(&records).Error
	return records, err
}

type UnlockRepository interface {
	Find(ctx context.Context, userId, chapterId string) (UnlockRecord, error)
	ListByUser(ctx context.Context, userId string) ([]UnlockRecord, error)
}

func NewUnlockRepo(db *gorm.DB) UnlockRepository {
	return &unlockRepository{database: db}
}

type transactionRepository struct {
	database *gorm.DB
}

func (t *transactionRepository) GetById(ctx context.Context, txId string) (Transaction, error) {
	var entry Transaction
	err := t.database.WithContext(ctx).Model(Transaction{}).Where("id = ?", txId).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entry, domain.ErrNotFound
	}
	return entry, err
}

func (t *transactionRepository) ListByUser(ctx context.Context, userId string) ([]Transaction, error) {
	var entries []Transaction
	err := t.database.WithContext(ctx).Model(Transaction{}).
		Where("user_id = ?", userId).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (t *transactionRepository) ListPending(ctx context.Context) ([]Transaction, error) {
	var entries []Transaction
	err := t.database.WithContext(ctx).Model(Transaction{}).
		Where("status = ?", domain.TxStatusPending).Order("created_at ASC").Find(&entries).Error
	return entries, err
}

// CompletedSum is the reconciliation read: it must equal the user's balance.
func (t *transactionRepository) CompletedSum(ctx context.Context, userId string) (int64, error) {
	var sum int64
	err := t.database.WithContext(ctx).Model(Transaction{}).
		Where("user_id = ? AND status = ?", userId, domain.TxStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

type TransactionRepository interface {
	GetById(ctx context.Context, txId string) (Transaction, error)
	ListByUser(ctx context.Context, userId string) ([]Transaction, error)
	ListPending(ctx context.Context) ([]Transaction, error)
	CompletedSum(ctx context.Context, userId string) (int64, error)
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepository{database: db}
}
