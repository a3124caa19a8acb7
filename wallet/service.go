package wallet

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/events"
	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

// Service owns every balance mutation on the platform. No other code path may
// touch User.Balance or write ledger rows.
type Service struct {
	database *gorm.DB
	chapters repo2.ChapterRepository
	unlocks  repo2.UnlockRepository
	ledger   repo2.TransactionRepository
	pub      events.Publisher
}

func NewService(
	db *gorm.DB,
	chapters repo2.ChapterRepository,
	unlocks repo2.UnlockRepository,
	ledger repo2.TransactionRepository,
	pub events.Publisher,
) *Service {
	return &Service{
		database: db,
		chapters: chapters,
		unlocks:  unlocks,
		ledger:   ledger,
		pub:      pub,
	}
}

// lockForUpdate takes the row lock that serializes balance mutation. sqlite
// has no FOR UPDATE; its single-writer transactions serialize on their own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// UnlockChapter converts a purchase intent into debit + unlock record + ledger
// entry, all inside one transaction. The user row is locked FOR UPDATE first so
// concurrent purchases against the same balance serialize; the unique index on
// (user_id, chapter_id) backstops a concurrent double-buy of the same chapter.
func (s *Service) UnlockChapter(ctx context.Context, userId, chapterId string) (domain.UnlockResult, error) {
	var (
		result domain.UnlockResult
		logger = log2.GetLogger(ctx)
	)
	err := s.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user repo2.User
		if err := lockForUpdate(tx).
			Where("id = ?", userId).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var existing repo2.UnlockRecord
		err := tx.Where("user_id = ? AND chapter_id = ?", userId, chapterId).First(&existing).Error
		if err == nil {
			result = domain.UnlockResult{Outcome: domain.UnlockAlreadyOwned, BalanceAfter: user.Balance}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var chapter repo2.Chapter
		if err := tx.Where("id = ?", chapterId).First(&chapter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if chapter.Price == 0 {
			result = domain.UnlockResult{Outcome: domain.UnlockFree, BalanceAfter: user.Balance}
			return nil
		}
		if user.Balance < chapter.Price {
			result = domain.UnlockResult{Outcome: domain.UnlockNoFunds, BalanceAfter: user.Balance}
			return nil
		}

		user.Balance -= chapter.Price
		if err := tx.Where("id = ?", userId).Save(&user).Error; err != nil {
			return err
		}
		record := repo2.UnlockRecord{
			UserID:    userId,
			ChapterID: chapterId,
			PricePaid: chapter.Price,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		entry := repo2.Transaction{
			UserID:      userId,
			Amount:      -int64(chapter.Price),
			Kind:        domain.TxKindUnlock,
			Status:      domain.TxStatusCompleted,
			Description: fmt.Sprintf("unlock chapter %s", chapterId),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		result = domain.UnlockResult{Outcome: domain.UnlockSuccess, BalanceAfter: user.Balance}
		return nil
	})
	if err != nil {
		return domain.UnlockResult{}, err
	}
	if result.Outcome == domain.UnlockSuccess {
		logger.Infof("user %s unlocked chapter %s", userId, chapterId)
		s.pub.Publish(ctx, events.Event{
			Kind:      events.EventChapterUnlocked,
			UserId:    userId,
			ChapterId: chapterId,
		})
	}
	return result, nil
}

// RequestDeposit records a pending top-up. The balance is untouched until an
// admin approves, so a pending deposit carries zero spending power.
func (s *Service) RequestDeposit(ctx context.Context, userId string, amount int64, description string) (repo2.Transaction, error) {
	if amount <= 0 {
		return repo2.Transaction{}, domain.ErrInvalidAmount
	}
	entry := repo2.Transaction{
		UserID:      userId,
		Amount:      amount,
		Kind:        domain.TxKindDeposit,
		Status:      domain.TxStatusPending,
		Description: description,
	}
	err := s.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user repo2.User
		if err := tx.Where("id = ?", userId).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return repo2.Transaction{}, err
	}
	s.pub.Publish(ctx, events.Event{
		Kind:   events.EventDepositRequested,
		UserId: userId,
		TxId:   entry.ID,
		Amount: amount,
	})
	return entry, nil
}

// ApproveDeposit flips a pending deposit to completed and credits the balance
// in the same transaction. The ledger row is locked first and its status
// re-checked under the lock, so a second approval lands on AlreadyProcessed
// instead of a double credit.
func (s *Service) ApproveDeposit(ctx context.Context, txId string) (repo2.Transaction, error) {
	var entry repo2.Transaction
	err := s.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("id = ?", txId).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if entry.Status != domain.TxStatusPending {
			return domain.ErrAlreadyProcessed
		}
		var user repo2.User
		if err := lockForUpdate(tx).
			Where("id = ?", entry.UserID).First(&user).Error; err != nil {
			return err
		}
		user.Balance += uint(entry.Amount)
		if err := tx.Where("id = ?", user.ID).Save(&user).Error; err != nil {
			return err
		}
		entry.Status = domain.TxStatusCompleted
		return tx.Where("id = ?", entry.ID).Save(&entry).Error
	})
	if err != nil {
		return repo2.Transaction{}, err
	}
	s.pub.Publish(ctx, events.Event{
		Kind:   events.EventDepositApproved,
		UserId: entry.UserID,
		TxId:   entry.ID,
		Amount: entry.Amount,
	})
	return entry, nil
}

// RejectDeposit marks a pending deposit rejected; the balance is never touched.
func (s *Service) RejectDeposit(ctx context.Context, txId string) (repo2.Transaction, error) {
	var entry repo2.Transaction
	err := s.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("id = ?", txId).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if entry.Status != domain.TxStatusPending {
			return domain.ErrAlreadyProcessed
		}
		entry.Status = domain.TxStatusRejected
		return tx.Where("id = ?", entry.ID).Save(&entry).Error
	})
	if err != nil {
		return repo2.Transaction{}, err
	}
	s.pub.Publish(ctx, events.Event{
		Kind:   events.EventDepositRejected,
		UserId: entry.UserID,
		TxId:   entry.ID,
	})
	return entry, nil
}

// AdminGrant credits coins directly, skipping the pending state. The admin is
// the trusted initiator, so the ledger row is born completed.
func (s *Service) AdminGrant(ctx context.Context, userId string, amount int64, note string) (repo2.Transaction, error) {
	if amount <= 0 {
		return repo2.Transaction{}, domain.ErrInvalidAmount
	}
	entry := repo2.Transaction{
		UserID:      userId,
		Amount:      amount,
		Kind:        domain.TxKindGift,
		Status:      domain.TxStatusCompleted,
		Description: note,
	}
	err := s.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user repo2.User
		if err := lockForUpdate(tx).
			Where("id = ?", userId).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		user.Balance += uint(amount)
		if err := tx.Where("id = ?", userId).Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return repo2.Transaction{}, err
	}
	s.pub.Publish(ctx, events.Event{
		Kind:   events.EventCoinsGranted,
		UserId: userId,
		TxId:   entry.ID,
		Amount: amount,
	})
	return entry, nil
}

// Statement returns the user's ledger, newest first.
func (s *Service) Statement(ctx context.Context, userId string) ([]repo2.Transaction, error) {
	return s.ledger.ListByUser(ctx, userId)
}

// PendingDeposits lists deposits awaiting admin action, oldest first.
func (s *Service) PendingDeposits(ctx context.Context) ([]repo2.Transaction, error) {
	return s.ledger.ListPending(ctx)
}
