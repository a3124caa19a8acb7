package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/events"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory db alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repo2.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(
		db,
		repo2.NewChapterRepo(db),
		repo2.NewUnlockRepo(db),
		repo2.NewTransactionRepo(db),
		events.NopPublisher{},
	)
	return svc, db
}

var userSeq int64

func seedUser(t *testing.T, db *gorm.DB) repo2.User {
	t.Helper()
	user := repo2.User{
		Username: fmt.Sprintf("reader-%d", atomic.AddInt64(&userSeq, 1)),
		Role:     domain.RoleMember,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedChapter(t *testing.T, db *gorm.DB, price uint) repo2.Chapter {
	t.Helper()
	story := repo2.Story{Title: "test story", Status: "ongoing"}
	require.NoError(t, db.Create(&story).Error)
	chapter := repo2.Chapter{StoryID: story.ID, Seq: 1, Title: "chapter 1", Price: price, Content: "noi dung"}
	require.NoError(t, db.Create(&chapter).Error)
	return chapter
}

// fund credits a user through the ledger so the conservation invariant stays
// checkable: every coin in a test balance has a completed ledger entry.
func fund(t *testing.T, svc *Service, userId string, amount int64) {
	t.Helper()
	_, err := svc.AdminGrant(context.Background(), userId, amount, "test funding")
	require.NoError(t, err)
}

func balanceOf(t *testing.T, db *gorm.DB, userId string) uint {
	t.Helper()
	var user repo2.User
	require.NoError(t, db.Where("id = ?", userId).First(&user).Error)
	return user.Balance
}

func TestUnlockChapterSuccess(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 100)
	fund(t, svc, user.ID, 150)

	result, err := svc.UnlockChapter(ctx, user.ID, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockSuccess, result.Outcome)
	assert.Equal(t, uint(50), result.BalanceAfter)
	assert.Equal(t, uint(50), balanceOf(t, db, user.ID))

	var record repo2.UnlockRecord
	require.NoError(t, db.Where("user_id = ? AND chapter_id = ?", user.ID, chapter.ID).First(&record).Error)
	assert.Equal(t, uint(100), record.PricePaid)

	var entry repo2.Transaction
	require.NoError(t, db.Where("user_id = ? AND kind = ?", user.ID, domain.TxKindUnlock).First(&entry).Error)
	assert.Equal(t, int64(-100), entry.Amount)
	assert.Equal(t, domain.TxStatusCompleted, entry.Status)
}

func TestUnlockChapterIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 100)
	fund(t, svc, user.ID, 500)

	first, err := svc.UnlockChapter(ctx, user.ID, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockSuccess, first.Outcome)

	second, err := svc.UnlockChapter(ctx, user.ID, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockAlreadyOwned, second.Outcome)

	// charged exactly once
	assert.Equal(t, uint(400), balanceOf(t, db, user.ID))
	var count int64
	require.NoError(t, db.Model(repo2.UnlockRecord{}).
		Where("user_id = ? AND chapter_id = ?", user.ID, chapter.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnlockChapterInsufficientFunds(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 100)
	fund(t, svc, user.ID, 50)

	result, err := svc.UnlockChapter(ctx, user.ID, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockNoFunds, result.Outcome)
	assert.Equal(t, uint(50), balanceOf(t, db, user.ID))

	var count int64
	require.NoError(t, db.Model(repo2.UnlockRecord{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUnlockChapterFree(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 0)

	result, err := svc.UnlockChapter(ctx, user.ID, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockFree, result.Outcome)

	var count int64
	require.NoError(t, db.Model(repo2.UnlockRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(repo2.Transaction{}).Where("kind = ?", domain.TxKindUnlock).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUnlockChapterMissing(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	fund(t, svc, user.ID, 100)

	_, err := svc.UnlockChapter(context.Background(), user.ID, "no-such-chapter")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, uint(100), balanceOf(t, db, user.ID))
}

func TestUnlockChapterUnknownUser(t *testing.T) {
	svc, db := newTestService(t)
	chapter := seedChapter(t, db, 100)

	_, err := svc.UnlockChapter(context.Background(), "no-such-user", chapter.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnlockChapterConcurrent(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 100)
	fund(t, svc, user.ID, 1000)

	const n = 8
	results := make(chan domain.UnlockResult, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.UnlockChapter(context.Background(), user.ID, chapter.ID)
			results <- result
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	var success, owned int
	for result := range results {
		switch result.Outcome {
		case domain.UnlockSuccess:
			success++
		case domain.UnlockAlreadyOwned:
			owned++
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, n-1, owned)
	assert.Equal(t, uint(900), balanceOf(t, db, user.ID))
}

func TestUnlockChapterConcurrentFree(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 0)

	const n = 5
	results := make(chan domain.UnlockResult, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.UnlockChapter(context.Background(), user.ID, chapter.ID)
			results <- result
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for result := range results {
		assert.Equal(t, domain.UnlockFree, result.Outcome)
	}

	var count int64
	require.NoError(t, db.Model(repo2.UnlockRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDepositLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)

	entry, err := svc.RequestDeposit(ctx, user.ID, 20000, "nap tien")
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, entry.Status)
	assert.Equal(t, int64(20000), entry.Amount)
	// pending deposits carry zero spending power
	assert.Equal(t, uint(0), balanceOf(t, db, user.ID))

	approved, err := svc.ApproveDeposit(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, approved.Status)
	assert.Equal(t, uint(20000), balanceOf(t, db, user.ID))

	_, err = svc.ApproveDeposit(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, uint(20000), balanceOf(t, db, user.ID))
}

func TestRejectDeposit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)

	entry, err := svc.RequestDeposit(ctx, user.ID, 5000, "nap tien")
	require.NoError(t, err)

	rejected, err := svc.RejectDeposit(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusRejected, rejected.Status)
	assert.Equal(t, uint(0), balanceOf(t, db, user.ID))

	_, err = svc.ApproveDeposit(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, uint(0), balanceOf(t, db, user.ID))
}

func TestRequestDepositInvalidAmount(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	for _, amount := range []int64{0, -5} {
		_, err := svc.RequestDeposit(context.Background(), user.ID, amount, "bad")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestApproveDepositMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ApproveDeposit(context.Background(), "no-such-tx")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminGrant(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	entry, err := svc.AdminGrant(context.Background(), user.ID, 500, "correction")
	require.NoError(t, err)
	assert.Equal(t, domain.TxKindGift, entry.Kind)
	assert.Equal(t, domain.TxStatusCompleted, entry.Status)
	assert.Equal(t, uint(500), balanceOf(t, db, user.ID))
}

func TestConservation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	chapter := seedChapter(t, db, 100)

	fund(t, svc, user.ID, 300)
	pending, err := svc.RequestDeposit(ctx, user.ID, 40, "pending stays out")
	require.NoError(t, err)
	_, err = svc.UnlockChapter(ctx, user.ID, chapter.ID)
	require.NoError(t, err)

	ledger := repo2.NewTransactionRepo(db)
	sum, err := ledger.CompletedSum(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), sum)
	assert.Equal(t, uint(200), balanceOf(t, db, user.ID))
	require.NoError(t, svc.Reconcile(ctx))

	// approving the pending deposit keeps the books balanced
	_, err = svc.ApproveDeposit(ctx, pending.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx))
	assert.Equal(t, uint(240), balanceOf(t, db, user.ID))
}

func TestReconcileDetectsDrift(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	fund(t, svc, user.ID, 100)

	// balance mutated outside the wallet workflows
	require.NoError(t, db.Model(repo2.User{}).Where("id = ?", user.ID).Update("balance", 999).Error)
	assert.Error(t, svc.Reconcile(context.Background()))
}

func TestStatementNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	fund(t, svc, user.ID, 100)
	_, err := svc.RequestDeposit(ctx, user.ID, 50, "second entry")
	require.NoError(t, err)

	entries, err := svc.Statement(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].CreatedAt.Before(entries[1].CreatedAt))
}
