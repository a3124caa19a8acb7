package wallet

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

// Reconcile verifies that every user's balance equals the sum of their
// completed ledger entries. A non-nil error means the books do not balance.
func (s *Service) Reconcile(ctx context.Context) error {
	var (
		users  []repo2.User
		merr   *multierror.Error
		logger = log2.GetLogger(ctx)
	)
	if err := s.database.WithContext(ctx).Model(repo2.User{}).Find(&users).Error; err != nil {
		return err
	}
	for _, user := range users {
		sum, err := s.ledger.CompletedSum(ctx, user.ID)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if sum != int64(user.Balance) {
			merr = multierror.Append(merr, fmt.Errorf(
				"user %s: balance %d != completed ledger sum %d", user.ID, user.Balance, sum))
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		logger.WithError(err).Errorf("ledger reconciliation failed")
		return err
	}
	logger.Infof("ledger reconciled for %d users", len(users))
	return nil
}
