package wallet

import (
	"context"
	"errors"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
)

// CheckAccess decides whether chapter content may be served to the requester.
// Pure read, called on every chapter-content request.
//
// Banned users are collapsed into the generic forbidden answer on this path so
// the public content endpoint never reveals ban state to unauthenticated
// probing.
func (s *Service) CheckAccess(ctx context.Context, identity *domain.Identity, chapterId string) (domain.AccessDecision, error) {
	chapter, err := s.chapters.GetById(ctx, chapterId)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	if chapter.Price == 0 {
		return domain.AccessDecision{Granted: true, Reason: domain.AccessFree}, nil
	}
	if identity == nil {
		return domain.AccessDecision{Granted: false, Reason: domain.AccessLoginRequired}, nil
	}
	if identity.Banned {
		return domain.AccessDecision{Granted: false, Reason: domain.AccessForbidden}, nil
	}
	_, err = s.unlocks.Find(ctx, identity.UserID, chapterId)
	switch {
	case err == nil:
		return domain.AccessDecision{Granted: true, Reason: domain.AccessAlreadyUnlocked}, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.AccessDecision{Granted: false, Reason: domain.AccessPaymentRequired}, nil
	default:
		return domain.AccessDecision{}, err
	}
}
