package domain

import "errors"

// Business outcomes that are not faults get their own variants; callers switch on
// these instead of parsing error strings.

type UnlockOutcome string

const (
	UnlockSuccess      UnlockOutcome = "success"
	UnlockAlreadyOwned UnlockOutcome = "already_owned"
	UnlockFree         UnlockOutcome = "free"
	UnlockNoFunds      UnlockOutcome = "not_enough_money"
)

type AccessReason string

const (
	AccessFree            AccessReason = "free"
	AccessAlreadyUnlocked AccessReason = "already_unlocked"
	AccessLoginRequired   AccessReason = "login_required"
	AccessPaymentRequired AccessReason = "payment_required"
	AccessForbidden       AccessReason = "forbidden"
)

type AccessDecision struct {
	Granted bool         `json:"granted"`
	Reason  AccessReason `json:"reason"`
}

type UnlockResult struct {
	Outcome      UnlockOutcome `json:"outcome"`
	BalanceAfter uint          `json:"balance_after"`
}

const (
	TxKindDeposit = "deposit"
	TxKindUnlock  = "unlock_chapter"
	TxKindGift    = "gift"

	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusRejected  = "rejected"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
	RoleUploader  = "uploader"
)

// Identity is the resolved caller of a request; nil means anonymous.
type Identity struct {
	UserID string
	Role   string
	Banned bool
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyProcessed = errors.New("transaction already processed")
	ErrUnauthorized     = errors.New("unauthorized")
)
