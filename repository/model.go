package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	Username     string `gorm:"type:varchar(64);column:username;uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);column:password_hash;not null"`
	Role         string `gorm:"type:varchar(16);column:role;not null;default:member"`
	Banned       bool   `gorm:"column:banned;not null;default:false"`
	Balance      uint   `gorm:"type:int unsigned;column:balance;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Story struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Title     string `gorm:"type:varchar(255);column:title;not null"`
	Author    string `gorm:"type:varchar(255);column:author"`
	Synopsis  string `gorm:"type:text;column:synopsis"`
	Status    string `gorm:"type:varchar(16);column:status;not null;default:ongoing"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Chapter struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	StoryID   string `gorm:"type:varchar(36);column:story_id;index;not null"`
	Seq       uint   `gorm:"type:int unsigned;column:seq;not null"`
	Title     string `gorm:"type:varchar(255);column:title;not null"`
	Price     uint   `gorm:"type:int unsigned;column:price;not null;default:0"`
	Content   string `gorm:"type:mediumtext;column:content"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnlockRecord marks a completed purchase. The composite unique index is the
// storage-level guard against double-unlocking the same chapter.
type UnlockRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"type:varchar(36);column:user_id;not null;uniqueIndex:idx_user_chapter"`
	ChapterID string `gorm:"type:varchar(36);column:chapter_id;not null;uniqueIndex:idx_user_chapter"`
	PricePaid uint   `gorm:"type:int unsigned;column:price_paid;not null"`
	CreatedAt time.Time
}

// Transaction is an immutable ledger entry; amounts are signed, credits positive.
type Transaction struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	UserID      string `gorm:"type:varchar(36);column:user_id;index;not null"`
	Amount      int64  `gorm:"column:amount;not null"`
	Kind        string `gorm:"type:varchar(32);column:kind;not null"`
	Status      string `gorm:"type:varchar(16);column:status;not null"`
	Description string `gorm:"type:varchar(255);column:description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (s *Story) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (c *Chapter) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
