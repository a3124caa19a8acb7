package events

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
)

const (
	WalletChannel string = "WalletChannel"

	EventChapterUnlocked  string = "chapter_unlocked"
	EventDepositRequested string = "deposit_requested"
	EventDepositApproved  string = "deposit_approved"
	EventDepositRejected  string = "deposit_rejected"
	EventCoinsGranted     string = "coins_granted"
)

type Event struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	UserId    string `json:"user_id,omitempty"`
	ChapterId string `json:"chapter_id,omitempty"`
	TxId      string `json:"transaction_id,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
}

func (e Event) MarshalBinary() ([]byte, error) {
	return sonic.Marshal(e)
}

// Publisher fans wallet events out to interested consumers. Publishing is
// best-effort: a failed publish is logged and never fails the workflow that
// produced it.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type redisPublisher struct {
	c *redis.Client
}

func (p *redisPublisher) Publish(ctx context.Context, event Event) {
	logger := log2.GetLogger(ctx)
	event.ID = uuid.New().String()
	if err := p.c.Publish(ctx, WalletChannel, event).Err(); err != nil {
		logger.WithError(err).Errorf("error publishing %s event to %s channel", event.Kind, WalletChannel)
		return
	}
	logger.Infof("%s event published to channel :%s", event.Kind, WalletChannel)
}

func NewPublisher(c *redis.Client) Publisher {
	return &redisPublisher{c: c}
}

// NopPublisher drops every event; used when no redis is wired, and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
