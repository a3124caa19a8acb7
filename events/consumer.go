package events

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/go-multierror"

	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
)

// counter keys per event kind, kept in redis hashes for the admin stats view.
const (
	unlockCountKey  = "wallet:unlock_count"
	depositCountKey = "wallet:deposit_count"
)

// Consumer tails the wallet channel, audit-logs every event and maintains the
// per-chapter unlock counters.
type Consumer struct {
	c      *redis.Client
	pubsub *redis.PubSub
}

func NewConsumer(c *redis.Client) *Consumer {
	return &Consumer{c: c}
}

func (co *Consumer) Run(ctx context.Context) {
	var (
		err    error
		logger = log2.GetLogger(ctx)
	)
	co.pubsub = co.c.Subscribe(ctx, WalletChannel)
	if _, err = co.pubsub.Receive(ctx); err != nil {
		logger.Fatalf("error subscribing %s", err)
	}
	ch := co.pubsub.Channel()
	logger.Infoln("starting the wallet event consumer")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			e := Event{}
			if err = sonic.Unmarshal([]byte(msg.Payload), &e); err != nil {
				logger.WithError(err).Errorf("Unmarshal err: %s\n", err)
				continue
			}
			co.handle(ctx, e)
		}
	}
}

func (co *Consumer) handle(ctx context.Context, e Event) {
	logger := log2.GetLogger(ctx)
	logger.Infof("wallet event %s id=%s user=%s tx=%s amount=%d",
		e.Kind, e.ID, e.UserId, e.TxId, e.Amount)
	switch e.Kind {
	case EventChapterUnlocked:
		if err := co.c.HIncrBy(ctx, unlockCountKey, e.ChapterId, 1).Err(); err != nil {
			logger.WithError(err).Errorf("error counting unlock for chapter %s", e.ChapterId)
		}
	case EventDepositApproved:
		if err := co.c.HIncrBy(ctx, depositCountKey, e.UserId, 1).Err(); err != nil {
			logger.WithError(err).Errorf("error counting deposit for user %s", e.UserId)
		}
	}
}

// UnlockCounts reads the per-chapter unlock counters for the admin stats view.
func (co *Consumer) UnlockCounts(ctx context.Context) (map[string]string, error) {
	return co.c.HGetAll(ctx, unlockCountKey).Result()
}

func (co *Consumer) Close() error {
	var merr *multierror.Error
	if co.pubsub != nil {
		merr = multierror.Append(merr, co.pubsub.Close())
	}
	merr = multierror.Append(merr, co.c.Close())
	return merr.ErrorOrNil()
}
