package changefeed

import (
	"context"
	"encoding/json"

	"rendezvous.club/configs/configslog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient builds the shared Redis connection for the feed.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// RedisFeed implements Feed on Redis streams via watermill.
type RedisFeed struct {
	client    *redis.Client
	publisher message.Publisher
	logger    watermill.LoggerAdapter
}

// NewRedisFeed wires a stream publisher over the given client. An empty
// addr is expected to be handled by the caller (use NoopFeed instead).
func NewRedisFeed(client *redis.Client) (*RedisFeed, error) {
	logger := watermill.NopLogger{}
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		configslog.Log.Error("Change feed publisher init failed", zap.Error(err))
		return nil, err
	}
	return &RedisFeed{client: client, publisher: publisher, logger: logger}, nil
}

func (f *RedisFeed) Publish(ctx context.Context, table, filter string, action Action, rowID uint, row interface{}) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return err
	}
	change := Change{Table: table, Action: action, RowID: rowID, Payload: payload}
	body, err := json.Marshal(change)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)
	if err := f.publisher.Publish(Topic(table, filter), msg); err != nil {
		configslog.Log.Error("Change feed publish failed",
			zap.String("table", table), zap.String("filter", filter), zap.Error(err))
		return err
	}
	return nil
}

// Subscribe opens a dedicated consumer group per call so every subscriber
// receives every change (fan-out, not load-balancing). The subscription and
// its group are torn down when ctx is cancelled.
func (f *RedisFeed) Subscribe(ctx context.Context, table, filter string) (<-chan Change, error) {
	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        f.client,
		ConsumerGroup: "feed-" + watermill.NewShortUUID(),
	}, f.logger)
	if err != nil {
		configslog.Log.Error("Change feed subscriber init failed", zap.Error(err))
		return nil, err
	}

	messages, err := subscriber.Subscribe(ctx, Topic(table, filter))
	if err != nil {
		_ = subscriber.Close()
		return nil, err
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer subscriber.Close()
		for msg := range messages {
			var change Change
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				configslog.Log.Warn("Change feed message dropped", zap.Error(err))
				msg.Ack()
				continue
			}
			select {
			case out <- change:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

func (f *RedisFeed) Close() error {
	if err := f.publisher.Close(); err != nil {
		return err
	}
	return f.client.Close()
}
