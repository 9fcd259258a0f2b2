package realtime

import (
	"context"
	"encoding/json"
	"sync"

	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
	redisclient "github.com/AliCapone21/nonkabob-guliston/pkg/redis"
)

// Event is one change notice. Consumers treat it as "something changed,
// refetch everything" rather than a patch.
type Event struct {
	Table   string `json:"table"`
	Action  string `json:"action"`
	OrderID int64  `json:"order_id,omitempty"`
}

// Feed carries change events from writers to dashboard consumers.
type Feed interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// RedisFeed implements Feed on a Redis pub/sub channel so every API
// replica sees every change.
type RedisFeed struct {
	client  *redisclient.Client
	channel string
	logg    *logger.Logger
}

// NewRedisFeed binds the feed to the configured channel.
func NewRedisFeed(client *redisclient.Client, channel string, logg *logger.Logger) (*RedisFeed, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis client is required")
	}
	if channel == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel is required")
	}
	return &RedisFeed{client: client, channel: channel, logg: logg}, nil
}

// Publish serializes the event onto the channel.
func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal realtime event")
	}
	if err := f.client.Publish(ctx, f.channel, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish realtime event")
	}
	return nil
}

// Subscribe delivers events until the context is cancelled. Messages
// that fail to decode are dropped with a log line; a malformed payload
// must not wedge the dashboard stream.
func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub, err := f.client.Subscribe(ctx, f.channel)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribe realtime channel")
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				event, err := decodeEvent(msg)
				if err != nil {
					if f.logg != nil {
						f.logg.Warn(ctx, "dropping malformed realtime event")
					}
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeEvent(msg *redislib.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// MemoryFeed is the in-process Feed used by tests and single-replica
// dev runs.
type MemoryFeed struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewMemoryFeed builds an empty in-process feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{}
}

// Publish fans the event out to every subscriber without blocking on
// slow ones.
func (f *MemoryFeed) Publish(ctx context.Context, event Event) error {
	f.mu.Lock()
	subs := make([]chan Event, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a buffered subscriber channel that closes with
// the context.
func (f *MemoryFeed) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)

	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		for i, sub := range f.subs {
			if sub == ch {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
